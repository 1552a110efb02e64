package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medkey/medkey/internal/platform/docstore"
)

// Service assembles the patient's medical record set. Generation simulates a
// slow upstream fetch; once a record set is stored it is reused forever and
// never regenerated.
type Service struct {
	repo   Repository
	delay  time.Duration
	logger zerolog.Logger
}

func NewService(repo Repository, delay time.Duration, logger zerolog.Logger) *Service {
	return &Service{repo: repo, delay: delay, logger: logger}
}

// Get returns the stored record set. docstore.ErrNotFound when none has been
// generated yet.
func (s *Service) Get(ctx context.Context) (*MedicalRecord, error) {
	return s.repo.Get(ctx)
}

// Cached reports whether a record set is already stored.
func (s *Service) Cached(ctx context.Context) (bool, error) {
	return s.repo.Exists(ctx)
}

// Ensure returns the stored record set, generating and persisting one after
// the configured fetch delay if none exists. The second return value reports
// whether the set came from the cache. An existing set is returned untouched,
// with no delay.
func (s *Service) Ensure(ctx context.Context) (*MedicalRecord, bool, error) {
	return s.ensure(ctx, s.delay)
}

// EnsureNow is Ensure without the simulated fetch delay. The doctor's patient
// view needs records immediately; only the patient loading screen waits.
func (s *Service) EnsureNow(ctx context.Context) (*MedicalRecord, bool, error) {
	return s.ensure(ctx, 0)
}

func (s *Service) ensure(ctx context.Context, delay time.Duration) (*MedicalRecord, bool, error) {
	rec, err := s.repo.Get(ctx)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, false, fmt.Errorf("load medical records: %w", err)
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}

	rec = Generate()
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, false, fmt.Errorf("save medical records: %w", err)
	}
	s.logger.Info().Dur("fetch_delay", delay).Msg("medical records generated")
	return rec, false, nil
}
