package roster

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medkey/medkey/internal/platform/directory"
)

// Filter narrows List results. Search matches name or MedKey ID
// case-insensitively; Status is an exact match, with "" or "all" meaning
// every status.
type Filter struct {
	Search string
	Status string
}

// Service manages a doctor's patient roster. Activation is centralized here:
// every consent path that unlocks a patient goes through Activate, so the
// pending-to-active transition has a single owner.
type Service struct {
	repo   Repository
	dir    directory.Directory
	logger zerolog.Logger
}

func NewService(repo Repository, dir directory.Directory, logger zerolog.Logger) *Service {
	return &Service{repo: repo, dir: dir, logger: logger}
}

// Seed writes the default demo roster if nothing is stored yet. It reports
// whether the defaults were written.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}
	if len(patients) > 0 {
		return false, nil
	}
	if err := s.repo.Save(ctx, Defaults()); err != nil {
		return false, fmt.Errorf("seed roster: %w", err)
	}
	s.logger.Info().Int("patients", len(Defaults())).Msg("roster seeded with defaults")
	return true, nil
}

// List returns the roster filtered by f, seeding the defaults first if the
// roster is empty.
func (s *Service) List(ctx context.Context, f Filter) ([]Patient, error) {
	if _, err := s.Seed(ctx); err != nil {
		return nil, err
	}
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Patient, 0, len(patients))
	search := strings.ToLower(f.Search)
	for _, p := range patients {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.MedKeyID), search) {
			continue
		}
		if f.Status != "" && f.Status != "all" && string(p.Status) != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// AddPatient appends a pending roster entry for the given MedKey ID. The name
// comes from the patient directory, falling back to "Patient <id>" for
// unknown ids. Duplicate MedKey IDs are allowed; each add is its own row.
func (s *Service) AddPatient(ctx context.Context, medKeyID string) (*Patient, error) {
	medKeyID = strings.TrimSpace(medKeyID)
	if medKeyID == "" {
		return nil, fmt.Errorf("medKeyId is required")
	}

	if _, err := s.Seed(ctx); err != nil {
		return nil, err
	}
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	p := Patient{
		ID:         uuid.NewString(),
		Name:       directory.DisplayName(ctx, s.dir, medKeyID),
		MedKeyID:   medKeyID,
		LastAccess: today,
		Status:     StatusPending,
		Age:        rand.Intn(50) + 20,
		LastVisit:  today,
	}
	patients = append(patients, p)
	if err := s.repo.Save(ctx, patients); err != nil {
		return nil, fmt.Errorf("save roster: %w", err)
	}
	s.logger.Info().Str("med_key_id", medKeyID).Str("name", p.Name).Msg("patient added to roster")
	return &p, nil
}

// Activate flips every pending entry for medKeyID to active and stamps its
// last access with today's date. Already-active entries are left alone, so
// repeated grants are idempotent. It reports whether any entry changed.
func (s *Service) Activate(ctx context.Context, medKeyID, cause string) (bool, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}

	today := time.Now().Format("2006-01-02")
	changed := false
	for i := range patients {
		if patients[i].MedKeyID == medKeyID && patients[i].Status == StatusPending {
			patients[i].Status = StatusActive
			patients[i].LastAccess = today
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	if err := s.repo.Save(ctx, patients); err != nil {
		return false, fmt.Errorf("save roster: %w", err)
	}
	s.logger.Info().Str("med_key_id", medKeyID).Str("cause", cause).Msg("roster entry activated")
	return true, nil
}

// FindByMedKey returns the first roster entry with the given MedKey ID.
func (s *Service) FindByMedKey(ctx context.Context, medKeyID string) (*Patient, bool, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range patients {
		if patients[i].MedKeyID == medKeyID {
			return &patients[i], true, nil
		}
	}
	return nil, false, nil
}
