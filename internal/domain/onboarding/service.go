package onboarding

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog"
)

const (
	medKeyPrefix  = "MK-"
	medKeyLength  = 8
	medKeyCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Service walks a patient through onboarding: personal details, hospital
// links, and a MedKey ID issued once and reused for the lifetime of the
// stored data.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SavePersonalInfo validates and persists the first onboarding step. The
// prototype left validation to the form; on a server the boundary moves here.
func (s *Service) SavePersonalInfo(ctx context.Context, info *PersonalInfo) error {
	if strings.TrimSpace(info.FirstName) == "" {
		return fmt.Errorf("firstName is required")
	}
	if strings.TrimSpace(info.LastName) == "" {
		return fmt.Errorf("lastName is required")
	}
	if strings.TrimSpace(info.DOB) == "" {
		return fmt.Errorf("dob is required")
	}
	if err := s.repo.SavePersonalInfo(ctx, info); err != nil {
		return fmt.Errorf("save personal info: %w", err)
	}
	return nil
}

// PersonalInfo returns the stored first step, if any.
func (s *Service) PersonalInfo(ctx context.Context) (*PersonalInfo, bool, error) {
	return s.repo.PersonalInfo(ctx)
}

// SavePatientData persists the completed onboarding payload. At least one
// hospital link is required; a link without a name is rejected.
func (s *Service) SavePatientData(ctx context.Context, data *PatientData) error {
	if len(data.Hospitals) == 0 {
		return fmt.Errorf("at least one hospital is required")
	}
	for _, h := range data.Hospitals {
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("hospital name is required")
		}
	}
	if err := s.repo.SavePatientData(ctx, data); err != nil {
		return fmt.Errorf("save patient data: %w", err)
	}
	return nil
}

// PatientData returns the stored payload, if any.
func (s *Service) PatientData(ctx context.Context) (*PatientData, bool, error) {
	return s.repo.PatientData(ctx)
}

// RemoveHospital drops one hospital link by id. The last remaining link
// cannot be removed.
func (s *Service) RemoveHospital(ctx context.Context, linkID string) (*PatientData, error) {
	data, ok, err := s.repo.PatientData(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no patient data stored")
	}
	if len(data.Hospitals) <= 1 {
		return nil, fmt.Errorf("cannot remove the last hospital")
	}

	kept := data.Hospitals[:0]
	found := false
	for _, h := range data.Hospitals {
		if h.ID == linkID {
			found = true
			continue
		}
		kept = append(kept, h)
	}
	if !found {
		return nil, fmt.Errorf("hospital %q not found", linkID)
	}
	data.Hospitals = kept
	if err := s.repo.SavePatientData(ctx, data); err != nil {
		return nil, fmt.Errorf("save patient data: %w", err)
	}
	return data, nil
}

// EnsureMedKeyID returns the stored MedKey ID, generating and persisting one
// on first call. Issuance is idempotent until storage is cleared.
func (s *Service) EnsureMedKeyID(ctx context.Context) (string, error) {
	if id, ok, err := s.repo.PatientID(ctx); err != nil {
		return "", err
	} else if ok && id != "" {
		return id, nil
	}

	id, err := generateMedKeyID()
	if err != nil {
		return "", err
	}
	if err := s.repo.SavePatientID(ctx, id); err != nil {
		return "", fmt.Errorf("save patient id: %w", err)
	}
	s.logger.Info().Str("med_key_id", id).Msg("medkey id issued")
	return id, nil
}

func generateMedKeyID() (string, error) {
	b := make([]byte, medKeyLength)
	max := big.NewInt(int64(len(medKeyCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate medkey id: %w", err)
		}
		b[i] = medKeyCharset[n.Int64()]
	}
	return medKeyPrefix + string(b), nil
}
