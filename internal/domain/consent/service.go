package consent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RosterActivator unlocks a patient's roster entry once consent exists. Both
// consent paths (patient decision and doctor-side signature) route through
// it, so activation lives in exactly one place.
type RosterActivator interface {
	Activate(ctx context.Context, medKeyID, cause string) (bool, error)
}

// Service maintains the two consent ledgers. Decisions are last-write-wins
// per patient id; signatures are append-only. The two disciplines are
// deliberate and must not be mixed: a decision is current state, a signature
// is an audit event.
type Service struct {
	repo       Repository
	roster     RosterActivator
	doctorName string
	logger     zerolog.Logger
}

func NewService(repo Repository, roster RosterActivator, doctorName string, logger zerolog.Logger) *Service {
	return &Service{repo: repo, roster: roster, doctorName: doctorName, logger: logger}
}

// RecordDecision stores the patient's answer, replacing any earlier decision
// for the same id. A grant also activates the patient's roster entry; a
// decline touches nothing beyond the ledger.
func (s *Service) RecordDecision(ctx context.Context, patientID string, consented bool) (*Decision, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, fmt.Errorf("patientId is required")
	}

	now := time.Now().UTC()
	d := Decision{
		PatientID:  patientID,
		DoctorName: s.doctorName,
		Consented:  consented,
	}
	if consented {
		d.ConsentedAt = &now
	} else {
		d.DeclinedAt = &now
	}

	decisions, err := s.repo.Decisions(ctx)
	if err != nil {
		return nil, err
	}
	kept := decisions[:0]
	for _, existing := range decisions {
		if existing.PatientID != patientID {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, d)
	if err := s.repo.SaveDecisions(ctx, kept); err != nil {
		return nil, fmt.Errorf("save consent decisions: %w", err)
	}

	if consented {
		if _, err := s.roster.Activate(ctx, patientID, "consent granted"); err != nil {
			return nil, err
		}
	}
	s.logger.Info().Str("patient_id", patientID).Bool("consented", consented).Msg("consent decision recorded")
	return &d, nil
}

// RecordSignature appends a signed consent event and activates the roster
// entry. Every call appends; repeated signings for the same id are kept.
func (s *Service) RecordSignature(ctx context.Context, medKeyID, signature string) (*Signature, error) {
	medKeyID = strings.TrimSpace(medKeyID)
	if medKeyID == "" {
		return nil, fmt.Errorf("medKeyId is required")
	}
	if strings.TrimSpace(signature) == "" {
		return nil, fmt.Errorf("signature is required")
	}

	sig := Signature{
		MedKeyID:  medKeyID,
		Signature: signature,
		SignedAt:  time.Now().UTC(),
		SignedBy:  s.doctorName,
	}
	signatures, err := s.repo.Signatures(ctx)
	if err != nil {
		return nil, err
	}
	signatures = append(signatures, sig)
	if err := s.repo.SaveSignatures(ctx, signatures); err != nil {
		return nil, fmt.Errorf("save consent signatures: %w", err)
	}

	if _, err := s.roster.Activate(ctx, medKeyID, "signature recorded"); err != nil {
		return nil, err
	}
	s.logger.Info().Str("med_key_id", medKeyID).Msg("consent signature recorded")
	return &sig, nil
}

// LatestDecision returns the current decision for a patient id, if any.
func (s *Service) LatestDecision(ctx context.Context, patientID string) (*Decision, bool, error) {
	decisions, err := s.repo.Decisions(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range decisions {
		if decisions[i].PatientID == patientID {
			return &decisions[i], true, nil
		}
	}
	return nil, false, nil
}

// ListDecisions returns the whole decisions ledger.
func (s *Service) ListDecisions(ctx context.Context) ([]Decision, error) {
	return s.repo.Decisions(ctx)
}

// ListSignatures returns the whole signatures ledger.
func (s *Service) ListSignatures(ctx context.Context) ([]Signature, error) {
	return s.repo.Signatures(ctx)
}
