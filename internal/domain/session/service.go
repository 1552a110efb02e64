package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medkey/medkey/internal/domain/consent"
	"github.com/medkey/medkey/internal/domain/onboarding"
	"github.com/medkey/medkey/internal/domain/records"
	"github.com/medkey/medkey/internal/domain/roster"
)

// Service owns session state and orchestrates the other domains. Every
// screen transition is computed by Reduce; the service's job is to run the
// side effects (persist onboarding data, generate records, touch the consent
// ledgers and the roster) and then apply the matching event.
type Service struct {
	repo       Repository
	onboarding *onboarding.Service
	records    *records.Service
	roster     *roster.Service
	consent    *consent.Service
	logger     zerolog.Logger
}

func NewService(repo Repository, ob *onboarding.Service, rec *records.Service, ros *roster.Service, con *consent.Service, logger zerolog.Logger) *Service {
	return &Service{repo: repo, onboarding: ob, records: rec, roster: ros, consent: con, logger: logger}
}

// Create starts a new session on the home screen.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Screen:    ScreenHome,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Get returns the session by id. docstore.ErrNotFound for unknown ids.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) apply(ctx context.Context, sess *Session, ev Event) error {
	sess.Screen = Reduce(sess.Screen, ev)
	sess.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SelectRole enters the patient or doctor flow. An unknown role leaves the
// session on the home screen; there is no error path.
func (s *Service) SelectRole(ctx context.Context, id string, role Role) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == RolePatient || role == RoleDoctor {
		sess.Role = role
	}
	if err := s.apply(ctx, sess, RoleSelected{Role: role}); err != nil {
		return nil, err
	}
	return sess, nil
}

// SubmitPersonalInfo persists the first onboarding step and advances to the
// hospital-info screen.
func (s *Service) SubmitPersonalInfo(ctx context.Context, id string, info *onboarding.PersonalInfo) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.onboarding.SavePersonalInfo(ctx, info); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, sess, PersonalInfoSubmitted{}); err != nil {
		return nil, err
	}
	return sess, nil
}

// SubmitHospitalInfo persists the completed onboarding payload, issues the
// MedKey ID, and routes the session. With records already stored the loading
// screen is skipped and the stored records are left untouched; otherwise the
// session lands on loading while the simulated fetch runs in the background.
func (s *Service) SubmitHospitalInfo(ctx context.Context, id string, data *onboarding.PatientData) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.onboarding.SavePatientData(ctx, data); err != nil {
		return nil, err
	}
	medKeyID, err := s.onboarding.EnsureMedKeyID(ctx)
	if err != nil {
		return nil, err
	}
	sess.PatientID = medKeyID

	cached, err := s.records.Cached(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, sess, HospitalInfoSubmitted{RecordsCached: cached}); err != nil {
		return nil, err
	}
	if !cached {
		go s.finishLoading(sess.ID)
	}
	return sess, nil
}

// finishLoading runs the simulated fetch and then advances the session off
// the loading screen. It deliberately detaches from the request context; the
// fetch outlives the submit request.
func (s *Service) finishLoading(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, _, err := s.records.Ensure(ctx); err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("record generation failed")
		return
	}
	if _, err := s.CompleteLoading(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("complete loading failed")
	}
}

// CompleteLoading applies the records-loaded event. A session that is no
// longer on the loading screen is returned unchanged; the late event must
// not yank a user off whatever screen they navigated to.
func (s *Service) CompleteLoading(ctx context.Context, id string) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Screen != ScreenLoading {
		return sess, nil
	}
	if err := s.apply(ctx, sess, RecordsLoaded{}); err != nil {
		return nil, err
	}
	return sess, nil
}

// SelectDoctorPatient routes the doctor to a roster entry. A pending entry
// with no recorded consent decision goes to the consent screen; anything
// else opens the patient view directly, with records made available.
func (s *Service) SelectDoctorPatient(ctx context.Context, id, patientID, medKeyID string) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entry, ok, err := s.roster.FindByMedKey(ctx, medKeyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no roster entry for %s", medKeyID)
	}

	_, hasDecision, err := s.consent.LatestDecision(ctx, medKeyID)
	if err != nil {
		return nil, err
	}
	needsConsent := entry.Status == roster.StatusPending && !hasDecision

	sess.SelectedPatientID = patientID
	sess.SelectedMedKeyID = medKeyID
	if !needsConsent {
		if _, _, err := s.records.EnsureNow(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.apply(ctx, sess, PatientSelected{NeedsConsent: needsConsent}); err != nil {
		return nil, err
	}
	return sess, nil
}

// GrantConsent records the grant for the selected patient, which also
// activates the roster entry, then opens the patient view.
func (s *Service) GrantConsent(ctx context.Context, id string) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.SelectedMedKeyID == "" {
		return nil, fmt.Errorf("no patient selected for consent")
	}
	if _, err := s.consent.RecordDecision(ctx, sess.SelectedMedKeyID, true); err != nil {
		return nil, err
	}
	if _, _, err := s.records.EnsureNow(ctx); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, sess, ConsentGranted{}); err != nil {
		return nil, err
	}
	return sess, nil
}

// DeclineConsent records the decline, drops the selection, and returns the
// session to the doctor dashboard. The roster entry stays pending.
func (s *Service) DeclineConsent(ctx context.Context, id string) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.SelectedMedKeyID == "" {
		return nil, fmt.Errorf("no patient selected for consent")
	}
	if _, err := s.consent.RecordDecision(ctx, sess.SelectedMedKeyID, false); err != nil {
		return nil, err
	}
	sess.SelectedPatientID = ""
	sess.SelectedMedKeyID = ""
	if err := s.apply(ctx, sess, ConsentDeclined{}); err != nil {
		return nil, err
	}
	return sess, nil
}

// RequestNewPatient adds a roster entry and routes to the consent screen
// whenever the id has no consent decision yet, whatever the id is. The
// prototype only triggered the flow for one hardcoded id and silently
// dropped every other request.
func (s *Service) RequestNewPatient(ctx context.Context, id, medKeyID string) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.roster.AddPatient(ctx, medKeyID)
	if err != nil {
		return nil, err
	}

	_, hasDecision, err := s.consent.LatestDecision(ctx, p.MedKeyID)
	if err != nil {
		return nil, err
	}
	needsConsent := !hasDecision
	if needsConsent {
		sess.SelectedPatientID = p.ID
		sess.SelectedMedKeyID = p.MedKeyID
	}
	if err := s.apply(ctx, sess, NewPatientRequested{NeedsConsent: needsConsent}); err != nil {
		return nil, err
	}
	return sess, nil
}

// Navigate applies an explicit navigation request. Disallowed transitions
// leave the screen unchanged.
func (s *Service) Navigate(ctx context.Context, id string, to Screen) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, sess, Navigated{To: to}); err != nil {
		return nil, err
	}
	return sess, nil
}
