package session

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medkey/medkey/internal/domain/consent"
	"github.com/medkey/medkey/internal/domain/onboarding"
	"github.com/medkey/medkey/internal/domain/records"
	"github.com/medkey/medkey/internal/domain/roster"
	"github.com/medkey/medkey/internal/platform/directory"
	"github.com/medkey/medkey/internal/platform/docstore"
)

type fixture struct {
	svc     *Service
	roster  *roster.Service
	consent *consent.Service
	records *records.Service
	store   docstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	docs := docstore.New(store, zerolog.Nop())

	ob := onboarding.NewService(onboarding.NewDocRepository(docs), zerolog.Nop())
	rec := records.NewService(records.NewDocRepository(docs), 0, zerolog.Nop())
	ros := roster.NewService(roster.NewDocRepository(docs), directory.NewStatic(), zerolog.Nop())
	con := consent.NewService(consent.NewDocRepository(docs), ros, "Dr. Sarah Johnson", zerolog.Nop())
	svc := NewService(NewDocRepository(docs), ob, rec, ros, con, zerolog.Nop())

	if _, err := ros.Seed(context.Background()); err != nil {
		t.Fatalf("seed roster: %v", err)
	}
	return &fixture{svc: svc, roster: ros, consent: con, records: rec, store: store}
}

func (f *fixture) session(t *testing.T) *Session {
	t.Helper()
	sess, err := f.svc.Create(context.Background())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sess
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	if sess.Screen != ScreenHome {
		t.Errorf("screen = %q, want home", sess.Screen)
	}

	got, err := f.svc.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != sess.ID || got.Screen != ScreenHome {
		t.Errorf("got %+v", got)
	}
}

func TestGet_Unknown(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Get(context.Background(), "nope"); err != docstore.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSelectRole(t *testing.T) {
	f := newFixture(t)

	sess := f.session(t)
	got, err := f.svc.SelectRole(context.Background(), sess.ID, RolePatient)
	if err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if got.Screen != ScreenPersonalInfo || got.Role != RolePatient {
		t.Errorf("got screen=%q role=%q", got.Screen, got.Role)
	}

	sess = f.session(t)
	got, err = f.svc.SelectRole(context.Background(), sess.ID, "nurse")
	if err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if got.Screen != ScreenHome || got.Role != "" {
		t.Errorf("unknown role must be a no-op, got screen=%q role=%q", got.Screen, got.Role)
	}
}

func patientData() *onboarding.PatientData {
	return &onboarding.PatientData{
		FirstName: "Rojan",
		LastName:  "Upreti",
		DOB:       "1985-04-12",
		Hospitals: []onboarding.HospitalLink{{ID: "1", Name: "City Medical Center", PatientID: "P-100"}},
	}
}

func TestPatientOnboardingFlow(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	ctx := context.Background()

	if _, err := f.svc.SelectRole(ctx, sess.ID, RolePatient); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	got, err := f.svc.SubmitPersonalInfo(ctx, sess.ID, &onboarding.PersonalInfo{FirstName: "Rojan", LastName: "Upreti", DOB: "1985-04-12"})
	if err != nil {
		t.Fatalf("SubmitPersonalInfo: %v", err)
	}
	if got.Screen != ScreenHospitalInfo {
		t.Errorf("screen = %q, want hospital-info", got.Screen)
	}

	got, err = f.svc.SubmitHospitalInfo(ctx, sess.ID, patientData())
	if err != nil {
		t.Fatalf("SubmitHospitalInfo: %v", err)
	}
	if got.Screen != ScreenLoading {
		t.Errorf("screen = %q, want loading on first submit", got.Screen)
	}
	if !regexp.MustCompile(`^MK-[0-9A-Z]{8}$`).MatchString(got.PatientID) {
		t.Errorf("patientId = %q", got.PatientID)
	}

	// The zero-delay background fetch finishes almost immediately.
	deadline := time.Now().Add(2 * time.Second)
	for {
		cur, err := f.svc.Get(ctx, sess.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if cur.Screen == ScreenHistory {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("session stuck on %q", cur.Screen)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSubmitHospitalInfo_ValidationError(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	if _, err := f.svc.SubmitHospitalInfo(context.Background(), sess.ID, &onboarding.PatientData{FirstName: "X"}); err == nil {
		t.Error("expected error with no hospitals")
	}
}

func TestSubmitHospitalInfo_CachedRecordsSkipLoading(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	ctx := context.Background()

	if _, _, err := f.records.EnsureNow(ctx); err != nil {
		t.Fatalf("pre-generate records: %v", err)
	}
	before, err := f.store.Get(ctx, records.DocKey)
	if err != nil {
		t.Fatalf("read stored records: %v", err)
	}

	got, err := f.svc.SubmitHospitalInfo(ctx, sess.ID, patientData())
	if err != nil {
		t.Fatalf("SubmitHospitalInfo: %v", err)
	}
	if got.Screen != ScreenHistory {
		t.Errorf("screen = %q, want history (loading skipped)", got.Screen)
	}

	after, err := f.store.Get(ctx, records.DocKey)
	if err != nil {
		t.Fatalf("read stored records: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("stored medical_records must not be rewritten")
	}
}

func TestMedKeyIDStableAcrossSubmits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.SubmitHospitalInfo(ctx, f.session(t).ID, patientData())
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := f.svc.SubmitHospitalInfo(ctx, f.session(t).ID, patientData())
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if first.PatientID != second.PatientID {
		t.Errorf("patient ids differ: %q vs %q", first.PatientID, second.PatientID)
	}
}

func TestCompleteLoading_Guarded(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)

	got, err := f.svc.CompleteLoading(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("CompleteLoading: %v", err)
	}
	if got.Screen != ScreenHome {
		t.Errorf("late records-loaded event moved the session to %q", got.Screen)
	}
}

func TestSelectDoctorPatient_PendingNeedsConsent(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	ctx := context.Background()

	if _, err := f.svc.SelectRole(ctx, sess.ID, RoleDoctor); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	got, err := f.svc.SelectDoctorPatient(ctx, sess.ID, "1", "MK-ROJAN123")
	if err != nil {
		t.Fatalf("SelectDoctorPatient: %v", err)
	}
	if got.Screen != ScreenPatientConsent {
		t.Errorf("screen = %q, want patient-consent", got.Screen)
	}
	if got.SelectedMedKeyID != "MK-ROJAN123" || got.SelectedPatientID != "1" {
		t.Errorf("selection = %q/%q", got.SelectedPatientID, got.SelectedMedKeyID)
	}
}

func TestSelectDoctorPatient_ActiveGoesStraightToView(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	ctx := context.Background()

	got, err := f.svc.SelectDoctorPatient(ctx, sess.ID, "2", "MK-JSMITH45")
	if err != nil {
		t.Fatalf("SelectDoctorPatient: %v", err)
	}
	if got.Screen != ScreenDoctorPatientView {
		t.Errorf("screen = %q, want doctor-patient-view", got.Screen)
	}
	if _, err := f.records.Get(ctx); err != nil {
		t.Errorf("records should be available for the patient view: %v", err)
	}
}

func TestSelectDoctorPatient_Unknown(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	if _, err := f.svc.SelectDoctorPatient(context.Background(), sess.ID, "x", "MK-NOBODY"); err == nil {
		t.Error("expected error for unknown roster entry")
	}
}

func TestGrantConsent(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	ctx := context.Background()

	if _, err := f.svc.SelectDoctorPatient(ctx, sess.ID, "1", "MK-ROJAN123"); err != nil {
		t.Fatalf("select: %v", err)
	}
	got, err := f.svc.GrantConsent(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GrantConsent: %v", err)
	}
	if got.Screen != ScreenDoctorPatientView {
		t.Errorf("screen = %q, want doctor-patient-view", got.Screen)
	}

	p, ok, err := f.roster.FindByMedKey(ctx, "MK-ROJAN123")
	if err != nil || !ok {
		t.Fatalf("FindByMedKey: ok=%v err=%v", ok, err)
	}
	if p.Status != roster.StatusActive {
		t.Errorf("roster status = %q, want active", p.Status)
	}
	if p.LastAccess != time.Now().Format("2006-01-02") {
		t.Errorf("lastAccess = %q, want today", p.LastAccess)
	}

	d, ok, err := f.consent.LatestDecision(ctx, "MK-ROJAN123")
	if err != nil || !ok {
		t.Fatalf("LatestDecision: ok=%v err=%v", ok, err)
	}
	if !d.Consented {
		t.Error("decision should be a grant")
	}
}

func TestDeclineConsent(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	ctx := context.Background()

	if _, err := f.svc.SelectDoctorPatient(ctx, sess.ID, "5", "MK-SDAVIS90"); err != nil {
		t.Fatalf("select: %v", err)
	}
	got, err := f.svc.DeclineConsent(ctx, sess.ID)
	if err != nil {
		t.Fatalf("DeclineConsent: %v", err)
	}
	if got.Screen != ScreenDoctorDashboard {
		t.Errorf("screen = %q, want doctor-dashboard", got.Screen)
	}
	if got.SelectedMedKeyID != "" || got.SelectedPatientID != "" {
		t.Error("decline must drop the selection")
	}

	p, ok, _ := f.roster.FindByMedKey(ctx, "MK-SDAVIS90")
	if !ok || p.Status != roster.StatusPending {
		t.Errorf("roster entry must stay pending, got %+v", p)
	}
}

func TestConsent_NoSelection(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	if _, err := f.svc.GrantConsent(context.Background(), sess.ID); err == nil {
		t.Error("expected error with no selected patient")
	}
}

func TestRequestNewPatient_RoutesToConsent(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	ctx := context.Background()

	// Any id without a recorded decision triggers the consent flow, not just
	// the one the prototype special-cased.
	got, err := f.svc.RequestNewPatient(ctx, sess.ID, "MK-NEWPAT01")
	if err != nil {
		t.Fatalf("RequestNewPatient: %v", err)
	}
	if got.Screen != ScreenPatientConsent {
		t.Errorf("screen = %q, want patient-consent", got.Screen)
	}
	if got.SelectedMedKeyID != "MK-NEWPAT01" {
		t.Errorf("selection = %q", got.SelectedMedKeyID)
	}

	p, ok, _ := f.roster.FindByMedKey(ctx, "MK-NEWPAT01")
	if !ok || p.Name != "Patient MK-NEWPAT01" || p.Status != roster.StatusPending {
		t.Errorf("roster entry = %+v", p)
	}
}

func TestRequestNewPatient_DecidedStaysPut(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	ctx := context.Background()

	if _, err := f.consent.RecordDecision(ctx, "MK-EJOHNSON", true); err != nil {
		t.Fatalf("record decision: %v", err)
	}
	if _, err := f.svc.SelectRole(ctx, sess.ID, RoleDoctor); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if _, err := f.svc.Navigate(ctx, sess.ID, ScreenPatientsManagement); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	got, err := f.svc.RequestNewPatient(ctx, sess.ID, "MK-EJOHNSON")
	if err != nil {
		t.Fatalf("RequestNewPatient: %v", err)
	}
	if got.Screen != ScreenPatientsManagement {
		t.Errorf("screen = %q, want patients-management (no consent needed)", got.Screen)
	}
}

func TestNavigate(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)
	ctx := context.Background()

	if _, err := f.svc.SelectRole(ctx, sess.ID, RoleDoctor); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	got, err := f.svc.Navigate(ctx, sess.ID, ScreenPatientsManagement)
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if got.Screen != ScreenPatientsManagement {
		t.Errorf("screen = %q", got.Screen)
	}

	got, err = f.svc.Navigate(ctx, sess.ID, ScreenLoading)
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if got.Screen != ScreenPatientsManagement {
		t.Errorf("disallowed navigation moved the session to %q", got.Screen)
	}
}
