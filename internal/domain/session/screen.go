package session

// Screen is one of the portal's named views. Exactly one screen is active per
// session; all transitions go through Reduce.
type Screen string

const (
	ScreenHome               Screen = "home"
	ScreenPersonalInfo       Screen = "personal-info"
	ScreenHospitalInfo       Screen = "hospital-info"
	ScreenLoading            Screen = "loading"
	ScreenHistory            Screen = "history"
	ScreenDoctorDashboard    Screen = "doctor-dashboard"
	ScreenPatientsManagement Screen = "patients-management"
	ScreenPatientConsent     Screen = "patient-consent"
	ScreenDoctorPatientView  Screen = "doctor-patient-view"
)

// Role selects which side of the portal a session belongs to.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Event drives a screen transition. Events carry the facts the reducer needs
// to pick the target screen; everything else (persistence, ledgers, roster
// side effects) happens in the Service before the event is applied.
type Event interface {
	event()
}

// RoleSelected enters the patient or doctor flow. Unknown roles are a no-op.
type RoleSelected struct{ Role Role }

// PersonalInfoSubmitted advances to the hospital-info step.
type PersonalInfoSubmitted struct{}

// HospitalInfoSubmitted completes onboarding. With records already cached the
// loading screen is skipped entirely.
type HospitalInfoSubmitted struct{ RecordsCached bool }

// RecordsLoaded fires when the simulated fetch finishes. It only advances a
// session still on the loading screen; a session that navigated away in the
// meantime is left alone.
type RecordsLoaded struct{}

// PatientSelected routes the doctor to consent or straight to the patient
// view, depending on whether consent is still outstanding.
type PatientSelected struct{ NeedsConsent bool }

// ConsentGranted and ConsentDeclined resolve the consent screen.
type ConsentGranted struct{}
type ConsentDeclined struct{}

// NewPatientRequested follows an add-patient request. When the new entry
// still needs consent the session is routed to the consent screen; otherwise
// it stays where it is.
type NewPatientRequested struct{ NeedsConsent bool }

// Navigated is an explicit navigation request. Only the pairs listed in
// allowedNavigation are honored; anything else is a no-op.
type Navigated struct{ To Screen }

func (RoleSelected) event()          {}
func (PersonalInfoSubmitted) event() {}
func (HospitalInfoSubmitted) event() {}
func (RecordsLoaded) event()         {}
func (PatientSelected) event()       {}
func (ConsentGranted) event()        {}
func (ConsentDeclined) event()       {}
func (NewPatientRequested) event()   {}
func (Navigated) event()             {}

var allowedNavigation = map[Screen]map[Screen]bool{
	ScreenDoctorDashboard:    {ScreenPatientsManagement: true},
	ScreenPatientsManagement: {ScreenDoctorDashboard: true},
	ScreenDoctorPatientView:  {ScreenPatientsManagement: true, ScreenDoctorDashboard: true},
	ScreenHistory:            {ScreenHome: true},
}

// Reduce maps (current screen, event) to the next screen. It is pure; events
// that do not apply return the current screen unchanged.
func Reduce(current Screen, ev Event) Screen {
	switch e := ev.(type) {
	case RoleSelected:
		switch e.Role {
		case RolePatient:
			return ScreenPersonalInfo
		case RoleDoctor:
			return ScreenDoctorDashboard
		}
		return current
	case PersonalInfoSubmitted:
		return ScreenHospitalInfo
	case HospitalInfoSubmitted:
		if e.RecordsCached {
			return ScreenHistory
		}
		return ScreenLoading
	case RecordsLoaded:
		if current == ScreenLoading {
			return ScreenHistory
		}
		return current
	case PatientSelected:
		if e.NeedsConsent {
			return ScreenPatientConsent
		}
		return ScreenDoctorPatientView
	case ConsentGranted:
		return ScreenDoctorPatientView
	case ConsentDeclined:
		return ScreenDoctorDashboard
	case NewPatientRequested:
		if e.NeedsConsent {
			return ScreenPatientConsent
		}
		return current
	case Navigated:
		if allowedNavigation[current][e.To] {
			return e.To
		}
		return current
	}
	return current
}
