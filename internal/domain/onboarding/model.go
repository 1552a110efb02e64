package onboarding

// Storage keys for the patient onboarding documents.
const (
	PersonalInfoKey = "personal_info"
	PatientDataKey  = "patient_data"
	PatientIDKey    = "patient_id"
)

// PersonalInfo is the first onboarding step.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	DOB       string `json:"dob"`
}

// HospitalLink ties the patient to one hospital's local patient id.
type HospitalLink struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PatientID string `json:"patientId"`
}

// PatientData is the completed onboarding payload: the personal fields plus
// at least one hospital link.
type PatientData struct {
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	DOB       string         `json:"dob"`
	Hospitals []HospitalLink `json:"hospitals"`
}
