package consent

import "time"

// Storage keys for the two consent ledgers.
const (
	DecisionsKey  = "patient_consents"
	SignaturesKey = "consent_signatures"
)

// Decision is a patient's current answer to a doctor's access request. The
// decisions ledger keeps at most one entry per patient id; a new decision
// replaces the old one.
type Decision struct {
	PatientID   string     `json:"patientId"`
	DoctorName  string     `json:"doctorName"`
	Consented   bool       `json:"consented"`
	ConsentedAt *time.Time `json:"consentedAt,omitempty"`
	DeclinedAt  *time.Time `json:"declinedAt,omitempty"`
}

// Signature is one signed consent event. Unlike decisions, signatures are an
// append-only audit trail: every signing is kept, including repeats for the
// same MedKey ID.
type Signature struct {
	MedKeyID  string    `json:"medKeyId"`
	Signature string    `json:"signature"`
	SignedAt  time.Time `json:"signedAt"`
	SignedBy  string    `json:"signedBy"`
}
