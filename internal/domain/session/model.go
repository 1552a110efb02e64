package session

import "time"

// KeyPrefix namespaces every session document in the store.
const KeyPrefix = "session:"

// Session is the application root state: the active screen plus the pointers
// threaded between screens.
type Session struct {
	ID                string    `json:"id"`
	Screen            Screen    `json:"screen"`
	Role              Role      `json:"role,omitempty"`
	PatientID         string    `json:"patientId,omitempty"`
	SelectedPatientID string    `json:"selectedPatientId,omitempty"`
	SelectedMedKeyID  string    `json:"selectedMedKeyId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func docKey(id string) string { return KeyPrefix + id }
