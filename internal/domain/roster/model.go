package roster

// DocKey is the storage key holding the doctor's whole patient roster.
const DocKey = "doctor_patients"

// Status is a roster entry's access state. Entries start pending and flip to
// active exactly once, when the patient grants consent; there is no
// transition back.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

// Patient is one row in a doctor's roster.
type Patient struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MedKeyID        string `json:"medKeyId"`
	LastAccess      string `json:"lastAccess"`
	Status          Status `json:"status"`
	Age             int    `json:"age"`
	LastVisit       string `json:"lastVisit"`
	NextAppointment string `json:"nextAppointment,omitempty"`
}

// Defaults returns the demo roster seeded on first use.
func Defaults() []Patient {
	return []Patient{
		{ID: "1", Name: "Rojan Upreti", MedKeyID: "MK-ROJAN123", LastAccess: "2024-01-20", Status: StatusPending, Age: 39, LastVisit: "2024-01-15", NextAppointment: "2024-02-15"},
		{ID: "2", Name: "John Smith", MedKeyID: "MK-JSMITH45", LastAccess: "2024-01-19", Status: StatusActive, Age: 52, LastVisit: "2024-01-10"},
		{ID: "3", Name: "Emily Johnson", MedKeyID: "MK-EJOHNSON", LastAccess: "2024-01-18", Status: StatusActive, Age: 28, LastVisit: "2024-01-05", NextAppointment: "2024-01-25"},
		{ID: "4", Name: "Michael Brown", MedKeyID: "MK-MBROWN78", LastAccess: "2024-01-17", Status: StatusActive, Age: 45, LastVisit: "2024-01-12"},
		{ID: "5", Name: "Sarah Davis", MedKeyID: "MK-SDAVIS90", LastAccess: "2024-01-16", Status: StatusPending, Age: 33, LastVisit: "2024-01-08"},
	}
}
