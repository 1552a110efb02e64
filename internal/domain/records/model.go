package records

// DocKey is the storage key medical records are cached under.
const DocKey = "medical_records"

// MedicalRecord is the aggregated record set shown to patients and, after
// consent, to doctors. In this prototype the content is synthetic; a
// production deployment would assemble it from provider systems.
type MedicalRecord struct {
	Allergies   []Allergy      `json:"allergies"`
	Medications []Medication   `json:"medications"`
	Diagnoses   []Diagnosis    `json:"diagnoses"`
	LabResults  []LabResult    `json:"labResults"`
	Imaging     []ImagingStudy `json:"imaging"`
	Vitals      []VitalSigns   `json:"vitals"`
	Visits      []Visit        `json:"visits"`
	Notes       []ClinicalNote `json:"notes"`
}

type Allergy struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Date     string `json:"date"`
}

type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	StartDate string `json:"startDate"`
}

type Diagnosis struct {
	Condition string `json:"condition"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

type LabResult struct {
	Test   string `json:"test"`
	Result string `json:"result"`
	Date   string `json:"date"`
	Unit   string `json:"unit"`
}

type ImagingStudy struct {
	Type     string `json:"type"`
	Date     string `json:"date"`
	Facility string `json:"facility"`
	Findings string `json:"findings"`
}

type VitalSigns struct {
	Date          string `json:"date"`
	BloodPressure string `json:"bloodPressure"`
	HeartRate     int    `json:"heartRate"`
	Temperature   string `json:"temperature"`
	Weight        string `json:"weight"`
}

type Visit struct {
	Date     string `json:"date"`
	Provider string `json:"provider"`
	Reason   string `json:"reason"`
	Notes    string `json:"notes"`
}

type ClinicalNote struct {
	Date     string `json:"date"`
	Provider string `json:"provider"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}
