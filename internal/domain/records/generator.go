package records

// Generate produces the demo medical record set. It is a pure function:
// every call returns the same data.
func Generate() *MedicalRecord {
	return &MedicalRecord{
		Allergies: []Allergy{
			{Name: "Penicillin", Severity: "Severe", Date: "2015-03-15"},
			{Name: "Latex", Severity: "Moderate", Date: "2018-07-22"},
		},
		Medications: []Medication{
			{Name: "Lisinopril", Dosage: "10mg", Frequency: "Once daily", StartDate: "2023-01-10"},
			{Name: "Metformin", Dosage: "500mg", Frequency: "Twice daily", StartDate: "2023-02-05"},
			{Name: "Atorvastatin", Dosage: "20mg", Frequency: "Once daily", StartDate: "2023-03-12"},
		},
		Diagnoses: []Diagnosis{
			{Condition: "Type 2 Diabetes", Date: "2023-01-10", Status: "Active"},
			{Condition: "Hypertension", Date: "2022-11-20", Status: "Active"},
			{Condition: "Hyperlipidemia", Date: "2023-03-12", Status: "Active"},
		},
		LabResults: []LabResult{
			{Test: "Hemoglobin A1C", Result: "6.8", Date: "2024-01-15", Unit: "%"},
			{Test: "Fasting Glucose", Result: "112", Date: "2024-01-15", Unit: "mg/dL"},
			{Test: "Total Cholesterol", Result: "185", Date: "2024-01-15", Unit: "mg/dL"},
			{Test: "LDL Cholesterol", Result: "110", Date: "2024-01-15", Unit: "mg/dL"},
			{Test: "HDL Cholesterol", Result: "55", Date: "2024-01-15", Unit: "mg/dL"},
			{Test: "Triglycerides", Result: "150", Date: "2024-01-15", Unit: "mg/dL"},
			{Test: "Complete Blood Count", Result: "Normal", Date: "2024-01-15", Unit: ""},
		},
		Imaging: []ImagingStudy{
			{Type: "Chest X-Ray", Date: "2023-12-10", Facility: "City Medical Center", Findings: "No acute abnormalities"},
			{Type: "Abdominal Ultrasound", Date: "2023-08-22", Facility: "Regional Hospital", Findings: "Normal liver, kidneys, and gallbladder"},
			{Type: "Echocardiogram", Date: "2023-05-15", Facility: "Cardiac Care Center", Findings: "Normal ejection fraction, no wall motion abnormalities"},
		},
		Vitals: []VitalSigns{
			{Date: "2024-01-15", BloodPressure: "128/82", HeartRate: 72, Temperature: "98.6°F", Weight: "175 lbs"},
			{Date: "2023-12-10", BloodPressure: "130/85", HeartRate: 75, Temperature: "98.4°F", Weight: "177 lbs"},
			{Date: "2023-11-05", BloodPressure: "125/80", HeartRate: 70, Temperature: "98.7°F", Weight: "176 lbs"},
		},
		Visits: []Visit{
			{Date: "2024-01-15", Provider: "Dr. Sarah Johnson", Reason: "Annual Physical", Notes: "Patient doing well, continue current medications"},
			{Date: "2023-12-10", Provider: "Dr. Sarah Johnson", Reason: "Follow-up", Notes: "Blood pressure well controlled"},
			{Date: "2023-11-05", Provider: "Dr. Michael Chen", Reason: "Cardiology Consultation", Notes: "EKG normal, continue monitoring"},
		},
		Notes: []ClinicalNote{
			{Date: "2024-01-15", Provider: "Dr. Sarah Johnson", Type: "Progress Note", Content: "Patient doing well, continue current medications. Blood pressure well controlled."},
			{Date: "2023-12-10", Provider: "Dr. Sarah Johnson", Type: "Follow-up", Content: "Follow-up visit. Patient reports feeling good. Continue monitoring."},
			{Date: "2023-11-05", Provider: "Dr. Michael Chen", Type: "Consultation", Content: "Cardiology consultation. EKG normal, continue monitoring."},
		},
	}
}
