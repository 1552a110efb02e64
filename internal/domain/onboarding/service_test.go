package onboarding

import (
	"context"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
)

type mockRepo struct {
	info      *PersonalInfo
	data      *PatientData
	patientID string
	idSaves   int
}

func (m *mockRepo) PersonalInfo(ctx context.Context) (*PersonalInfo, bool, error) {
	return m.info, m.info != nil, nil
}

func (m *mockRepo) SavePersonalInfo(ctx context.Context, info *PersonalInfo) error {
	m.info = info
	return nil
}

func (m *mockRepo) PatientData(ctx context.Context) (*PatientData, bool, error) {
	return m.data, m.data != nil, nil
}

func (m *mockRepo) SavePatientData(ctx context.Context, data *PatientData) error {
	m.data = data
	return nil
}

func (m *mockRepo) PatientID(ctx context.Context) (string, bool, error) {
	return m.patientID, m.patientID != "", nil
}

func (m *mockRepo) SavePatientID(ctx context.Context, id string) error {
	m.patientID = id
	m.idSaves++
	return nil
}

func newTestService(repo *mockRepo) *Service {
	return NewService(repo, zerolog.Nop())
}

func TestSavePersonalInfo_Validation(t *testing.T) {
	tests := []struct {
		name    string
		info    PersonalInfo
		wantErr bool
	}{
		{"complete", PersonalInfo{FirstName: "Rojan", LastName: "Upreti", DOB: "1985-04-12"}, false},
		{"missing first name", PersonalInfo{LastName: "Upreti", DOB: "1985-04-12"}, true},
		{"missing last name", PersonalInfo{FirstName: "Rojan", DOB: "1985-04-12"}, true},
		{"missing dob", PersonalInfo{FirstName: "Rojan", LastName: "Upreti"}, true},
		{"whitespace only", PersonalInfo{FirstName: "  ", LastName: "Upreti", DOB: "1985-04-12"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestService(&mockRepo{}).SavePersonalInfo(context.Background(), &tt.info)
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSavePatientData_RequiresHospital(t *testing.T) {
	svc := newTestService(&mockRepo{})
	err := svc.SavePatientData(context.Background(), &PatientData{FirstName: "Rojan"})
	if err == nil {
		t.Error("expected error with no hospitals")
	}

	err = svc.SavePatientData(context.Background(), &PatientData{
		FirstName: "Rojan",
		Hospitals: []HospitalLink{{ID: "1", Name: "City Medical Center", PatientID: "P-100"}},
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEnsureMedKeyID_Format(t *testing.T) {
	svc := newTestService(&mockRepo{})
	id, err := svc.EnsureMedKeyID(context.Background())
	if err != nil {
		t.Fatalf("EnsureMedKeyID: %v", err)
	}
	if !regexp.MustCompile(`^MK-[0-9A-Z]{8}$`).MatchString(id) {
		t.Errorf("id = %q, want MK- plus 8 uppercase base-36 characters", id)
	}
}

func TestEnsureMedKeyID_Idempotent(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	first, err := svc.EnsureMedKeyID(context.Background())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.EnsureMedKeyID(context.Background())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Errorf("ids differ: %q vs %q", first, second)
	}
	if repo.idSaves != 1 {
		t.Errorf("idSaves = %d, want 1", repo.idSaves)
	}
}

func TestEnsureMedKeyID_RegeneratesAfterClear(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	first, _ := svc.EnsureMedKeyID(context.Background())
	repo.patientID = ""

	second, err := svc.EnsureMedKeyID(context.Background())
	if err != nil {
		t.Fatalf("EnsureMedKeyID: %v", err)
	}
	if second == "" || second == first {
		// A collision is possible in principle but not in eight random chars.
		t.Errorf("expected a fresh id after clear, got %q", second)
	}
}

func TestRemoveHospital(t *testing.T) {
	repo := &mockRepo{data: &PatientData{
		FirstName: "Rojan",
		Hospitals: []HospitalLink{
			{ID: "1", Name: "City Medical Center"},
			{ID: "2", Name: "Regional Hospital"},
		},
	}}
	svc := newTestService(repo)

	data, err := svc.RemoveHospital(context.Background(), "1")
	if err != nil {
		t.Fatalf("RemoveHospital: %v", err)
	}
	if len(data.Hospitals) != 1 || data.Hospitals[0].ID != "2" {
		t.Errorf("got %+v", data.Hospitals)
	}

	if _, err := svc.RemoveHospital(context.Background(), "2"); err == nil {
		t.Error("expected error removing the last hospital")
	}
}

func TestRemoveHospital_Unknown(t *testing.T) {
	repo := &mockRepo{data: &PatientData{
		Hospitals: []HospitalLink{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}},
	}}
	if _, err := newTestService(repo).RemoveHospital(context.Background(), "9"); err == nil {
		t.Error("expected error for unknown link id")
	}
}
