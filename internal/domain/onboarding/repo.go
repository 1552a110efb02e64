package onboarding

import "context"

// Repository stores the onboarding documents. The getters report false when
// nothing has been stored yet.
type Repository interface {
	PersonalInfo(ctx context.Context) (*PersonalInfo, bool, error)
	SavePersonalInfo(ctx context.Context, info *PersonalInfo) error
	PatientData(ctx context.Context) (*PatientData, bool, error)
	SavePatientData(ctx context.Context, data *PatientData) error
	PatientID(ctx context.Context) (string, bool, error)
	SavePatientID(ctx context.Context, id string) error
}
