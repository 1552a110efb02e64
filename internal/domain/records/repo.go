package records

import "context"

// Repository stores the generated medical record set.
type Repository interface {
	Get(ctx context.Context) (*MedicalRecord, error)
	Save(ctx context.Context, rec *MedicalRecord) error
	Exists(ctx context.Context) (bool, error)
}
