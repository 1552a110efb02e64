package records

import (
	"context"

	"github.com/medkey/medkey/internal/platform/docstore"
)

type docRepository struct {
	docs *docstore.Documents
}

// NewDocRepository returns a Repository backed by the document store.
func NewDocRepository(docs *docstore.Documents) Repository {
	return &docRepository{docs: docs}
}

func (r *docRepository) Get(ctx context.Context) (*MedicalRecord, error) {
	var rec MedicalRecord
	if err := r.docs.Load(ctx, DocKey, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *docRepository) Save(ctx context.Context, rec *MedicalRecord) error {
	return r.docs.Save(ctx, DocKey, rec)
}

func (r *docRepository) Exists(ctx context.Context) (bool, error) {
	return r.docs.Exists(ctx, DocKey)
}
