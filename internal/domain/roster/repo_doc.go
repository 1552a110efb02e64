package roster

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

func (r *docRepository) List(ctx context.Context) ([]Patient, error) {
	patients := []Patient{}
	r.docs.LoadOr(ctx, DocKey, &patients)
	return patients, nil
}

func (r *docRepository) Save(ctx context.Context, patients []Patient) error {
	return r.docs.Save(ctx, DocKey, patients)
}
