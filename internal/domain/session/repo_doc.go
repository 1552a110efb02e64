package session

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

func (r *docRepository) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	if err := r.docs.Load(ctx, docKey(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *docRepository) Save(ctx context.Context, s *Session) error {
	return r.docs.Save(ctx, docKey(s.ID), s)
}
