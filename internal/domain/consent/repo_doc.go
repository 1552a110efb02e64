package consent

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

func (r *docRepository) Decisions(ctx context.Context) ([]Decision, error) {
	decisions := []Decision{}
	r.docs.LoadOr(ctx, DecisionsKey, &decisions)
	return decisions, nil
}

func (r *docRepository) SaveDecisions(ctx context.Context, decisions []Decision) error {
	return r.docs.Save(ctx, DecisionsKey, decisions)
}

func (r *docRepository) Signatures(ctx context.Context) ([]Signature, error) {
	signatures := []Signature{}
	r.docs.LoadOr(ctx, SignaturesKey, &signatures)
	return signatures, nil
}

func (r *docRepository) SaveSignatures(ctx context.Context, signatures []Signature) error {
	return r.docs.Save(ctx, SignaturesKey, signatures)
}
