package consent

import "context"

// Repository stores the two consent ledgers as whole-list documents. The
// list methods return empty slices when nothing has been stored yet.
type Repository interface {
	Decisions(ctx context.Context) ([]Decision, error)
	SaveDecisions(ctx context.Context, decisions []Decision) error
	Signatures(ctx context.Context) ([]Signature, error)
	SaveSignatures(ctx context.Context, signatures []Signature) error
}
