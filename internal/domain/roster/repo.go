package roster

import "context"

// Repository stores the roster as a single whole-list document. List returns
// an empty slice when nothing has been stored yet.
type Repository interface {
	List(ctx context.Context) ([]Patient, error)
	Save(ctx context.Context, patients []Patient) error
}
