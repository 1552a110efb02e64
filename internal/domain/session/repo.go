package session

import "context"

// Repository stores sessions. Get returns docstore.ErrNotFound for unknown
// session ids.
type Repository interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}
