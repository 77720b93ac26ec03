package ticket

import "context"

// NumberGenerator hands out human-readable ticket numbers that are not yet
// in use. Uniqueness is finally enforced by the store's unique index.
type NumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}
