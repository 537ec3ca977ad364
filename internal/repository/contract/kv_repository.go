package contract

import "context"

// IKeyValueRepository is the persistence collaborator for per-user state.
// Load reports absence via the bool, not an error.
type IKeyValueRepository interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}
