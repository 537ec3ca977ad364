package registry

import "errors"

// ErrPersistenceDegraded signals that an in-memory update succeeded but the
// durable write behind it failed. Callers keep serving the user and log a
// durability warning.
var ErrPersistenceDegraded = errors.New("persistence degraded: state updated in memory only")
