package filesearch

import (
	"context"
	"fmt"
	"sync"

	"diacare-bot/internal/repository/memory"
)

// Resolver turns logical store names into remote resource names, creating
// the store when needed. Display-name equality is the only correlation key
// the API offers, so resolution of one logical name is serialized across
// the list→create window; otherwise two concurrent misses would both
// create, leaving two stores with the same display name.
type Resolver struct {
	api   StoreAPI
	cache *memory.StoreCache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewResolver(api StoreAPI, cache *memory.StoreCache) *Resolver {
	return &Resolver{
		api:   api,
		cache: cache,
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *Resolver) lockFor(logicalName string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[logicalName]
	if !ok {
		l = &sync.Mutex{}
		r.locks[logicalName] = l
	}
	return l
}

// Resolve returns the resource name for a logical name, creating the store
// if it does not exist yet. Idempotent and safe for concurrent use.
func (r *Resolver) Resolve(ctx context.Context, logicalName string) (string, error) {
	if name, found := r.cache.Get(logicalName); found {
		return name, nil
	}

	l := r.lockFor(logicalName)
	l.Lock()
	defer l.Unlock()

	// Re-check: another unit of work may have resolved while we waited.
	if name, found := r.cache.Get(logicalName); found {
		return name, nil
	}

	name, err := r.lookupRemote(ctx, logicalName)
	if err == nil {
		r.cache.Save(logicalName, name)
		return name, nil
	}
	if err != ErrStoreNotFound {
		return "", err
	}

	store, err := r.api.CreateStore(ctx, logicalName)
	if err != nil {
		return "", fmt.Errorf("%w: create %q: %v", ErrStoreUnresolvable, logicalName, err)
	}
	r.cache.Save(logicalName, store.Name)
	return store.Name, nil
}

// Find resolves without creating. Returns ErrStoreNotFound when no store
// carries the logical name.
func (r *Resolver) Find(ctx context.Context, logicalName string) (string, error) {
	if name, found := r.cache.Get(logicalName); found {
		return name, nil
	}

	name, err := r.lookupRemote(ctx, logicalName)
	if err != nil {
		return "", err
	}
	r.cache.Save(logicalName, name)
	return name, nil
}

// Invalidate drops the cached mapping so the next resolution re-checks the
// remote service. Used after an operation failed against a cached handle.
func (r *Resolver) Invalidate(logicalName string) {
	r.cache.Delete(logicalName)
}

func (r *Resolver) lookupRemote(ctx context.Context, logicalName string) (string, error) {
	stores, err := r.api.ListStores(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: list stores: %v", ErrStoreUnresolvable, err)
	}
	for _, store := range stores {
		if store.DisplayName == logicalName {
			return store.Name, nil
		}
	}
	return "", ErrStoreNotFound
}
