package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// StoreCache maps logical store names to the resource names assigned by
// the remote service. Entries are advisory: expiry plus explicit
// invalidation let resolution recover when a store was deleted out-of-band.
type StoreCache struct {
	cache *cache.Cache
}

func NewStoreCache() *StoreCache {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &StoreCache{
		cache: c,
	}
}

func (r *StoreCache) Save(logicalName, storeName string) {
	r.cache.Set(logicalName, storeName, cache.DefaultExpiration)
}

func (r *StoreCache) Get(logicalName string) (string, bool) {
	if x, found := r.cache.Get(logicalName); found {
		return x.(string), true
	}
	return "", false
}

func (r *StoreCache) Delete(logicalName string) {
	r.cache.Delete(logicalName)
}
