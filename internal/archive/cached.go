package archive

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedRepository fronts a Repository with an LRU cache. Status lookups for
// recently archived orders are common right after a sweep, and archive rows
// never change once written except for re-archival of the same id.
type CachedRepository struct {
	next  Repository
	cache *lru.Cache[string, Record]
}

// NewCachedRepository wraps next with an LRU of the given size.
func NewCachedRepository(next Repository, size int) (*CachedRepository, error) {
	if size <= 0 {
		size = 256
	}

	cache, err := lru.New[string, Record](size)
	if err != nil {
		return nil, err
	}

	return &CachedRepository{
		next:  next,
		cache: cache,
	}, nil
}

// Save writes through to the underlying repository and refreshes the cache entry.
func (r *CachedRepository) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return nil
	}

	if err := r.next.Save(ctx, rec); err != nil {
		return err
	}

	r.cache.Add(rec.ID, *rec)
	return nil
}

// Find serves from cache when possible, falling back to the repository.
func (r *CachedRepository) Find(ctx context.Context, id string) (*Record, error) {
	if rec, ok := r.cache.Get(id); ok {
		copied := rec
		return &copied, nil
	}

	rec, err := r.next.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cache.Add(rec.ID, *rec)
	return rec, nil
}
