package catalog

import (
	"context"
	"fmt"
	"sync"
)

// CachedExerciseCatalog is a read-through decorator for an ExerciseCatalog.
// The exercise catalog is reference data that changes rarely, so it is loaded
// once and held for the process lifetime. Staleness is acceptable.
//
// The cache is an explicit dependency rather than process-global state so
// tests can supply a fixed catalog without touching shared state.
type CachedExerciseCatalog struct {
	inner ExerciseCatalog

	mu     sync.Mutex
	cached []Exercise
}

// NewCachedExerciseCatalog wraps inner with a lazy in-process cache.
func NewCachedExerciseCatalog(inner ExerciseCatalog) *CachedExerciseCatalog {
	return &CachedExerciseCatalog{inner: inner} //nolint:exhaustruct // cache populated lazily.
}

// List returns the cached exercise list, loading it from the inner catalog on
// first use. Callers must not mutate the returned slice.
func (c *CachedExerciseCatalog) List(ctx context.Context) ([]Exercise, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil {
		return c.cached, nil
	}

	exercises, err := c.inner.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exercise catalog: %w", err)
	}
	c.cached = exercises
	return c.cached, nil
}
