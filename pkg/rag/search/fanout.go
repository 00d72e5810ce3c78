package search

import (
	"sync"

	"ai-digest-be/internal/entity"
)

// forBothPools runs fn against the public and private pools concurrently.
// Each goroutine writes to its own slot, so there is no shared mutable state;
// results are combined only after both legs complete. The first error wins.
func forBothPools(fn func(pool entity.Pool) ([]Result, error)) ([2][]Result, error) {
	pools := [2]entity.Pool{entity.PoolPublic, entity.PoolPrivate}

	var (
		wg      sync.WaitGroup
		results [2][]Result
		errs    [2]error
	)

	for i, pool := range pools {
		wg.Add(1)
		go func(i int, pool entity.Pool) {
			defer wg.Done()
			results[i], errs[i] = fn(pool)
		}(i, pool)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
