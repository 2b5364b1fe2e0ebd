package reports

import (
	"context"
	"time"
)

// buildTimeout bounds a shared build, which outlives any single caller.
const buildTimeout = 30 * time.Second

// shared collapses concurrent builds of the same key into one call. The build
// runs detached from the caller that started it; each caller still stops
// waiting when its own context ends.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	buildCtx := context.WithoutCancel(ctx)
	resultChan := s.group.DoChan(key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(buildCtx, buildTimeout)
		defer cancel()
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		return res.Val, res.Err
	}
}

// cached resolves a report through singleflight and the versioned cache.
func cached[T any](ctx context.Context, s *Service, keyBase string, build func(context.Context) (T, error)) (T, error) {
	var zero T
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return zero, err
	}
	value, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		var out T
		loader := func(ctx context.Context) (interface{}, error) {
			return build(ctx)
		}
		if err := s.cache.FetchJSON(ctx, key, &out, loader); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return zero, err
	}
	return value.(T), nil
}
