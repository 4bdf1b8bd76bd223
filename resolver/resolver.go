// Package resolver defines the resolution capability the validation pipeline
// consumes and an HTTP implementation for DID documents.
package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Resolver resolves an input to a value, typically over the network.
// Implementations must be safe for concurrent use.
type Resolver[I, T any] interface {
	Resolve(ctx context.Context, input I) (T, error)
}

// Func adapts a function to the Resolver interface.
type Func[I, T any] func(ctx context.Context, input I) (T, error)

func (f Func[I, T]) Resolve(ctx context.Context, input I) (T, error) {
	return f(ctx, input)
}

// ResolveAll resolves every input concurrently, preserving input order. The
// first failure cancels the remaining resolutions.
func ResolveAll[I, T any](ctx context.Context, r Resolver[I, T], inputs []I) ([]T, error) {
	results := make([]T, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	for i, input := range inputs {
		g.Go(func() error {
			result, err := r.Resolve(ctx, input)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
