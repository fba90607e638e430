package pipeline

import (
	"context"

	"github.com/vlive-go/vlive/stream"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one resolution in a batch.
type Result struct {
	Seq        uint64
	Descriptor *stream.Descriptor
	Err        error
}

// ResolveAll resolves every seq, running at most limit resolutions at once.
// A failed resolution does not cancel the others. Results keep the order of seqs.
func (r *Resolver) ResolveAll(ctx context.Context, seqs []uint64, limit int) []Result {
	results := make([]Result, len(seqs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, seq := range seqs {
		g.Go(func() error {
			d, err := r.Resolve(ctx, seq)
			results[i] = Result{Seq: seq, Descriptor: d, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
