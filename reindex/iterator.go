package reindex

import (
	"context"
	"iter"

	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/storage"
)

// DefaultBatchSize is the default number of properties embedded per call.
const DefaultBatchSize = 32

// batches yields the catalogue in ID order, batchSize profiles at a time.
// A listing failure is yielded once with a nil batch.
func batches(ctx context.Context, repo storage.PropertyRepository, batchSize int) (int, iter.Seq2[[]*core.PropertyProfile, error]) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	profiles, err := repo.ListProperties(ctx)
	seq := func(yield func([]*core.PropertyProfile, error) bool) {
		if err != nil {
			yield(nil, err)
			return
		}
		for start := 0; start < len(profiles); start += batchSize {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			end := min(start+batchSize, len(profiles))
			if !yield(profiles[start:end], nil) {
				return
			}
		}
	}
	return len(profiles), seq
}
