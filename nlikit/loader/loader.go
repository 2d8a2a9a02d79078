package loader

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sourcegraph/conc/stream"

	"github.com/ZanzyTHEbar/nli-datakit/nlikit/dataset"
)

// Result carries one collated batch or the error that produced no batch.
type Result struct {
	Batch Batch
	Err   error
}

// Loader yields mini-batches of a dataset split for one epoch at a time.
// Collation runs on a bounded worker pool while batch order is preserved.
// A Loader is meant for a single consuming goroutine.
type Loader struct {
	ds         *dataset.Dataset
	padID      int
	batchSize  int
	shuffle    bool
	numWorkers int
	rng        *rand.Rand
}

// NewLoader builds a loader over ds. With shuffle, the instance order is
// re-drawn for every epoch.
func NewLoader(ds *dataset.Dataset, padID, batchSize int, shuffle bool, numWorkers int, seed int64) *Loader {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Loader{
		ds:         ds,
		padID:      padID,
		batchSize:  batchSize,
		shuffle:    shuffle,
		numWorkers: numWorkers,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// NumBatches returns the number of batches per epoch (last one may be
// short).
func (l *Loader) NumBatches() int {
	return (l.ds.Len() + l.batchSize - 1) / l.batchSize
}

// Epoch streams one pass over the split. The channel closes when the epoch
// is exhausted or ctx is canceled. Instances that fail per-access
// construction (lazy datasets) are logged and dropped from their batch; a
// batch that loses every instance is dropped entirely.
func (l *Loader) Epoch(ctx context.Context) <-chan Result {
	out := make(chan Result)
	order := l.epochOrder()

	go func() {
		defer close(out)
		workers := stream.New().WithMaxGoroutines(l.numWorkers)
		for start := 0; start < len(order); start += l.batchSize {
			if ctx.Err() != nil {
				break
			}
			end := min(start+l.batchSize, len(order))
			indices := order[start:end]
			workers.Go(func() stream.Callback {
				batch, ok, err := l.collate(indices)
				return func() {
					if !ok {
						return
					}
					select {
					case out <- Result{Batch: batch, Err: err}:
					case <-ctx.Done():
					}
				}
			})
		}
		workers.Wait()
	}()
	return out
}

// epochOrder returns the instance visit order for one epoch.
func (l *Loader) epochOrder() []int {
	order := make([]int, l.ds.Len())
	for i := range order {
		order[i] = i
	}
	if l.shuffle {
		l.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return order
}

// collate fetches the indexed instances and pads them into one batch. The
// boolean is false when nothing in the batch survived.
func (l *Loader) collate(indices []int) (Batch, bool, error) {
	instances := make([]dataset.Instance, 0, len(indices))
	for _, idx := range indices {
		inst, err := l.ds.At(idx)
		if err != nil {
			slog.Warn("Dropping instance from batch", "index", idx, "error", err)
			continue
		}
		instances = append(instances, inst)
	}
	if len(instances) == 0 {
		return Batch{}, false, nil
	}
	batch, err := Collate(instances, l.padID)
	return batch, true, err
}
