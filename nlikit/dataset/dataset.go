package dataset

import (
	"fmt"
	"log/slog"

	roaring "github.com/RoaringBitmap/roaring"

	internal "github.com/ZanzyTHEbar/nli-datakit/nlikit"
	"github.com/ZanzyTHEbar/nli-datakit/nlikit/dataset/cache"
	"github.com/ZanzyTHEbar/nli-datakit/nlikit/tokenizer"
)

// SplitConfig describes how to build one dataset split.
type SplitConfig struct {
	Path      string
	Samples   int // -1 = unlimited
	Mode      Mode
	MaxLength int
	Ordering  Ordering
	Seed      int64
	InMemory  bool
	Cache     *cache.Provider // optional, eager mode only
}

// Dataset is an indexable split of tokenized instances. The
// materialization strategy is fixed at construction: eager tokenizes the
// whole corpus up front, lazy keeps raw rows and tokenizes per access.
type Dataset struct {
	mode     Mode
	weights  *Weights
	strategy strategy
}

type strategy interface {
	size() int
	at(i int) (Instance, error)
}

// NewDataset loads a corpus split and prepares it for batch access.
func NewDataset(tok tokenizer.Tokenizer, cfg SplitConfig) (*Dataset, error) {
	rows, err := ReadRows(cfg.Path)
	if err != nil {
		return nil, err
	}
	builder := NewBuilder(tok, cfg.Mode, cfg.MaxLength)

	if !cfg.InMemory {
		if cfg.Ordering != OrderNatural {
			return nil, fmt.Errorf("lazy datasets only support natural row order")
		}
		lazy, weights := newLazyStrategy(builder, rows, cfg.Samples, cfg.Mode.Encoding())
		return &Dataset{mode: cfg.Mode, weights: weights, strategy: lazy}, nil
	}

	// An unseeded shuffle is a different order every run, so there is
	// nothing stable to cache.
	useCache := cfg.Cache != nil && !(cfg.Ordering == OrderShuffle && cfg.Seed == 0)

	if useCache {
		if ds, ok := fromCache(cfg, tok.PadID()); ok {
			return ds, nil
		}
	}

	selected := builder.SelectRows(rows, cfg.Samples, cfg.Ordering, cfg.Seed)
	slog.Info("Building instances", "path", cfg.Path, "mode", cfg.Mode.String(), "rows", len(selected))
	instances, weights := builder.BuildAll(selected)
	slog.Info("Built instances", "count", len(instances), "weights", weights.Counts())

	if useCache {
		storeCache(cfg, instances, weights)
	}

	return &Dataset{
		mode:     cfg.Mode,
		weights:  weights,
		strategy: eagerStrategy(instances),
	}, nil
}

// Len returns the number of instances in the split.
func (d *Dataset) Len() int {
	return d.strategy.size()
}

// At returns instance i. With the lazy strategy a row that fails
// tokenization or the concat length check surfaces its skip error here;
// eager datasets never return errors.
func (d *Dataset) At(i int) (Instance, error) {
	if i < 0 || i >= d.strategy.size() {
		return nil, fmt.Errorf("instance index %d out of range [0,%d)", i, d.strategy.size())
	}
	return d.strategy.at(i)
}

// Mode returns the instance shape of the split.
func (d *Dataset) Mode() Mode {
	return d.mode
}

// Weights returns the per-label tally recorded during construction. For
// lazy datasets the tally comes from the validity prescan and does not
// reflect per-access rejections.
func (d *Dataset) Weights() *Weights {
	return d.weights
}

// fromCache attempts to restore an instance set; any cache problem is
// logged and treated as a miss.
func fromCache(cfg SplitConfig, padID int) (*Dataset, bool) {
	fp, err := cfg.fingerprint()
	if err != nil {
		slog.Warn("Skipping instance cache", "error", err)
		return nil, false
	}
	payload, ok, err := cfg.Cache.Lookup(fp)
	if err != nil {
		slog.Warn("Instance cache lookup failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	instances, weights, err := decodeInstances(payload, cfg.Mode.Encoding(), padID)
	if err != nil {
		slog.Warn("Discarding corrupt instance cache entry", "error", err)
		if evictErr := cfg.Cache.Evict(fp); evictErr != nil {
			slog.Warn("Failed to evict corrupt cache entry", "error", evictErr)
		}
		return nil, false
	}
	slog.Info("Restored instances from cache", "path", cfg.Path, "count", len(instances))
	return &Dataset{mode: cfg.Mode, weights: weights, strategy: eagerStrategy(instances)}, true
}

// storeCache persists a freshly built instance set; failures only warn.
func storeCache(cfg SplitConfig, instances []Instance, weights *Weights) {
	fp, err := cfg.fingerprint()
	if err != nil {
		slog.Warn("Skipping instance cache", "error", err)
		return
	}
	payload, err := encodeInstances(instances, weights)
	if err != nil {
		slog.Warn("Failed to encode instances for caching", "error", err)
		return
	}
	if err := cfg.Cache.Store(fp, payload); err != nil {
		slog.Warn("Failed to store instances in cache", "error", err)
	}
}

// eagerStrategy holds fully materialized instances.
type eagerStrategy []Instance

func (e eagerStrategy) size() int { return len(e) }

func (e eagerStrategy) at(i int) (Instance, error) { return e[i], nil }

// lazyStrategy keeps the raw rows and a bitmap of the row indices that
// passed the cheap validity prescan (non-empty sentences, label in the
// encoding domain). Tokenization happens per access.
type lazyStrategy struct {
	builder *Builder
	rows    []Row
	valid   *roaring.Bitmap
}

// newLazyStrategy prescans rows for validity and tallies labels. With
// samples >= 0 the prescan stops once enough valid rows are indexed, so
// the split is the first samples valid rows in file order.
func newLazyStrategy(builder *Builder, rows []Row, samples int, enc Encoding) (*lazyStrategy, *Weights) {
	weights := NewWeights(enc)
	valid := roaring.New()
	for i, row := range rows {
		if samples >= 0 && valid.GetCardinality() >= uint64(samples) {
			break
		}
		if enc == Signed && row.Label == internal.LabelNeutral {
			// Excluded from the signed domain by construction, not an
			// anomaly worth logging per row.
			continue
		}
		if missing(row.Sentence1) || missing(row.Sentence2) {
			slog.Warn("Skipping row with missing sentence", "label", row.Label)
			continue
		}
		if _, ok := enc.Encode(row.Label); !ok {
			slog.Warn("Skipping row with unknown label", "label", row.Label)
			continue
		}
		valid.Add(uint32(i))
		weights.Add(row.Label)
	}
	return &lazyStrategy{builder: builder, rows: rows, valid: valid}, weights
}

func (l *lazyStrategy) size() int {
	return int(l.valid.GetCardinality())
}

func (l *lazyStrategy) at(i int) (Instance, error) {
	idx, err := l.valid.Select(uint32(i))
	if err != nil {
		return nil, fmt.Errorf("instance index %d out of range: %w", i, err)
	}
	return l.builder.BuildRow(l.rows[idx])
}
