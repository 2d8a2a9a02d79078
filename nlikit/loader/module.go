package loader

import (
	"fmt"
	"log/slog"

	"github.com/ZanzyTHEbar/nli-datakit/nlikit/config"
	"github.com/ZanzyTHEbar/nli-datakit/nlikit/dataset"
	"github.com/ZanzyTHEbar/nli-datakit/nlikit/dataset/cache"
	"github.com/ZanzyTHEbar/nli-datakit/nlikit/tokenizer"
)

// Module owns the train/validation/test splits of one experiment and hands
// out batch loaders over them. It is the single entry point a training
// harness needs.
type Module struct {
	cfg   *config.Config
	tok   tokenizer.Tokenizer
	cache *cache.Provider

	train *dataset.Dataset
	val   *dataset.Dataset
	test  *dataset.Dataset
}

// NewModule validates cfg and constructs every configured split. Missing
// required configuration is a hard failure; per-row corpus problems are
// logged and skipped inside dataset construction.
func NewModule(tok tokenizer.Tokenizer, cfg *config.Config) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg, tok: tok}

	if cfg.Data.CachePath != "" {
		provider, err := cache.NewProvider(cfg.Data.CachePath)
		if err != nil {
			// The cache is an optimization; a broken cache never blocks
			// dataset construction.
			slog.Warn("Instance cache unavailable", "path", cfg.Data.CachePath, "error", err)
		} else {
			m.cache = provider
		}
	}

	mode := modeFromConfig(cfg.Data.Mode)
	ordering := orderingFromConfig(cfg.Data.Ordering)

	split := func(path string, samples int, ordering dataset.Ordering) (*dataset.Dataset, error) {
		return dataset.NewDataset(tok, dataset.SplitConfig{
			Path:      path,
			Samples:   samples,
			Mode:      mode,
			MaxLength: cfg.Data.MaxLength,
			Ordering:  ordering,
			Seed:      cfg.Data.Seed,
			InMemory:  cfg.Data.InMemory,
			Cache:     m.cache,
		})
	}

	var err error
	if !cfg.Loader.EvalOnly {
		slog.Info("Train dataset...")
		if m.train, err = split(cfg.Data.TrainPath, cfg.Data.TrainSamples, ordering); err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to build train split: %w", err)
		}
		slog.Info("Valid dataset...")
		if m.val, err = split(cfg.Data.ValPath, cfg.Data.ValSamples, dataset.OrderNatural); err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to build validation split: %w", err)
		}
	}
	if cfg.Data.TestPath != "" {
		slog.Info("Test dataset...")
		if m.test, err = split(cfg.Data.TestPath, cfg.Data.TestSamples, dataset.OrderNatural); err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to build test split: %w", err)
		}
	}

	return m, nil
}

// TrainLoader returns a shuffling loader over the train split.
func (m *Module) TrainLoader() (*Loader, error) {
	if m.train == nil {
		return nil, fmt.Errorf("no train split was constructed (evalOnly=%t)", m.cfg.Loader.EvalOnly)
	}
	return NewLoader(m.train, m.tok.PadID(), m.cfg.Loader.BatchSize, true, m.cfg.Loader.NumWorkers, m.cfg.Data.Seed), nil
}

// ValLoader returns an in-order loader over the validation split.
func (m *Module) ValLoader() (*Loader, error) {
	if m.val == nil {
		return nil, fmt.Errorf("no validation split was constructed (evalOnly=%t)", m.cfg.Loader.EvalOnly)
	}
	return NewLoader(m.val, m.tok.PadID(), m.cfg.Loader.BatchSize, false, m.cfg.Loader.NumWorkers, m.cfg.Data.Seed), nil
}

// TestLoader returns an in-order loader over the test split.
func (m *Module) TestLoader() (*Loader, error) {
	if m.test == nil {
		return nil, fmt.Errorf("no test split was constructed (data.testPath is empty)")
	}
	return NewLoader(m.test, m.tok.PadID(), m.cfg.Loader.BatchSize, false, m.cfg.Loader.NumWorkers, m.cfg.Data.Seed), nil
}

// Train returns the train split, nil when not constructed.
func (m *Module) Train() *dataset.Dataset { return m.train }

// Val returns the validation split, nil when not constructed.
func (m *Module) Val() *dataset.Dataset { return m.val }

// Test returns the test split, nil when not constructed.
func (m *Module) Test() *dataset.Dataset { return m.test }

// Close releases the instance cache, if one was opened.
func (m *Module) Close() error {
	if m.cache == nil {
		return nil
	}
	err := m.cache.Close()
	m.cache = nil
	return err
}

func modeFromConfig(s string) dataset.Mode {
	if s == config.ModeConcat {
		return dataset.ModeConcat
	}
	return dataset.ModePair
}

func orderingFromConfig(s string) dataset.Ordering {
	switch s {
	case config.OrderingShuffle:
		return dataset.OrderShuffle
	case config.OrderingBySize:
		return dataset.OrderBySize
	default:
		return dataset.OrderNatural
	}
}
