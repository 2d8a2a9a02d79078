package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	internal "github.com/ZanzyTHEbar/nli-datakit/nlikit"
	"github.com/ZanzyTHEbar/nli-datakit/nlikit/tokenizer"
)

// Mode selects the instance shape. The label encoding follows from it:
// pair instances carry signed labels for margin losses, concatenated
// instances carry 3-way labels for classification.
type Mode int

const (
	ModePair Mode = iota
	ModeConcat
)

// Encoding returns the label encoding tied to the mode.
func (m Mode) Encoding() Encoding {
	if m == ModePair {
		return Signed
	}
	return ThreeWay
}

func (m Mode) String() string {
	if m == ModePair {
		return "pair"
	}
	return "concat"
}

// Ordering is the row ordering policy. The policies are mutually
// exclusive; sampling composes with them (see SelectRows).
type Ordering int

const (
	OrderNatural Ordering = iota
	OrderShuffle
	OrderBySize
)

// Skip reasons for individual rows. None of these abort a load.
var (
	ErrMissingSentence = errors.New("row has a missing sentence field")
	ErrUnknownLabel    = errors.New("row label is outside the encoding domain")
	ErrTooLong         = errors.New("sentence too long for concatenated encoding")
)

// Builder turns raw corpus rows into tokenized instances.
type Builder struct {
	tok       tokenizer.Tokenizer
	mode      Mode
	maxLength int
}

// NewBuilder returns a Builder for the given mode and length budget.
func NewBuilder(tok tokenizer.Tokenizer, mode Mode, maxLength int) *Builder {
	return &Builder{tok: tok, mode: mode, maxLength: maxLength}
}

// SelectRows applies the row-selection pipeline and returns the rows to
// build from, in final order. The precedence is fixed and explicit:
//
//  1. rows with labels outside the encoding domain's hard exclusions are
//     dropped (signed mode pre-filters every neutral row),
//  2. with OrderShuffle, the remaining rows are shuffled (Fisher-Yates),
//  3. with samples >= 0, the first samples rows are kept,
//  4. with OrderBySize, the kept rows are sorted ascending by the
//     whitespace token count of sentence1, for cheaper padding.
//
// Shuffle-then-sample therefore draws a random subset, while
// sample-then-sort groups only the kept prefix by size.
func (b *Builder) SelectRows(rows []Row, samples int, ord Ordering, seed int64) []Row {
	selected := make([]Row, 0, len(rows))
	if b.mode.Encoding() == Signed {
		for _, row := range rows {
			if row.Label == internal.LabelNeutral {
				continue
			}
			selected = append(selected, row)
		}
	} else {
		selected = append(selected, rows...)
	}

	if ord == OrderShuffle {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(selected), func(i, j int) {
			selected[i], selected[j] = selected[j], selected[i]
		})
	}

	if samples >= 0 && samples < len(selected) {
		selected = selected[:samples]
	}

	if ord == OrderBySize {
		sort.SliceStable(selected, func(i, j int) bool {
			return len(strings.Fields(selected[i].Sentence1)) < len(strings.Fields(selected[j].Sentence1))
		})
	}

	return selected
}

// BuildRow tokenizes one row into an instance. Failures come back as one of
// the skip errors above (possibly wrapped); callers decide whether to log,
// tally, or surface them.
func (b *Builder) BuildRow(row Row) (Instance, error) {
	if missing(row.Sentence1) || missing(row.Sentence2) {
		return nil, ErrMissingSentence
	}
	y, ok := b.mode.Encoding().Encode(row.Label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, row.Label)
	}
	return b.assemble(row, y)
}

// assemble runs tokenization and sequence assembly for a row whose label
// has already been validated.
func (b *Builder) assemble(row Row, y float64) (Instance, error) {
	ids1, err := b.tok.Encode(row.Sentence1)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize %q: %w", row.Sentence1, err)
	}
	ids2, err := b.tok.Encode(row.Sentence2)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize %q: %w", row.Sentence2, err)
	}

	switch b.mode {
	case ModeConcat:
		// Length validity, not truncation: the combined sequence must fit
		// [CLS] and the first [SEP] under the budget.
		if len(ids1)+2 >= b.maxLength {
			return nil, fmt.Errorf("%w: %d ids with budget %d", ErrTooLong, len(ids1), b.maxLength)
		}
		tokens, err := ConcatBatches(
			PadOne(ids1, b.tok.PadID()),
			PadOne(ids2, b.tok.PadID()),
			b.tok.ClsID(), b.tok.SepID(), b.tok.PadID(),
		)
		if err != nil {
			return nil, err
		}
		return Concat{Tokens: tokens, Y: y}, nil
	default:
		if len(ids1) > b.maxLength {
			ids1 = ids1[:b.maxLength]
		}
		if len(ids2) > b.maxLength {
			ids2 = ids2[:b.maxLength]
		}
		return Pair{
			Premise:    PadOne(ids1, b.tok.PadID()),
			Hypothesis: PadOne(ids2, b.tok.PadID()),
			Y:          y,
		}, nil
	}
}

// BuildAll runs the full construction pass over already-selected rows,
// logging skipped rows and tallying the per-label counts. A row's label is
// counted as soon as it is recognized and retracted if tokenization later
// rejects the row, so the final tally reflects surviving instances.
func (b *Builder) BuildAll(rows []Row) ([]Instance, *Weights) {
	weights := NewWeights(b.mode.Encoding())
	instances := make([]Instance, 0, len(rows))

	for _, row := range rows {
		if missing(row.Sentence1) || missing(row.Sentence2) {
			slog.Warn("Skipping row with missing sentence", "label", row.Label)
			continue
		}
		y, ok := b.mode.Encoding().Encode(row.Label)
		if !ok {
			slog.Warn("Skipping row with unknown label", "label", row.Label)
			continue
		}
		weights.Add(row.Label)

		inst, err := b.assemble(row, y)
		if err != nil {
			weights.Sub(row.Label)
			if errors.Is(err, ErrTooLong) {
				slog.Warn("Skipping over-length sentence pair", "error", err)
			} else {
				slog.Warn("Skipping row that failed to tokenize", "error", err)
			}
			continue
		}
		instances = append(instances, inst)
	}

	return instances, weights
}
