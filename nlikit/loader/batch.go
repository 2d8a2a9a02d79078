package loader

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/assert-lib"

	"github.com/ZanzyTHEbar/nli-datakit/nlikit/dataset"
)

var assertHandler = assert.NewAssertHandler()

// Batch is one collated mini-batch. Exactly one of the two tensor layouts
// is populated, matching the dataset's mode: Premise/Hypothesis for pair
// instances, Tokens for concatenated instances.
type Batch struct {
	Premise    *dataset.Padded
	Hypothesis *dataset.Padded
	Tokens     *dataset.Padded
	Labels     []float64
}

// Size returns the number of examples in the batch.
func (b Batch) Size() int {
	return len(b.Labels)
}

// Collate flattens item-level 1-row batches into one padded batch per
// tensor, re-padding every row to the batch-wide max length. All instances
// must be the same variant.
func Collate(instances []dataset.Instance, padID int) (Batch, error) {
	if len(instances) == 0 {
		return Batch{}, fmt.Errorf("cannot collate an empty batch")
	}

	labels := make([]float64, len(instances))
	for i, inst := range instances {
		labels[i] = inst.Label()
	}

	switch instances[0].(type) {
	case dataset.Pair:
		premises := make([][]int, len(instances))
		hypotheses := make([][]int, len(instances))
		for i, inst := range instances {
			p, ok := inst.(dataset.Pair)
			if !ok {
				return Batch{}, fmt.Errorf("mixed instance variants in batch: %T at index %d", inst, i)
			}
			premises[i] = p.Premise.Row(0)
			hypotheses[i] = p.Hypothesis.Row(0)
		}
		premise := dataset.Pad(premises, padID)
		hypothesis := dataset.Pad(hypotheses, padID)
		assertPaddedWidth(premise)
		assertPaddedWidth(hypothesis)
		return Batch{Premise: &premise, Hypothesis: &hypothesis, Labels: labels}, nil
	case dataset.Concat:
		seqs := make([][]int, len(instances))
		for i, inst := range instances {
			c, ok := inst.(dataset.Concat)
			if !ok {
				return Batch{}, fmt.Errorf("mixed instance variants in batch: %T at index %d", inst, i)
			}
			seqs[i] = c.Tokens.Row(0)
		}
		tokens := dataset.Pad(seqs, padID)
		assertPaddedWidth(tokens)
		return Batch{Tokens: &tokens, Labels: labels}, nil
	default:
		return Batch{}, fmt.Errorf("cannot collate instance of type %T", instances[0])
	}
}

// assertPaddedWidth enforces the padded-batch invariant: the matrix width
// equals the longest unpadded row.
func assertPaddedWidth(p dataset.Padded) {
	maxLen := 0
	for _, n := range p.Lengths {
		if n > maxLen {
			maxLen = n
		}
	}
	assertHandler.Assert(context.Background(), p.Width() == maxLen, "padded batch width must equal max sequence length")
}
