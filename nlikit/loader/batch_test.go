package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/nli-datakit/nlikit/dataset"
)

func TestCollatePairInstances(t *testing.T) {
	instances := []dataset.Instance{
		dataset.Pair{
			Premise:    dataset.PadOne([]int{11, 12, 13}, fakePAD),
			Hypothesis: dataset.PadOne([]int{21}, fakePAD),
			Y:          1,
		},
		dataset.Pair{
			Premise:    dataset.PadOne([]int{14}, fakePAD),
			Hypothesis: dataset.PadOne([]int{22, 23}, fakePAD),
			Y:          -1,
		},
	}

	batch, err := Collate(instances, fakePAD)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, -1}, batch.Labels)
	require.NotNil(t, batch.Premise)
	require.NotNil(t, batch.Hypothesis)
	assert.Nil(t, batch.Tokens)

	// Item-level 1-row batches are flattened and re-padded batch-wide.
	assert.Equal(t, 3, batch.Premise.Width())
	assert.Equal(t, []int{3, 1}, batch.Premise.Lengths)
	assert.Equal(t, []int{14, fakePAD, fakePAD}, batch.Premise.IDs[1])
	assert.Equal(t, 2, batch.Hypothesis.Width())
	assert.Equal(t, []int{21, fakePAD}, batch.Hypothesis.IDs[0])
}

func TestCollateConcatInstances(t *testing.T) {
	instances := []dataset.Instance{
		dataset.Concat{Tokens: dataset.PadOne([]int{fakeCLS, 11, fakeSEP, 21, fakeSEP}, fakePAD), Y: 0},
		dataset.Concat{Tokens: dataset.PadOne([]int{fakeCLS, 12, 13, fakeSEP, 22, 23, fakeSEP}, fakePAD), Y: 2},
	}

	batch, err := Collate(instances, fakePAD)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 2}, batch.Labels)
	require.NotNil(t, batch.Tokens)
	assert.Nil(t, batch.Premise)

	assert.Equal(t, 7, batch.Tokens.Width())
	assert.Equal(t, []int{5, 7}, batch.Tokens.Lengths)
	assert.Equal(t, fakePAD, batch.Tokens.IDs[0][6])
}

func TestCollateWidthEqualsMaxLength(t *testing.T) {
	widthInvariant := func(t *testing.T, p *dataset.Padded) {
		t.Helper()
		require.NotNil(t, p)
		maxLen := 0
		for _, n := range p.Lengths {
			if n > maxLen {
				maxLen = n
			}
		}
		assert.Equal(t, maxLen, p.Width())
		for _, row := range p.IDs {
			assert.Len(t, row, p.Width())
		}
	}

	pairs := []dataset.Instance{
		dataset.Pair{
			Premise:    dataset.PadOne([]int{11, 12, 13, 14, 15}, fakePAD),
			Hypothesis: dataset.PadOne([]int{21}, fakePAD),
			Y:          1,
		},
		dataset.Pair{
			Premise:    dataset.PadOne([]int{16}, fakePAD),
			Hypothesis: dataset.PadOne([]int{22, 23, 24}, fakePAD),
			Y:          -1,
		},
	}
	batch, err := Collate(pairs, fakePAD)
	require.NoError(t, err)
	widthInvariant(t, batch.Premise)
	widthInvariant(t, batch.Hypothesis)

	concats := []dataset.Instance{
		dataset.Concat{Tokens: dataset.PadOne([]int{fakeCLS, 11, fakeSEP, 21, fakeSEP}, fakePAD), Y: 0},
		dataset.Concat{Tokens: dataset.PadOne([]int{fakeCLS, 12, fakeSEP, 22, 23, 24, fakeSEP}, fakePAD), Y: 1},
	}
	batch, err = Collate(concats, fakePAD)
	require.NoError(t, err)
	widthInvariant(t, batch.Tokens)
}

func TestCollateEmpty(t *testing.T) {
	_, err := Collate(nil, fakePAD)
	assert.Error(t, err)
}

func TestCollateMixedVariants(t *testing.T) {
	instances := []dataset.Instance{
		dataset.Pair{
			Premise:    dataset.PadOne([]int{11}, fakePAD),
			Hypothesis: dataset.PadOne([]int{21}, fakePAD),
			Y:          1,
		},
		dataset.Concat{Tokens: dataset.PadOne([]int{fakeCLS, 12, fakeSEP}, fakePAD), Y: 0},
	}
	_, err := Collate(instances, fakePAD)
	assert.Error(t, err)
}
