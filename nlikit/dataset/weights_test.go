package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightsDistribution(t *testing.T) {
	w := NewWeights(ThreeWay)
	for i := 0; i < 6; i++ {
		w.Add("entailment")
	}
	for i := 0; i < 3; i++ {
		w.Add("contradiction")
	}
	w.Add("neutral")

	dist := w.Distribution()
	assert.InDeltaSlice(t, []float64{0.6, 0.3, 0.1}, dist, 1e-12)
}

func TestWeightsDistributionEmpty(t *testing.T) {
	w := NewWeights(Signed)
	assert.Equal(t, []float64{0, 0}, w.Distribution())
}

func TestClassWeightsInverseFrequency(t *testing.T) {
	w := NewWeights(Signed)
	for i := 0; i < 3; i++ {
		w.Add("entailment")
	}
	w.Add("contradiction")

	cw := w.ClassWeights()
	// Normalized to sum to the label count.
	assert.InDelta(t, 2, cw[0]+cw[1], 1e-12)
	// The rarer class carries three times the weight.
	assert.InDelta(t, 3, cw[1]/cw[0], 1e-12)
}

func TestWeightsSub(t *testing.T) {
	w := NewWeights(ThreeWay)
	w.Add("neutral")
	w.Add("neutral")
	w.Sub("neutral")
	assert.Equal(t, 1, w.Count("neutral"))
	assert.Equal(t, 1, w.Total())
}
