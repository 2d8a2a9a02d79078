package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreeWayEncoding(t *testing.T) {
	cases := map[string]float64{
		"entailment":    0,
		"contradiction": 1,
		"neutral":       2,
	}
	for label, want := range cases {
		got, ok := ThreeWay.Encode(label)
		assert.True(t, ok, "label %q should be in the 3-way domain", label)
		assert.Equal(t, want, got)
	}

	_, ok := ThreeWay.Encode("paraphrase")
	assert.False(t, ok)
}

func TestSignedEncoding(t *testing.T) {
	got, ok := Signed.Encode("entailment")
	assert.True(t, ok)
	assert.Equal(t, float64(1), got)

	got, ok = Signed.Encode("contradiction")
	assert.True(t, ok)
	assert.Equal(t, float64(-1), got)

	// Neutral is excluded from the signed domain entirely.
	_, ok = Signed.Encode("neutral")
	assert.False(t, ok)
}

func TestEncodingLabels(t *testing.T) {
	assert.Equal(t, []string{"entailment", "contradiction", "neutral"}, ThreeWay.Labels())
	assert.Equal(t, []string{"entailment", "contradiction"}, Signed.Labels())
}

func TestModeImpliesEncoding(t *testing.T) {
	assert.Equal(t, Signed, ModePair.Encoding())
	assert.Equal(t, ThreeWay, ModeConcat.Encoding())
}
