package dataset

import (
	"gonum.org/v1/gonum/floats"
)

// Weights tracks how many instances of each label survived a construction
// pass. It is filled during one pass over the corpus and read-only
// afterwards, used for class-balance reporting and loss weighting.
type Weights struct {
	counts map[string]int
	labels []string
}

// NewWeights returns a zeroed counter over the encoding's label domain.
func NewWeights(enc Encoding) *Weights {
	labels := enc.Labels()
	counts := make(map[string]int, len(labels))
	for _, l := range labels {
		counts[l] = 0
	}
	return &Weights{counts: counts, labels: labels}
}

// Add records one accepted instance of label.
func (w *Weights) Add(label string) {
	w.counts[label]++
}

// Sub retracts a previously counted instance, used when an example is
// rejected after its label was already tallied.
func (w *Weights) Sub(label string) {
	w.counts[label]--
}

// set overwrites one tally, used when restoring a persisted set.
func (w *Weights) set(label string, count int) {
	w.counts[label] = count
}

// Count returns the tally for one label.
func (w *Weights) Count(label string) int {
	return w.counts[label]
}

// Total returns the number of counted instances.
func (w *Weights) Total() int {
	sum := 0
	for _, c := range w.counts {
		sum += c
	}
	return sum
}

// Counts returns a copy of the per-label tallies.
func (w *Weights) Counts() map[string]int {
	out := make(map[string]int, len(w.counts))
	for k, v := range w.counts {
		out[k] = v
	}
	return out
}

// Distribution returns the per-label share of the corpus, in the
// encoding's label order. All zeros when the corpus is empty.
func (w *Weights) Distribution() []float64 {
	dist := make([]float64, len(w.labels))
	for i, l := range w.labels {
		dist[i] = float64(w.counts[l])
	}
	if sum := floats.Sum(dist); sum > 0 {
		floats.Scale(1/sum, dist)
	}
	return dist
}

// ClassWeights returns inverse-frequency loss weights in the encoding's
// label order, normalized so they sum to the number of labels. Labels with
// no instances get weight zero.
func (w *Weights) ClassWeights() []float64 {
	inv := make([]float64, len(w.labels))
	for i, l := range w.labels {
		if c := w.counts[l]; c > 0 {
			inv[i] = 1 / float64(c)
		}
	}
	if sum := floats.Sum(inv); sum > 0 {
		floats.Scale(float64(len(w.labels))/sum, inv)
	}
	return inv
}
