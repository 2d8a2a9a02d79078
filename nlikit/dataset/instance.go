package dataset

// Instance is one tokenized, labeled training example. It is a closed
// variant: Pair for dual-encoder setups, Concat for single-encoder setups.
type Instance interface {
	Label() float64
	isInstance()
}

// Pair holds the two sentences of an example as separate 1-row batches,
// scored by a dual-encoder architecture downstream.
type Pair struct {
	Premise    Padded
	Hypothesis Padded
	Y          float64
}

func (p Pair) Label() float64 { return p.Y }
func (Pair) isInstance()      {}

// Concat holds one combined [CLS] s1 [SEP] s2 [SEP] sequence as a 1-row
// batch, scored by a single encoder downstream.
type Concat struct {
	Tokens Padded
	Y      float64
}

func (c Concat) Label() float64 { return c.Y }
func (Concat) isInstance()      {}
