package dataset

import (
	internal "github.com/ZanzyTHEbar/nli-datakit/nlikit"
)

// Encoding maps NLI label strings onto numeric targets. The two encodings
// are fixed: ThreeWay keeps all labels for 3-class training, Signed keeps
// entailment/contradiction as +1/-1 margins and excludes neutral rows from
// its domain entirely.
type Encoding int

const (
	ThreeWay Encoding = iota
	Signed
)

var threeWayCodes = map[string]float64{
	internal.LabelEntailment:    0,
	internal.LabelContradiction: 1,
	internal.LabelNeutral:       2,
}

var signedCodes = map[string]float64{
	internal.LabelEntailment:    1,
	internal.LabelContradiction: -1,
}

// Encode returns the numeric target for label, and whether label is in the
// encoding's domain.
func (e Encoding) Encode(label string) (float64, bool) {
	v, ok := e.codes()[label]
	return v, ok
}

// Labels returns the encoding's domain in a stable order.
func (e Encoding) Labels() []string {
	if e == Signed {
		return []string{internal.LabelEntailment, internal.LabelContradiction}
	}
	return []string{internal.LabelEntailment, internal.LabelContradiction, internal.LabelNeutral}
}

func (e Encoding) String() string {
	if e == Signed {
		return "signed"
	}
	return "threeway"
}

func (e Encoding) codes() map[string]float64 {
	if e == Signed {
		return signedCodes
	}
	return threeWayCodes
}
