package tokenizer

import (
	"fmt"
)

// Tokenizer converts raw text to token IDs and exposes the reserved
// vocabulary ids the dataset layer needs for sequence assembly. Encode
// returns bare subword ids: special tokens (CLS/SEP) are added downstream,
// where the two sentences of a pair are combined.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	ClsID() int
	SepID() int
	PadID() int
	VocabSize() int
}

// ErrUnsupported indicates the tokenizer could not be initialized
var ErrUnsupported = fmt.Errorf("unsupported tokenizer configuration")
