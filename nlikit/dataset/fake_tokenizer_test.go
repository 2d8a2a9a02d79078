package dataset

import (
	"fmt"
	"strings"
)

// fakeTokenizer is a deterministic word-level stand-in for the WordPiece
// implementation. Every word maps to a stable id >= 10 so tests can tell
// content ids apart from the reserved CLS/SEP/PAD ids.
type fakeTokenizer struct{}

const (
	fakeCLS = 101
	fakeSEP = 102
	fakePAD = 0
)

// failMarker makes the fake tokenizer error out, standing in for a
// tokenization failure on pathological input.
const failMarker = "<boom>"

func wordID(word string) int {
	sum := 0
	for _, b := range []byte(word) {
		sum += int(b)
	}
	return 10 + sum%997
}

func (fakeTokenizer) Encode(text string) ([]int, error) {
	if strings.Contains(text, failMarker) {
		return nil, fmt.Errorf("cannot tokenize %q", text)
	}
	fields := strings.Fields(text)
	ids := make([]int, len(fields))
	for i, w := range fields {
		ids[i] = wordID(w)
	}
	return ids, nil
}

func (fakeTokenizer) ClsID() int     { return fakeCLS }
func (fakeTokenizer) SepID() int     { return fakeSEP }
func (fakeTokenizer) PadID() int     { return fakePAD }
func (fakeTokenizer) VocabSize() int { return 1007 }

// repeatWords builds a sentence with exactly n whitespace tokens.
func repeatWords(word string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = word
	}
	return strings.Join(parts, " ")
}
