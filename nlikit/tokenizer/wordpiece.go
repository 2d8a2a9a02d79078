package tokenizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Common BERT special token ids, used when the vocabulary does not carry
// the special tokens (older vocab dumps).
const (
	defaultClsID = 101
	defaultSepID = 102
	defaultPadID = 0
)

// WordPiece wraps sugarme/tokenizer with a BERT-style WordPiece setup.
type WordPiece struct {
	t     *tk.Tokenizer
	clsID int
	sepID int
	padID int
}

// NewFromPretrained loads a tokenizer from a HuggingFace tokenizer.json file.
func NewFromPretrained(path string) (*WordPiece, error) {
	t, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer from %s: %w", path, err)
	}
	w := &WordPiece{t: t}
	w.resolveSpecialIDs()
	return w, nil
}

// NewFromVocab builds a BERT WordPiece tokenizer from a vocab.txt file.
// path may name the vocab file itself or a directory containing vocab.txt.
func NewFromVocab(path string) (*WordPiece, error) {
	vocabFile := path
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		vocabFile = filepath.Join(path, "vocab.txt")
	}
	wp, err := wordpiece.NewWordPieceFromFile(vocabFile, "[UNK]")
	if err != nil {
		return nil, fmt.Errorf("failed to load vocab from %s: %w", vocabFile, err)
	}

	t := tk.NewTokenizer(wp)

	// Basic normalizer and pre-tokenizer similar to BERT
	t.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	w := &WordPiece{t: t}
	w.resolveSpecialIDs()
	return w, nil
}

// resolveSpecialIDs looks the reserved tokens up in the loaded vocabulary,
// falling back to the standard BERT ids when absent.
func (w *WordPiece) resolveSpecialIDs() {
	w.clsID = w.idOrDefault("[CLS]", defaultClsID)
	w.sepID = w.idOrDefault("[SEP]", defaultSepID)
	w.padID = w.idOrDefault("[PAD]", defaultPadID)
}

func (w *WordPiece) idOrDefault(token string, def int) int {
	id, ok := w.t.TokenToId(token)
	if !ok {
		return def
	}
	return int(id)
}

// Encode tokenizes one sentence to bare subword ids, without special tokens.
func (w *WordPiece) Encode(text string) ([]int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	enc, err := w.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(text)), false)
	if err != nil {
		return nil, err
	}
	ids := enc.GetIds()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out, nil
}

func (w *WordPiece) ClsID() int { return w.clsID }
func (w *WordPiece) SepID() int { return w.sepID }
func (w *WordPiece) PadID() int { return w.padID }

// VocabSize returns the size of the loaded vocabulary, without added tokens.
func (w *WordPiece) VocabSize() int {
	return int(w.t.GetVocabSize(false))
}
