package tokenizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tiny vocab with the BERT special tokens at the front, so ids are stable.
var testVocab = []string{
	"[PAD]",
	"[UNK]",
	"[CLS]",
	"[SEP]",
	"hello",
	"world",
	"man",
	"running",
}

func writeVocab(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(testVocab, "\n")+"\n"), 0o644))
	return path
}

func TestNewFromVocabSpecialIDs(t *testing.T) {
	w, err := NewFromVocab(writeVocab(t))
	require.NoError(t, err)

	assert.Equal(t, 0, w.PadID())
	assert.Equal(t, 2, w.ClsID())
	assert.Equal(t, 3, w.SepID())
	assert.Equal(t, len(testVocab), w.VocabSize())
}

func TestNewFromVocabDirectory(t *testing.T) {
	path := writeVocab(t)
	w, err := NewFromVocab(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, 2, w.ClsID())
}

func TestEncodeKnownWords(t *testing.T) {
	w, err := NewFromVocab(writeVocab(t))
	require.NoError(t, err)

	ids, err := w.Encode("hello world")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, ids)

	// No special tokens: sequence assembly happens downstream.
	for _, id := range ids {
		assert.NotEqual(t, w.ClsID(), id)
		assert.NotEqual(t, w.SepID(), id)
	}
}

func TestEncodeLowercases(t *testing.T) {
	w, err := NewFromVocab(writeVocab(t))
	require.NoError(t, err)

	lower, err := w.Encode("hello world")
	require.NoError(t, err)
	upper, err := w.Encode("Hello World")
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
}

func TestEncodeUnknownWord(t *testing.T) {
	w, err := NewFromVocab(writeVocab(t))
	require.NoError(t, err)

	ids, err := w.Encode("zzzqqq")
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, 1, ids[0])
}

func TestEncodeEmptyText(t *testing.T) {
	w, err := NewFromVocab(writeVocab(t))
	require.NoError(t, err)

	ids, err := w.Encode("   ")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestNewFromVocabMissingFile(t *testing.T) {
	_, err := NewFromVocab(filepath.Join(t.TempDir(), "vocab.txt"))
	assert.Error(t, err)
}

func TestNewFromPretrainedMissingFile(t *testing.T) {
	_, err := NewFromPretrained(filepath.Join(t.TempDir(), "tokenizer.json"))
	assert.Error(t, err)
}
