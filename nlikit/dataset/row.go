package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Row is one raw record of the sentence-pair corpus.
type Row struct {
	Sentence1 string
	Sentence2 string
	Label     string
}

// Columns the corpus schema requires. Extra columns are ignored.
const (
	colSentence1 = "sentence1"
	colSentence2 = "sentence2"
	colLabel     = "label"
)

// ReadRows loads every record of a CSV corpus into memory. The header must
// contain the sentence1/sentence2/label columns; a malformed data record is
// logged and skipped rather than aborting the load.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus header from %s: %w", path, err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colSentence1, colSentence2, colLabel} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("corpus %s is missing required column %q", path, required)
		}
	}
	width := max(idx[colSentence1], idx[colSentence2], idx[colLabel]) + 1

	var rows []Row
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus record from %s: %w", path, err)
		}
		if len(record) < width {
			slog.Warn("Skipping short corpus record", "path", path, "line", line, "fields", len(record))
			continue
		}
		rows = append(rows, Row{
			Sentence1: record[idx[colSentence1]],
			Sentence2: record[idx[colSentence2]],
			Label:     strings.TrimSpace(record[idx[colLabel]]),
		})
	}
	return rows, nil
}

// missing reports whether a sentence field is absent. Pandas NaN cells
// round-trip through CSV as empty strings, so whitespace-only counts too.
func missing(sentence string) bool {
	return strings.TrimSpace(sentence) == ""
}
