package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// instanceRecord is the storable form of an Instance. Only the unpadded
// token rows are kept; 1-row padded batches are rebuilt on load.
type instanceRecord struct {
	Kind   string  `json:"kind"`
	S1     []int   `json:"s1,omitempty"`
	S2     []int   `json:"s2,omitempty"`
	Tokens []int   `json:"tokens,omitempty"`
	Y      float64 `json:"y"`
}

type setPayload struct {
	Weights   map[string]int   `json:"weights"`
	Instances []instanceRecord `json:"instances"`
}

const (
	kindPair   = "pair"
	kindConcat = "concat"
)

// encodeInstances serializes an instance set plus its label tally.
func encodeInstances(instances []Instance, weights *Weights) ([]byte, error) {
	records := make([]instanceRecord, len(instances))
	for i, inst := range instances {
		switch v := inst.(type) {
		case Pair:
			records[i] = instanceRecord{Kind: kindPair, S1: v.Premise.Row(0), S2: v.Hypothesis.Row(0), Y: v.Y}
		case Concat:
			records[i] = instanceRecord{Kind: kindConcat, Tokens: v.Tokens.Row(0), Y: v.Y}
		default:
			return nil, fmt.Errorf("cannot encode instance of type %T", inst)
		}
	}
	return json.Marshal(setPayload{Weights: weights.Counts(), Instances: records})
}

// decodeInstances rebuilds an instance set from its stored form.
func decodeInstances(data []byte, enc Encoding, padID int) ([]Instance, *Weights, error) {
	var payload setPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, fmt.Errorf("corrupt instance payload: %w", err)
	}
	weights := NewWeights(enc)
	for label, count := range payload.Weights {
		weights.set(label, count)
	}
	instances := make([]Instance, len(payload.Instances))
	for i, rec := range payload.Instances {
		switch rec.Kind {
		case kindPair:
			instances[i] = Pair{
				Premise:    PadOne(rec.S1, padID),
				Hypothesis: PadOne(rec.S2, padID),
				Y:          rec.Y,
			}
		case kindConcat:
			instances[i] = Concat{Tokens: PadOne(rec.Tokens, padID), Y: rec.Y}
		default:
			return nil, nil, fmt.Errorf("corrupt instance payload: unknown kind %q", rec.Kind)
		}
	}
	return instances, weights, nil
}

// fingerprint identifies one (corpus file, construction settings) pairing.
// It covers the file's size and mtime so a changed corpus misses the cache.
func (c SplitConfig) fingerprint() (string, error) {
	fi, err := os.Stat(c.Path)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%s|%d|%d|%d|%d",
		c.Path, fi.Size(), fi.ModTime().UnixNano(),
		c.Mode, c.MaxLength, c.Samples, c.Ordering, c.Seed)
	return hex.EncodeToString(h.Sum(nil)), nil
}
