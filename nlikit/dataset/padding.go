package dataset

import (
	"fmt"
)

// Padded is a batch-first matrix of token ids together with the original
// (unpadded) length of every row. Width is the longest row; shorter rows
// are right-padded with the pad id.
type Padded struct {
	IDs     [][]int
	Lengths []int
}

// Rows returns the number of sequences in the batch.
func (p Padded) Rows() int {
	return len(p.IDs)
}

// Width returns the padded sequence length, max(Lengths).
func (p Padded) Width() int {
	if len(p.IDs) == 0 {
		return 0
	}
	return len(p.IDs[0])
}

// Row returns the unpadded ids of sequence i.
func (p Padded) Row(i int) []int {
	return p.IDs[i][:p.Lengths[i]]
}

// Pad builds a Padded batch from variable-length id sequences. The input
// sequences are copied, not aliased.
func Pad(seqs [][]int, padID int) Padded {
	lengths := make([]int, len(seqs))
	width := 0
	for i, s := range seqs {
		lengths[i] = len(s)
		if len(s) > width {
			width = len(s)
		}
	}
	ids := make([][]int, len(seqs))
	for i, s := range seqs {
		row := make([]int, width)
		copy(row, s)
		for j := len(s); j < width; j++ {
			row[j] = padID
		}
		ids[i] = row
	}
	return Padded{IDs: ids, Lengths: lengths}
}

// PadOne builds a 1-row batch from a single sequence.
func PadOne(seq []int, padID int) Padded {
	return Pad([][]int{seq}, padID)
}

// ConcatBatches combines two padded batches row-wise into the single-encoder
// layout [CLS] a_i [SEP] b_i [SEP], re-padded to the combined max length.
// Both batches must have the same number of rows.
func ConcatBatches(a, b Padded, clsID, sepID, padID int) (Padded, error) {
	if a.Rows() != b.Rows() {
		return Padded{}, fmt.Errorf("cannot concat batches of %d and %d rows", a.Rows(), b.Rows())
	}
	seqs := make([][]int, a.Rows())
	for i := range seqs {
		left, right := a.Row(i), b.Row(i)
		seq := make([]int, 0, len(left)+len(right)+3)
		seq = append(seq, clsID)
		seq = append(seq, left...)
		seq = append(seq, sepID)
		seq = append(seq, right...)
		seq = append(seq, sepID)
		seqs[i] = seq
	}
	return Pad(seqs, padID), nil
}
