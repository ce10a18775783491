// Package reedsolomon implements systematic Reed-Solomon erasure coding over
// GF(2^16). Shards are byte slices of uniform even length, interpreted as
// sequences of big-endian 16-bit field elements.
//
// The field order admits up to 65536 total shards, at the cost of table-based
// rather than vectorized multiplication. The encoding matrix is a Vandermonde
// matrix multiplied by the inverse of its top square, so the data shards pass
// through unchanged and any DataShards rows remain invertible.
package reedsolomon

import "errors"

// ReedSolomon holds the encoding matrix for a specific distribution of data
// and parity shards. Construct with New().
type ReedSolomon struct {
	DataShards   int // Number of data shards, should not be modified.
	ParityShards int // Number of parity shards, should not be modified.
	Shards       int // Total number of shards. Calculated, and should not be modified.
	m            matrix
	parity       [][]uint16
}

// ErrInvShardNum will be returned by New, if you attempt to create an
// encoder with zero or less data shards, or a negative number of parity
// shards.
var ErrInvShardNum = errors.New("cannot create encoder with less than one data shard or negative parity shards")

// ErrMaxShardNum will be returned by New, if you attempt to create an
// encoder with more shards than the order of GF(2^16).
var ErrMaxShardNum = errors.New("cannot create encoder with more than 65536 data+parity shards")

// New creates a new encoder and initializes it to the number of data and
// parity shards given. Zero parity shards is accepted; the code then
// degenerates to the identity and Encode is a no-op.
func New(dataShards, parityShards int) (*ReedSolomon, error) {
	if dataShards <= 0 || parityShards < 0 {
		return nil, ErrInvShardNum
	}
	if dataShards+parityShards > FieldOrder {
		return nil, ErrMaxShardNum
	}

	r := &ReedSolomon{
		DataShards:   dataShards,
		ParityShards: parityShards,
		Shards:       dataShards + parityShards,
	}

	var err error
	r.m, err = buildMatrix(dataShards, r.Shards)
	if err != nil {
		return nil, err
	}

	r.parity = make([][]uint16, parityShards)
	for i := range r.parity {
		r.parity[i] = r.m[dataShards+i]
	}

	return r, nil
}

// buildMatrix creates the encoding matrix: a Vandermonde matrix multiplied
// by the inverse of its top square, so that the top of the result is the
// identity and any square subset of rows stays invertible.
func buildMatrix(dataShards, totalShards int) (matrix, error) {
	vm, err := vandermonde(totalShards, dataShards)
	if err != nil {
		return nil, err
	}

	top, err := vm.SubMatrix(0, 0, dataShards, dataShards)
	if err != nil {
		return nil, err
	}

	topInv, err := top.Invert()
	if err != nil {
		return nil, err
	}

	return vm.Multiply(topInv)
}

// Errors reported by Encode and Reconstruct on malformed shard sets.
var (
	// ErrTooFewShards is returned when too few shards are present to
	// reconstruct the missing ones.
	ErrTooFewShards = errors.New("too few shards given")
	// ErrTooManyShards is returned when more shards than the encoder's
	// total are handed in.
	ErrTooManyShards = errors.New("too many shards given")
	// ErrWrongShardCount is returned when the shard slice is shorter than
	// the encoder's total shard count.
	ErrWrongShardCount = errors.New("shard count does not match the encoder")
	// ErrShardNoData is returned when no shard holds any data.
	ErrShardNoData = errors.New("no shard data")
	// ErrShardSize is returned when present shards are not of equal length.
	ErrShardSize = errors.New("shard sizes do not match")
	// ErrShardOddSize is returned when a shard's byte length is odd and
	// cannot be viewed as 16-bit field elements.
	ErrShardOddSize = errors.New("shard size must be a multiple of 2")
)

// Encode computes the parity shards from the data shards. The input must be
// exactly Shards slices of identical even length; the first DataShards hold
// the message and the remainder are overwritten with parity.
func (r *ReedSolomon) Encode(shards [][]byte) error {
	if len(shards) != r.Shards {
		if len(shards) > r.Shards {
			return ErrTooManyShards
		}
		return ErrWrongShardCount
	}
	if err := checkShards(shards, false); err != nil {
		return err
	}

	// Zero the parity slots; coding XOR-accumulates into them.
	for _, shard := range shards[r.DataShards:] {
		clear(shard)
	}

	r.codeSomeShards(r.parity, shards[:r.DataShards], shards[r.DataShards:])
	return nil
}

// Reconstruct recreates all missing shards, data and parity alike. A missing
// shard is indicated by nil. The slice must hold exactly Shards entries; at
// least DataShards of them must be present, otherwise ErrTooFewShards is
// returned. On success every entry is non-nil.
func (r *ReedSolomon) Reconstruct(shards [][]byte) error {
	if len(shards) != r.Shards {
		if len(shards) > r.Shards {
			return ErrTooManyShards
		}
		return ErrWrongShardCount
	}
	if err := checkShards(shards, true); err != nil {
		return err
	}

	size := shardSize(shards)
	numberPresent := 0
	for _, shard := range shards {
		if shard != nil {
			numberPresent++
		}
	}
	if numberPresent == r.Shards {
		return nil
	}
	if numberPresent < r.DataShards {
		return ErrTooFewShards
	}

	// Gather the first DataShards present shards and the matrix rows that
	// generated them; inverting that square maps the survivors back onto
	// the original data.
	subShards := make([][]byte, 0, r.DataShards)
	validIndices := make([]int, 0, r.DataShards)
	for i := 0; i < r.Shards && len(subShards) < r.DataShards; i++ {
		if shards[i] != nil {
			subShards = append(subShards, shards[i])
			validIndices = append(validIndices, i)
		}
	}

	subMatrix, err := newMatrix(r.DataShards, r.DataShards)
	if err != nil {
		return err
	}
	for row, validIndex := range validIndices {
		copy(subMatrix[row], r.m[validIndex][:r.DataShards])
	}
	decodeMatrix, err := subMatrix.Invert()
	if err != nil {
		return err
	}

	// Recreate any missing data shards.
	var outputs [][]byte
	var matrixRows [][]uint16
	for i := 0; i < r.DataShards; i++ {
		if shards[i] == nil {
			shards[i] = make([]byte, size)
			outputs = append(outputs, shards[i])
			matrixRows = append(matrixRows, decodeMatrix[i])
		}
	}
	r.codeSomeShards(matrixRows, subShards, outputs)

	// With the data complete, recompute any missing parity shards.
	outputs = outputs[:0]
	matrixRows = matrixRows[:0]
	for i := r.DataShards; i < r.Shards; i++ {
		if shards[i] == nil {
			shards[i] = make([]byte, size)
			outputs = append(outputs, shards[i])
			matrixRows = append(matrixRows, r.parity[i-r.DataShards])
		}
	}
	r.codeSomeShards(matrixRows, shards[:r.DataShards], outputs)

	return nil
}

// codeSomeShards multiplies the matrix rows by the input shards, XOR
// accumulating each product into the matching output shard. Outputs must be
// zeroed by the caller.
func (r *ReedSolomon) codeSomeShards(matrixRows [][]uint16, inputs, outputs [][]byte) {
	for c, in := range inputs {
		for row, out := range outputs {
			galMulSliceXor(matrixRows[row][c], in, out)
		}
	}
}

// checkShards ensures shards are of equal, non-zero, even length. When nilok
// is set, nil entries are accepted (they mark missing shards).
func checkShards(shards [][]byte, nilok bool) error {
	size := shardSize(shards)
	if size == 0 {
		return ErrShardNoData
	}
	if size%2 != 0 {
		return ErrShardOddSize
	}
	for _, shard := range shards {
		if len(shard) != size {
			if len(shard) != 0 || !nilok {
				return ErrShardSize
			}
		}
	}
	return nil
}

// shardSize returns the size of the first non-nil shard, or 0.
func shardSize(shards [][]byte) int {
	for _, shard := range shards {
		if len(shard) != 0 {
			return len(shard)
		}
	}
	return 0
}
