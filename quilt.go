// Quilt keeps per-block data recoverable when a bounded fraction of
// validators disappear. It erasure-codes a block's payload into one chunk
// per validator such that any f+1 of n = 3f+k chunks reconstruct the
// payload, and commits to the indexed chunks in a Merkle-Patricia trie so
// each chunk can be proven against a single root hash.
package quilt

import (
	"errors"
	"fmt"

	"github.com/OhanaFS/quilt/internal/reedsolomon"
)

// MaxValidators is the largest supported validator count, bounded by the
// order of GF(2^16).
const MaxValidators = reedsolomon.FieldOrder

var (
	// ErrTooManyValidators is returned when the validator count exceeds
	// the field order.
	ErrTooManyValidators = errors.New("too many validators")
	// ErrEmptyValidators is returned when encoding for zero validators.
	ErrEmptyValidators = errors.New("cannot encode for no validators")
	// ErrWrongValidatorCount is returned when the codec disagrees with the
	// supplied validator count.
	ErrWrongValidatorCount = errors.New("wrong validator count")
	// ErrNotEnoughChunks is returned when fewer chunks than data shards
	// are present.
	ErrNotEnoughChunks = errors.New("not enough chunks to reconstruct")
	// ErrTooManyChunks is returned when more chunks than validators are
	// handed to the codec.
	ErrTooManyChunks = errors.New("too many chunks")
	// ErrNonUniformChunks is returned when the presented chunks are empty
	// or not all of the same length.
	ErrNonUniformChunks = errors.New("chunks are empty or not of uniform length")
	// ErrUnevenLength is returned when a chunk's byte length is odd, which
	// is not valid for GF(2^16) encoding.
	ErrUnevenLength = errors.New("uneven chunk length")
	// ErrBadPayload is returned on an empty payload at encode time, or
	// when the reconstructed bytes fail to deserialize.
	ErrBadPayload = errors.New("bad payload")
	// ErrInvalidBranchProof is returned when a branch proof is
	// insufficient or malformed.
	ErrInvalidBranchProof = errors.New("invalid branch proof")
	// ErrBranchOutOfBounds is returned when a branch proof verifies but
	// the index holds no chunk.
	ErrBranchOutOfBounds = errors.New("branch out of bounds")
)

// IndexOutOfBoundsError reports a chunk index at or beyond the validator
// count.
type IndexOutOfBoundsError struct {
	Index       int
	NValidators int
}

var _ error = IndexOutOfBoundsError{}

func (e IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("chunk index %d out of bounds for %d validators", e.Index, e.NValidators)
}
