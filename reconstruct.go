package quilt

import (
	"errors"
	"fmt"

	"github.com/OhanaFS/quilt/internal/reedsolomon"
	"github.com/OhanaFS/quilt/payload"
)

// Chunk pairs one validator's erasure-coded piece with its index.
type Chunk struct {
	Data  []byte
	Index int
}

// Reconstruct recovers the block data and extrinsic from a set of chunks.
// At least dataShards(n) chunks must be present. Only the first nValidators
// chunks are considered; if the same index appears more than once, the last
// occurrence wins.
func Reconstruct(nValidators int, chunks []Chunk) (payload.BlockData, payload.Extrinsic, error) {
	params, err := codeParamsFor(nValidators)
	if err != nil {
		return nil, payload.Extrinsic{}, err
	}

	if len(chunks) > nValidators {
		chunks = chunks[:nValidators]
	}

	shards := make([][]byte, nValidators)
	shardLen := -1
	for _, chunk := range chunks {
		if chunk.Index >= nValidators || chunk.Index < 0 {
			return nil, payload.Extrinsic{}, IndexOutOfBoundsError{Index: chunk.Index, NValidators: nValidators}
		}

		if shardLen == -1 {
			shardLen = len(chunk.Data)
			if shardLen%2 != 0 {
				return nil, payload.Extrinsic{}, ErrUnevenLength
			}
		}
		if len(chunk.Data) != shardLen || shardLen == 0 {
			return nil, payload.Extrinsic{}, ErrNonUniformChunks
		}

		shards[chunk.Index] = chunk.Data
	}

	enc, err := params.makeEncoder()
	if err != nil {
		return nil, payload.Extrinsic{}, fmt.Errorf("create encoder: %w", err)
	}
	if err := enc.Reconstruct(shards); err != nil {
		switch {
		case errors.Is(err, reedsolomon.ErrTooFewShards):
			return nil, payload.Extrinsic{}, ErrNotEnoughChunks
		case errors.Is(err, reedsolomon.ErrShardNoData):
			// No chunk was supplied at all, which is fewer than any
			// data shard count.
			return nil, payload.Extrinsic{}, ErrNotEnoughChunks
		case errors.Is(err, reedsolomon.ErrWrongShardCount):
			return nil, payload.Extrinsic{}, ErrWrongValidatorCount
		case errors.Is(err, reedsolomon.ErrTooManyShards):
			return nil, payload.Extrinsic{}, ErrTooManyChunks
		}
		return nil, payload.Extrinsic{}, fmt.Errorf("reconstruct shards: %w", err)
	}

	// Every slot is present now; the payload lives in the data shards.
	data, extrinsic, err := payload.Decode(newShardReader(shards[:params.dataShards]))
	if err != nil {
		return nil, payload.Extrinsic{}, ErrBadPayload
	}

	return data, extrinsic, nil
}
