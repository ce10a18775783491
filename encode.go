package quilt

import (
	"fmt"

	"github.com/OhanaFS/quilt/payload"
)

// ObtainChunks erasure-codes the block data and extrinsic into one chunk per
// validator. Any dataShards(n) = (n-1)/3 + 1 of the returned chunks suffice
// to reconstruct the payload. All chunks have the same even length, and the
// chunk at position i belongs to validator i.
func ObtainChunks(nValidators int, data payload.BlockData, extrinsic payload.Extrinsic) ([][]byte, error) {
	params, err := codeParamsFor(nValidators)
	if err != nil {
		return nil, err
	}

	encoded := payload.Encode(data, extrinsic)
	if len(encoded) == 0 {
		return nil, ErrBadPayload
	}

	shards := params.makeShards(encoded)

	// The shard set is uniform and even-length by construction, so a codec
	// failure here is a bug rather than bad input.
	enc, err := params.makeEncoder()
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}
	if err := enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("encode parity shards: %w", err)
	}

	return shards, nil
}
