package quilt

import "github.com/OhanaFS/quilt/internal/reedsolomon"

// codeParams is the shard distribution derived from a validator count: with
// up to f = (n-1)/3 faulty or unavailable validators, f+1 honest chunks must
// suffice to reconstruct, so the code uses f+1 data shards and n-(f+1)
// parity shards.
type codeParams struct {
	dataShards   int
	parityShards int
}

func codeParamsFor(nValidators int) (codeParams, error) {
	if nValidators > MaxValidators {
		return codeParams{}, ErrTooManyValidators
	}
	if nValidators == 0 {
		return codeParams{}, ErrEmptyValidators
	}

	nFaulty := (nValidators - 1) / 3
	return codeParams{
		dataShards:   nFaulty + 1,
		parityShards: nValidators - (nFaulty + 1),
	}, nil
}

func (p codeParams) totalShards() int {
	return p.dataShards + p.parityShards
}

// shardCapacity is the number of payload bytes carried per data shard:
// the ceiling of baseLen over the data shard count.
func (p codeParams) shardCapacity(baseLen int) int {
	capacity := baseLen / p.dataShards
	if baseLen%p.dataShards != 0 {
		capacity++
	}
	return capacity
}

// shardLen is the full byte length of every shard: the per-shard capacity
// plus the 4-byte length prefix, rounded up to an even number so the shard
// divides into 16-bit field elements.
func (p codeParams) shardLen(baseLen int) int {
	length := p.shardCapacity(baseLen) + lenPrefixSize
	if length%2 != 0 {
		length++
	}
	return length
}

func (p codeParams) makeEncoder() (*reedsolomon.ReedSolomon, error) {
	return reedsolomon.New(p.dataShards, p.parityShards)
}
