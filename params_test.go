package quilt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldOrderIsRightSize(t *testing.T) {
	assert.Equal(t, 65536, MaxValidators)
}

func TestCodeParams(t *testing.T) {
	assert := assert.New(t)

	_, err := codeParamsFor(0)
	assert.ErrorIs(err, ErrEmptyValidators)

	_, err = codeParamsFor(MaxValidators + 1)
	assert.ErrorIs(err, ErrTooManyValidators)

	for n := 1; n <= 1000; n++ {
		params, err := codeParamsFor(n)
		assert.NoError(err)
		assert.Equal(n, params.totalShards())
		assert.GreaterOrEqual(params.dataShards, 1)
		assert.GreaterOrEqual(params.parityShards, 0)
		assert.LessOrEqual(params.dataShards, (n+2)/3+1)
	}

	params, err := codeParamsFor(MaxValidators)
	assert.NoError(err)
	assert.Equal(MaxValidators, params.totalShards())
}

func TestShardLen(t *testing.T) {
	assert := assert.New(t)

	params, err := codeParamsFor(10)
	assert.NoError(err)
	assert.Equal(4, params.dataShards)

	// Exact multiple of the data shard count: plain division, no off-by-one.
	assert.Equal(3, params.shardCapacity(12))
	assert.Equal(8, params.shardLen(12))

	// One byte over: capacity rounds up.
	assert.Equal(4, params.shardCapacity(13))
	assert.Equal(8, params.shardLen(13))

	// Odd capacity: shard length rounds up to even.
	assert.Equal(5, params.shardCapacity(17))
	assert.Equal(10, params.shardLen(17))

	for baseLen := 1; baseLen < 256; baseLen++ {
		assert.Zero(params.shardLen(baseLen)%2, "shard length must be even")
		assert.GreaterOrEqual(params.shardCapacity(baseLen)*params.dataShards, baseLen)
	}
}
