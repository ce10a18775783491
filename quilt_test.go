package quilt_test

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/OhanaFS/quilt"
	"github.com/OhanaFS/quilt/payload"
	"github.com/OhanaFS/quilt/util/debug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripBlockData(t *testing.T) {
	assert := assert.New(t)

	blockData := make(payload.BlockData, 255)
	for i := range blockData {
		blockData[i] = byte(i)
	}
	extrinsic := payload.Extrinsic{}

	chunks, err := quilt.ObtainChunks(10, blockData, extrinsic)
	require.NoError(t, err)
	assert.Len(chunks, 10)

	debug.Hexdump(chunks[0], "chunk0")

	// Any 4 chunks should work.
	data, ex, err := quilt.Reconstruct(10, []quilt.Chunk{
		{Data: chunks[1], Index: 1},
		{Data: chunks[4], Index: 4},
		{Data: chunks[6], Index: 6},
		{Data: chunks[9], Index: 9},
	})
	require.NoError(t, err)
	assert.Equal(blockData, data)
	assert.Equal(extrinsic, ex)
}

func TestRoundTripSubsets(t *testing.T) {
	assert := assert.New(t)

	blockData := make(payload.BlockData, 3922)
	_, err := rand.Read(blockData)
	require.NoError(t, err)
	extrinsic := payload.Extrinsic{
		OutgoingMessages: [][]byte{
			[]byte("upward message"),
			{},
			{0xff, 0x00, 0x01},
		},
	}

	chunks, err := quilt.ObtainChunks(10, blockData, extrinsic)
	require.NoError(t, err)

	subsets := [][]int{
		{0, 1, 2, 3},
		{6, 7, 8, 9},
		{0, 3, 5, 9},
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	}
	for _, subset := range subsets {
		var present []quilt.Chunk
		for _, i := range subset {
			present = append(present, quilt.Chunk{Data: chunks[i], Index: i})
		}

		data, ex, err := quilt.Reconstruct(10, present)
		assert.NoError(err)
		assert.Equal(blockData, data)
		assert.Equal(extrinsic, ex)
	}
}

func TestChunksUniformLength(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []int{1, 2, 4, 10, 97} {
		for _, size := range []int{1, 2, 255, 256, 1000} {
			blockData := make(payload.BlockData, size)
			_, err := rand.Read(blockData)
			require.NoError(t, err)

			chunks, err := quilt.ObtainChunks(n, blockData, payload.Extrinsic{})
			require.NoError(t, err)
			assert.Len(chunks, n)

			chunkLen := len(chunks[0])
			assert.Zero(chunkLen % 2)
			for _, chunk := range chunks {
				assert.Equal(chunkLen, len(chunk))
			}
		}
	}
}

func TestSingleValidator(t *testing.T) {
	assert := assert.New(t)

	blockData := payload.BlockData("no parity at all")
	chunks, err := quilt.ObtainChunks(1, blockData, payload.Extrinsic{})
	require.NoError(t, err)
	assert.Len(chunks, 1)

	data, _, err := quilt.Reconstruct(1, []quilt.Chunk{{Data: chunks[0], Index: 0}})
	require.NoError(t, err)
	assert.Equal(blockData, data)
}

func TestEmptyValidators(t *testing.T) {
	assert := assert.New(t)

	_, err := quilt.ObtainChunks(0, payload.BlockData("data"), payload.Extrinsic{})
	assert.ErrorIs(err, quilt.ErrEmptyValidators)

	_, _, err = quilt.Reconstruct(0, nil)
	assert.ErrorIs(err, quilt.ErrEmptyValidators)
}

func TestTooManyValidators(t *testing.T) {
	_, err := quilt.ObtainChunks(quilt.MaxValidators+1, payload.BlockData("data"), payload.Extrinsic{})
	assert.ErrorIs(t, err, quilt.ErrTooManyValidators)
}

func TestNotEnoughChunks(t *testing.T) {
	assert := assert.New(t)

	chunks, err := quilt.ObtainChunks(4, payload.BlockData("some block data"), payload.Extrinsic{})
	require.NoError(t, err)

	// data_shards(4) = 2, so one chunk cannot reconstruct.
	_, _, err = quilt.Reconstruct(4, []quilt.Chunk{{Data: chunks[0], Index: 0}})
	assert.ErrorIs(err, quilt.ErrNotEnoughChunks)

	// Supplying no chunks at all is also too few.
	_, _, err = quilt.Reconstruct(4, nil)
	assert.ErrorIs(err, quilt.ErrNotEnoughChunks)

	_, _, err = quilt.Reconstruct(10, []quilt.Chunk{})
	assert.ErrorIs(err, quilt.ErrNotEnoughChunks)
}

func TestChunkIndexOutOfBounds(t *testing.T) {
	assert := assert.New(t)

	chunks, err := quilt.ObtainChunks(10, payload.BlockData("some block data"), payload.Extrinsic{})
	require.NoError(t, err)

	_, _, err = quilt.Reconstruct(10, []quilt.Chunk{{Data: chunks[0], Index: 10}})
	var oob quilt.IndexOutOfBoundsError
	assert.ErrorAs(err, &oob)
	assert.Equal(10, oob.Index)
	assert.Equal(10, oob.NValidators)
}

func TestNonUniformChunks(t *testing.T) {
	assert := assert.New(t)

	chunks, err := quilt.ObtainChunks(10, payload.BlockData("some block data"), payload.Extrinsic{})
	require.NoError(t, err)

	// A truncated chunk alongside full ones disagrees with the established
	// length.
	_, _, err = quilt.Reconstruct(10, []quilt.Chunk{
		{Data: chunks[1], Index: 1},
		{Data: chunks[4], Index: 4},
		{Data: chunks[6], Index: 6},
		{Data: chunks[0][:len(chunks[0])-1], Index: 0},
	})
	assert.ErrorIs(err, quilt.ErrNonUniformChunks)

	// Zero-length chunks are rejected too.
	_, _, err = quilt.Reconstruct(10, []quilt.Chunk{{Data: []byte{}, Index: 0}})
	assert.ErrorIs(err, quilt.ErrNonUniformChunks)
}

func TestUnevenLength(t *testing.T) {
	assert := assert.New(t)

	chunks, err := quilt.ObtainChunks(10, payload.BlockData("some block data"), payload.Extrinsic{})
	require.NoError(t, err)

	// The first chunk establishes the length; an odd one is rejected
	// outright.
	_, _, err = quilt.Reconstruct(10, []quilt.Chunk{
		{Data: chunks[0][:len(chunks[0])-1], Index: 0},
		{Data: chunks[1], Index: 1},
	})
	assert.ErrorIs(err, quilt.ErrUnevenLength)
}

func TestDuplicateIndexLastWins(t *testing.T) {
	assert := assert.New(t)

	blockData := payload.BlockData("duplicate chunk indices")
	chunks, err := quilt.ObtainChunks(10, blockData, payload.Extrinsic{})
	require.NoError(t, err)

	// A stale buffer for index 1 is overwritten by the later, correct one.
	garbage := make([]byte, len(chunks[1]))
	data, _, err := quilt.Reconstruct(10, []quilt.Chunk{
		{Data: garbage, Index: 1},
		{Data: chunks[1], Index: 1},
		{Data: chunks[2], Index: 2},
		{Data: chunks[3], Index: 3},
		{Data: chunks[4], Index: 4},
		{Data: chunks[5], Index: 5},
	})
	require.NoError(t, err)
	assert.Equal(blockData, data)
}

func TestCorruptedPayloadRejected(t *testing.T) {
	assert := assert.New(t)

	chunks, err := quilt.ObtainChunks(4, payload.BlockData("some block data"), payload.Extrinsic{})
	require.NoError(t, err)

	// Claim more payload bytes than the shard carries.
	bad := make([]byte, len(chunks[0]))
	for i := range bad {
		bad[i] = 0xff
	}
	_, _, err = quilt.Reconstruct(4, []quilt.Chunk{
		{Data: bad, Index: 0},
		{Data: bad, Index: 1},
	})
	assert.ErrorIs(err, quilt.ErrBadPayload)
}

func TestDeterministicChunks(t *testing.T) {
	assert := assert.New(t)

	blockData := make(payload.BlockData, 512)
	_, err := rand.Read(blockData)
	require.NoError(t, err)

	first, err := quilt.ObtainChunks(7, blockData, payload.Extrinsic{})
	require.NoError(t, err)
	second, err := quilt.ObtainChunks(7, blockData, payload.Extrinsic{})
	require.NoError(t, err)
	assert.Equal(first, second)
}

func TestExcessChunksIgnored(t *testing.T) {
	assert := assert.New(t)

	blockData := payload.BlockData("more chunks than validators")
	chunks, err := quilt.ObtainChunks(4, blockData, payload.Extrinsic{})
	require.NoError(t, err)

	// Only the first n inputs are consumed; the malformed trailing entry is
	// never looked at.
	supplied := []quilt.Chunk{
		{Data: chunks[0], Index: 0},
		{Data: chunks[1], Index: 1},
		{Data: chunks[2], Index: 2},
		{Data: chunks[3], Index: 3},
		{Data: []byte{0x01}, Index: 99},
	}
	data, _, err := quilt.Reconstruct(4, supplied)
	require.NoError(t, err)
	assert.Equal(blockData, data)
}

func TestReconstructMatchesErrorKinds(t *testing.T) {
	// All reconstruction failures surface as package-level error kinds.
	_, _, err := quilt.Reconstruct(4, []quilt.Chunk{{Data: []byte{1, 2, 3}, Index: 0}})
	assert.True(t, errors.Is(err, quilt.ErrUnevenLength))
}
