package quilt

import (
	"encoding/binary"
	"io"
)

// lenPrefixSize is the size of the little-endian u32 length written at the
// front of every data shard. The codec works on 16-bit words but the payload
// is a byte slice, so each data shard records how many of its bytes are
// payload rather than zero padding.
const lenPrefixSize = 4

// makeShards allocates one equal-length buffer per shard and frames the
// payload into the data shards: a u32 length prefix followed by that shard's
// slice of the payload, zero-padded to the shard length. Parity shards stay
// zeroed for the encoder to fill.
func (p codeParams) makeShards(encoded []byte) [][]byte {
	capacity := p.shardCapacity(len(encoded))
	shardLen := p.shardLen(len(encoded))

	shards := make([][]byte, p.totalShards())
	for i := range shards {
		shards[i] = make([]byte, shardLen)
	}

	for i := 0; i < p.dataShards; i++ {
		start := min(i*capacity, len(encoded))
		end := min((i+1)*capacity, len(encoded))
		piece := encoded[start:end]

		binary.LittleEndian.PutUint32(shards[i][:lenPrefixSize], uint32(len(piece)))
		copy(shards[i][lenPrefixSize:], piece)
	}

	return shards
}

// shardReader streams the useful payload region of each data shard in index
// order, so the payload decoder can pull bytes without an intermediate
// concatenation buffer.
type shardReader struct {
	shards [][]byte // framed data shards, in index order
	cur    []byte   // unread payload bytes of the current shard
}

var _ io.Reader = (*shardReader)(nil)

func newShardReader(dataShards [][]byte) *shardReader {
	return &shardReader{shards: dataShards}
}

func (r *shardReader) Read(p []byte) (int, error) {
	read := 0
	for read < len(p) {
		if len(r.cur) == 0 {
			if len(r.shards) == 0 {
				break
			}
			shard := r.shards[0]
			r.shards = r.shards[1:]

			if len(shard) < lenPrefixSize {
				return read, ErrBadPayload
			}
			dataLen := int(binary.LittleEndian.Uint32(shard[:lenPrefixSize]))
			if dataLen > len(shard)-lenPrefixSize {
				return read, ErrBadPayload
			}
			r.cur = shard[lenPrefixSize : lenPrefixSize+dataLen]
			continue
		}

		n := copy(p[read:], r.cur)
		r.cur = r.cur[n:]
		read += n
	}

	if read == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return read, nil
}
