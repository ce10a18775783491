// Package payload defines the canonical byte encoding of the per-block data
// kept available by the erasure layer: the opaque block body together with
// its outgoing messages.
//
// The encoding is bijective and uses little-endian u32 length prefixes
// throughout, so the availability core can treat the result as an opaque
// byte sequence and the decoder can pull exactly the bytes it needs from a
// stream.
package payload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// BlockData is the opaque body of a block.
type BlockData []byte

// Extrinsic carries the outgoing messages posted alongside a block.
type Extrinsic struct {
	OutgoingMessages [][]byte
}

var ErrDecode = errors.New("malformed payload encoding")

// Encode serializes the pair (data, extrinsic) into its canonical byte form:
// the block body and each message are length-prefixed with a little-endian
// u32, and the message list is prefixed with its count.
func Encode(data BlockData, extrinsic Extrinsic) []byte {
	size := 4 + len(data) + 4
	for _, msg := range extrinsic.OutgoingMessages {
		size += 4 + len(msg)
	}

	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(data)))
	buf = append(buf, data...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(extrinsic.OutgoingMessages)))
	for _, msg := range extrinsic.OutgoingMessages {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(msg)))
		buf = append(buf, msg...)
	}
	return buf
}

// Decode reads one encoded pair from r, consuming exactly the bytes the
// encoding occupies. A short or truncated stream is an error.
func Decode(r io.Reader) (BlockData, Extrinsic, error) {
	data, err := readBytes(r)
	if err != nil {
		return nil, Extrinsic{}, fmt.Errorf("block data: %w", err)
	}

	count, err := readUint32(r)
	if err != nil {
		return nil, Extrinsic{}, fmt.Errorf("message count: %w", err)
	}

	var extrinsic Extrinsic
	for i := uint32(0); i < count; i++ {
		msg, err := readBytes(r)
		if err != nil {
			return nil, Extrinsic{}, fmt.Errorf("message %d: %w", i, err)
		}
		extrinsic.OutgoingMessages = append(extrinsic.OutgoingMessages, msg)
	}

	return data, extrinsic, nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrDecode
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, ErrDecode
	}
	return buf, nil
}
