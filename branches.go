package quilt

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"
)

// chunkKey is the trie key for a chunk index: its little-endian u32
// encoding. Every implementation must use the same key encoding or roots
// computed by different validators will not match.
func chunkKey(index int) []byte {
	var key [4]byte
	binary.LittleEndian.PutUint32(key[:], uint32(index))
	return key[:]
}

// ChunkHash is the 32-byte commitment to a single chunk's bytes. The same
// keccak-256 primitive addresses the trie's nodes.
func ChunkHash(chunk []byte) common.Hash {
	return crypto.Keccak256Hash(chunk)
}

// Branches is a Merkle commitment over an indexed chunk list: a trie mapping
// each chunk's index to its hash. It yields one inclusion proof per chunk,
// to be handed to the validator holding that chunk.
type Branches struct {
	tr     *trie.Trie
	root   common.Hash
	chunks [][]byte
}

// MakeBranches builds the commitment trie over the given chunks. The chunk
// slices are retained, not copied; they must not be mutated while the
// Branches value is in use.
func MakeBranches(chunks [][]byte) *Branches {
	tr := trie.NewEmpty(triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil))
	for i, chunk := range chunks {
		tr.MustUpdate(chunkKey(i), ChunkHash(chunk).Bytes())
	}

	return &Branches{
		tr:     tr,
		root:   tr.Hash(),
		chunks: chunks,
	}
}

// Root returns the trie root committing to all chunks.
func (b *Branches) Root() common.Hash {
	return b.root
}

// Len returns the number of chunks committed to.
func (b *Branches) Len() int {
	return len(b.chunks)
}

// Chunk returns the chunk bytes at the given index.
func (b *Branches) Chunk(index int) []byte {
	return b.chunks[index]
}

// Proof returns the Merkle branch for the chunk at the given index: the
// ordered list of trie nodes on the lookup path from the root to the
// chunk's hash. The proof is sufficient input for BranchHash.
func (b *Branches) Proof(index int) ([][]byte, error) {
	if index < 0 || index >= len(b.chunks) {
		return nil, IndexOutOfBoundsError{Index: index, NValidators: len(b.chunks)}
	}

	var proof proofList
	if err := b.tr.Prove(chunkKey(index), &proof); err != nil {
		return nil, fmt.Errorf("prove chunk %d: %w", index, err)
	}
	return proof, nil
}

// proofList collects raw trie nodes in the order the prover emits them,
// root first.
type proofList [][]byte

var _ ethdb.KeyValueWriter = (*proofList)(nil)

func (n *proofList) Put(key []byte, value []byte) error {
	*n = append(*n, value)
	return nil
}

func (n *proofList) Delete(key []byte) error {
	return errors.New("not supported")
}
