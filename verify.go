package quilt

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/trie"
)

// BranchHash verifies a Merkle branch against the commitment root and
// returns the chunk hash committed at the given index. Callers authenticate
// a received chunk by comparing the result with ChunkHash of its bytes.
//
// The proof nodes are loaded into a fresh in-memory store keyed by their own
// hash; a proof that is insufficient to reach the value, or whose value is
// not a 32-byte hash, fails with ErrInvalidBranchProof. A proof that walks
// to completion without finding a value fails with ErrBranchOutOfBounds.
func BranchHash(root common.Hash, proof [][]byte, index int) (common.Hash, error) {
	nodes := memorydb.New()
	for _, node := range proof {
		if err := nodes.Put(crypto.Keccak256(node), node); err != nil {
			return common.Hash{}, fmt.Errorf("store proof node: %w", err)
		}
	}

	value, err := trie.VerifyProof(root, chunkKey(index), nodes)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrInvalidBranchProof, err)
	}
	if value == nil {
		return common.Hash{}, ErrBranchOutOfBounds
	}
	if len(value) != common.HashLength {
		return common.Hash{}, ErrInvalidBranchProof
	}

	return common.BytesToHash(value), nil
}
