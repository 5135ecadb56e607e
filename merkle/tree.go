// Package merkle implements the epoch-partitioned commitment tree: a fixed
// depth-12 append-only Poseidon tree with zero-hash padding, a root history
// for proof verification against historic roots, and the
// Active → Frozen → Finalized epoch state machine.
package merkle

import (
	"errors"
	"fmt"

	"github.com/veilprotocol/veil-go/poseidon"
)

const (
	// Depth of every epoch tree.
	Depth = 12
	// MaxLeaves per epoch tree.
	MaxLeaves = 1 << Depth
)

var (
	ErrEpochNotActive = errors.New("merkle: epoch tree is not active")
	ErrTreeFull       = errors.New("merkle: epoch tree is full")
	ErrLeafNotFound   = errors.New("merkle: no leaf at index")
)

// zeroHashes[i] is the root of an empty subtree of height i:
// zeroHashes[0] = 0, zeroHashes[i] = H(zeroHashes[i-1], zeroHashes[i-1]).
// zeroHashes[Depth] is the empty-tree root and matches the on-chain
// constant.
var zeroHashes [Depth + 1][32]byte

func init() {
	for i := 1; i <= Depth; i++ {
		zeroHashes[i] = poseidon.HashPair(zeroHashes[i-1], zeroHashes[i-1])
	}
}

// ZeroHash returns the empty-subtree hash at the given level, 0..12.
func ZeroHash(level int) [32]byte {
	return zeroHashes[level]
}

// EmptyRoot returns the root of an empty epoch tree.
func EmptyRoot() [32]byte {
	return zeroHashes[Depth]
}

// State is the lifecycle stage of an epoch tree.
type State uint8

const (
	// Active trees accept inserts.
	Active State = iota
	// Frozen trees no longer accept inserts but are not finalized on-chain.
	Frozen
	// Finalized trees carry the final root published by the program.
	Finalized
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Frozen:
		return "frozen"
	case Finalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Proof is a self-describing inclusion proof: verifiers need nothing beyond
// this record.
type Proof struct {
	Leaf      [32]byte
	LeafIndex uint32
	Epoch     uint64
	Siblings  [Depth][32]byte
	Root      [32]byte
}

// Tree is one epoch's append-only commitment tree.
type Tree struct {
	epoch       uint64
	state       State
	leaves      map[uint32][32]byte
	nextIndex   uint32
	rootHistory [][32]byte
	finalRoot   *[32]byte
}

// NewTree creates an empty active tree for the given epoch.
func NewTree(epoch uint64) *Tree {
	return &Tree{
		epoch:  epoch,
		leaves: make(map[uint32][32]byte),
	}
}

// Epoch returns the epoch this tree belongs to.
func (t *Tree) Epoch() uint64 {
	return t.epoch
}

// State returns the lifecycle stage.
func (t *Tree) State() State {
	return t.state
}

// NextIndex returns the index the next insert will occupy.
func (t *Tree) NextIndex() uint32 {
	return t.nextIndex
}

// Insert appends a leaf, recomputes the root and records it in the history.
func (t *Tree) Insert(leaf [32]byte) (uint32, [32]byte, error) {
	if t.state != Active {
		return 0, [32]byte{}, ErrEpochNotActive
	}
	if t.nextIndex >= MaxLeaves {
		return 0, [32]byte{}, ErrTreeFull
	}
	idx := t.nextIndex
	t.leaves[idx] = leaf
	t.nextIndex++

	root := t.computeRoot()
	t.rootHistory = append(t.rootHistory, root)
	return idx, root, nil
}

// InsertMany appends leaves in order and recomputes the root once at the
// end, recording only the final root.
func (t *Tree) InsertMany(leaves [][32]byte) (uint32, [32]byte, error) {
	if t.state != Active {
		return 0, [32]byte{}, ErrEpochNotActive
	}
	if int(t.nextIndex)+len(leaves) > MaxLeaves {
		return 0, [32]byte{}, ErrTreeFull
	}
	first := t.nextIndex
	for _, leaf := range leaves {
		t.leaves[t.nextIndex] = leaf
		t.nextIndex++
	}
	root := t.computeRoot()
	t.rootHistory = append(t.rootHistory, root)
	return first, root, nil
}

// Root returns the final root if set, otherwise the latest history entry,
// otherwise the empty-tree root.
func (t *Tree) Root() [32]byte {
	if t.finalRoot != nil {
		return *t.finalRoot
	}
	if n := len(t.rootHistory); n > 0 {
		return t.rootHistory[n-1]
	}
	return zeroHashes[Depth]
}

// IsKnownRoot reports whether r is the final root or appears anywhere in
// the root history. Withdrawal flows verify proofs against historic roots,
// so every emitted root stays acceptable.
func (t *Tree) IsKnownRoot(r [32]byte) bool {
	if t.finalRoot != nil && *t.finalRoot == r {
		return true
	}
	for _, h := range t.rootHistory {
		if h == r {
			return true
		}
	}
	return false
}

// Leaf returns the leaf stored at index.
func (t *Tree) Leaf(index uint32) ([32]byte, error) {
	leaf, ok := t.leaves[index]
	if !ok {
		return [32]byte{}, ErrLeafNotFound
	}
	return leaf, nil
}

// Freeze stops further inserts without finalizing; used when the epoch
// rolls over before the program publishes the final root.
func (t *Tree) Freeze() {
	if t.state == Active {
		t.state = Frozen
	}
}

// SetFinalRoot records the program's final root and finalizes the tree.
func (t *Tree) SetFinalRoot(r [32]byte) {
	root := r
	t.finalRoot = &root
	t.state = Finalized
}

// Proof builds the inclusion proof for the leaf at index against the
// current root.
func (t *Tree) Proof(index uint32) (*Proof, error) {
	leaf, ok := t.leaves[index]
	if !ok {
		return nil, ErrLeafNotFound
	}

	p := &Proof{
		Leaf:      leaf,
		LeafIndex: index,
		Epoch:     t.epoch,
		Root:      t.Root(),
	}

	level := t.levelZero()
	idx := index
	for h := 0; h < Depth; h++ {
		sibling := idx ^ 1
		if int(sibling) < len(level) {
			p.Siblings[h] = level[sibling]
		} else {
			p.Siblings[h] = zeroHashes[h]
		}
		level = nextLevel(level, h)
		idx >>= 1
	}
	return p, nil
}

// VerifyProof walks the proof bottom-up, ordering each pair by the
// corresponding bit of the leaf index, and reports whether the computed
// root matches proof.Root.
func VerifyProof(p *Proof) bool {
	if p == nil {
		return false
	}
	current := p.Leaf
	for level := 0; level < Depth; level++ {
		sibling := p.Siblings[level]
		if p.LeafIndex>>level&1 == 0 {
			current = poseidon.HashPair(current, sibling)
		} else {
			current = poseidon.HashPair(sibling, current)
		}
	}
	return current == p.Root
}

// levelZero materializes the occupied prefix of the leaf level.
func (t *Tree) levelZero() [][32]byte {
	level := make([][32]byte, t.nextIndex)
	for i := uint32(0); i < t.nextIndex; i++ {
		if leaf, ok := t.leaves[i]; ok {
			level[i] = leaf
		} else {
			level[i] = zeroHashes[0]
		}
	}
	return level
}

// nextLevel pairs up nodes, padding a missing right sibling with the zero
// hash of the current level.
func nextLevel(level [][32]byte, h int) [][32]byte {
	out := make([][32]byte, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		left := level[i]
		right := zeroHashes[h]
		if i+1 < len(level) {
			right = level[i+1]
		}
		out[i/2] = poseidon.HashPair(left, right)
	}
	return out
}

// computeRoot rebuilds the tree level by level. O(N log N) per call; N is
// at most 4096 per epoch.
func (t *Tree) computeRoot() [32]byte {
	level := t.levelZero()
	for h := 0; h < Depth; h++ {
		if len(level) == 0 {
			return zeroHashes[Depth]
		}
		level = nextLevel(level, h)
	}
	return level[0]
}
