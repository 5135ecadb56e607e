package merkle

// Forest tracks one tree per observed epoch and the pool's epoch clock.
// Withdrawals prove against the tree of the note's own epoch, so older
// trees stay available after rollover.
type Forest struct {
	trees   map[uint64]*Tree
	current uint64
}

// NewForest starts the clock at the given epoch with an active tree for it.
func NewForest(currentEpoch uint64) *Forest {
	f := &Forest{
		trees:   make(map[uint64]*Tree),
		current: currentEpoch,
	}
	f.Ensure(currentEpoch)
	return f
}

// CurrentEpoch returns the epoch the clock points at.
func (f *Forest) CurrentEpoch() uint64 {
	return f.current
}

// Tree returns the tree for an epoch, if one was ever observed.
func (f *Forest) Tree(epoch uint64) (*Tree, bool) {
	t, ok := f.trees[epoch]
	return t, ok
}

// Ensure returns the tree for an epoch, creating it if needed.
func (f *Forest) Ensure(epoch uint64) *Tree {
	if t, ok := f.trees[epoch]; ok {
		return t
	}
	t := NewTree(epoch)
	f.trees[epoch] = t
	return t
}

// Advance moves the clock to newEpoch, freezing the tree it leaves behind.
// Moving backwards is a no-op.
func (f *Forest) Advance(newEpoch uint64) {
	if newEpoch <= f.current {
		return
	}
	if t, ok := f.trees[f.current]; ok {
		t.Freeze()
	}
	f.current = newEpoch
	f.Ensure(newEpoch)
}

// Finalize records the program's final root for an epoch.
func (f *Forest) Finalize(epoch uint64, root [32]byte) {
	f.Ensure(epoch).SetFinalRoot(root)
}
