// Package events decodes the records the pool program emits in its logs.
// Every record starts with a fixed 8-byte discriminator; the payload is
// little-endian with u32 length prefixes. Unknown discriminators are
// skipped and truncated payloads yield no event, never a panic: event
// streams are adversarial input.
package events

import (
	"github.com/veilprotocol/veil-go/codec"
)

// DiscriminatorLen is the length of the event tag.
const DiscriminatorLen = 8

// Event discriminators, fixed constants published by the program
// (SHA-256("event:<Name>")[0..8], treated as opaque).
var (
	DepositV2Discriminator      = [8]byte{0xa4, 0xd6, 0x2a, 0x2f, 0x25, 0xf5, 0x58, 0x6a}
	WithdrawV2Discriminator     = [8]byte{0xe7, 0xe7, 0x67, 0x4f, 0xbb, 0x93, 0x72, 0xb4}
	TransferV2Discriminator     = [8]byte{0x5c, 0x93, 0xfe, 0x4c, 0x44, 0xc9, 0xa0, 0x80}
	RenewV2Discriminator        = [8]byte{0x97, 0x7e, 0x4e, 0x25, 0x5c, 0x7d, 0x9e, 0xa7}
	EpochRolloverDiscriminator  = [8]byte{0x12, 0xb3, 0x4a, 0x7f, 0x81, 0x5c, 0x2e, 0x9f}
	EpochFinalizedDiscriminator = [8]byte{0x3f, 0xa9, 0x8c, 0x12, 0x67, 0x4b, 0xd1, 0xe3}
)

// Event is one decoded program event.
type Event interface {
	isEvent()
}

// Deposit announces a new commitment added transparently to the pool.
type Deposit struct {
	Epoch         uint64
	Pool          [32]byte
	Commitment    [32]byte
	LeafIndex     uint32
	NewRoot       [32]byte
	EncryptedNote []byte
}

// Withdraw announces a nullifier spent to a transparent recipient.
type Withdraw struct {
	Epoch     uint64
	Pool      [32]byte
	Nullifier [32]byte
	Amount    uint64
	Recipient [32]byte
}

// Transfer announces a 2-in/2-out shielded transfer.
type Transfer struct {
	OutputEpoch    uint64
	Pool           [32]byte
	Nullifiers     [][32]byte
	InputEpochs    []uint64
	Commitments    [][32]byte
	LeafIndices    []uint32
	EncryptedNotes [][]byte
}

// Renew announces a note moved from an old epoch into the target epoch.
type Renew struct {
	SourceEpoch   uint64
	TargetEpoch   uint64
	Pool          [32]byte
	Nullifier     [32]byte
	Commitment    [32]byte
	LeafIndex     uint32
	EncryptedNote []byte
}

// EpochRollover announces the epoch clock advancing.
type EpochRollover struct {
	PreviousEpoch uint64
	NewEpoch      uint64
	Pool          [32]byte
}

// EpochFinalized announces the final Merkle root of a closed epoch.
type EpochFinalized struct {
	Epoch      uint64
	Pool       [32]byte
	MerkleRoot [32]byte
}

func (*Deposit) isEvent()        {}
func (*Withdraw) isEvent()       {}
func (*Transfer) isEvent()       {}
func (*Renew) isEvent()          {}
func (*EpochRollover) isEvent()  {}
func (*EpochFinalized) isEvent() {}

// Parse decodes a single event record. It returns (nil, false) for unknown
// discriminators and truncated payloads.
func Parse(data []byte) (Event, bool) {
	if len(data) < DiscriminatorLen {
		return nil, false
	}
	var disc [8]byte
	copy(disc[:], data[:DiscriminatorLen])
	r := codec.NewReader(data[DiscriminatorLen:])

	switch disc {
	case DepositV2Discriminator:
		return parseDeposit(r)
	case WithdrawV2Discriminator:
		return parseWithdraw(r)
	case TransferV2Discriminator:
		return parseTransfer(r)
	case RenewV2Discriminator:
		return parseRenew(r)
	case EpochRolloverDiscriminator:
		return parseRollover(r)
	case EpochFinalizedDiscriminator:
		return parseFinalized(r)
	default:
		return nil, false
	}
}

func parseDeposit(r *codec.Reader) (Event, bool) {
	var (
		ev  Deposit
		err error
	)
	if ev.Epoch, err = r.U64(); err != nil {
		return nil, false
	}
	if ev.Pool, err = r.Array32(); err != nil {
		return nil, false
	}
	if ev.Commitment, err = r.Array32(); err != nil {
		return nil, false
	}
	// leafIndex is a u64 on the wire even though it fits in u32.
	leaf, err := r.U64()
	if err != nil {
		return nil, false
	}
	ev.LeafIndex = uint32(leaf)
	if ev.NewRoot, err = r.Array32(); err != nil {
		return nil, false
	}
	if ev.EncryptedNote, err = r.PrefixedBytes(); err != nil {
		return nil, false
	}
	return &ev, true
}

func parseWithdraw(r *codec.Reader) (Event, bool) {
	var (
		ev  Withdraw
		err error
	)
	if ev.Epoch, err = r.U64(); err != nil {
		return nil, false
	}
	if ev.Pool, err = r.Array32(); err != nil {
		return nil, false
	}
	if ev.Nullifier, err = r.Array32(); err != nil {
		return nil, false
	}
	if ev.Amount, err = r.U64(); err != nil {
		return nil, false
	}
	if ev.Recipient, err = r.Array32(); err != nil {
		return nil, false
	}
	return &ev, true
}

func parseTransfer(r *codec.Reader) (Event, bool) {
	var (
		ev  Transfer
		err error
	)
	if ev.OutputEpoch, err = r.U64(); err != nil {
		return nil, false
	}
	if ev.Pool, err = r.Array32(); err != nil {
		return nil, false
	}
	if ev.Nullifiers, err = r.Array32Vec(); err != nil {
		return nil, false
	}
	if ev.InputEpochs, err = r.U64Vec(); err != nil {
		return nil, false
	}
	if ev.Commitments, err = r.Array32Vec(); err != nil {
		return nil, false
	}
	leaves, err := r.U64Vec()
	if err != nil {
		return nil, false
	}
	ev.LeafIndices = make([]uint32, len(leaves))
	for i, l := range leaves {
		ev.LeafIndices[i] = uint32(l)
	}
	if ev.EncryptedNotes, err = r.BytesVec(); err != nil {
		return nil, false
	}
	return &ev, true
}

func parseRenew(r *codec.Reader) (Event, bool) {
	var (
		ev  Renew
		err error
	)
	if ev.SourceEpoch, err = r.U64(); err != nil {
		return nil, false
	}
	if ev.TargetEpoch, err = r.U64(); err != nil {
		return nil, false
	}
	if ev.Pool, err = r.Array32(); err != nil {
		return nil, false
	}
	if ev.Nullifier, err = r.Array32(); err != nil {
		return nil, false
	}
	if ev.Commitment, err = r.Array32(); err != nil {
		return nil, false
	}
	leaf, err := r.U64()
	if err != nil {
		return nil, false
	}
	ev.LeafIndex = uint32(leaf)
	if ev.EncryptedNote, err = r.PrefixedBytes(); err != nil {
		return nil, false
	}
	return &ev, true
}

func parseRollover(r *codec.Reader) (Event, bool) {
	var (
		ev  EpochRollover
		err error
	)
	if ev.PreviousEpoch, err = r.U64(); err != nil {
		return nil, false
	}
	if ev.NewEpoch, err = r.U64(); err != nil {
		return nil, false
	}
	if ev.Pool, err = r.Array32(); err != nil {
		return nil, false
	}
	return &ev, true
}

func parseFinalized(r *codec.Reader) (Event, bool) {
	var (
		ev  EpochFinalized
		err error
	)
	if ev.Epoch, err = r.U64(); err != nil {
		return nil, false
	}
	if ev.Pool, err = r.Array32(); err != nil {
		return nil, false
	}
	if ev.MerkleRoot, err = r.Array32(); err != nil {
		return nil, false
	}
	return &ev, true
}
