// Package instructions encodes the data payloads of the pool program's
// eight operations and the account lists of four of them (deposit,
// withdraw, transfer, renew). Every payload is
// discriminator(8) ‖ little-endian args with u32 length prefixes, matching
// the program's ABI bit-for-bit.
package instructions

import (
	"github.com/veilprotocol/veil-go/codec"
)

// Instruction discriminators, fixed constants published by the program.
var (
	InitializePoolV2Discriminator         = [8]byte{0xcf, 0x2d, 0x57, 0xf2, 0x1b, 0x3f, 0xcc, 0x43}
	InitializeEpochLeafChunkDiscriminator = [8]byte{0x80, 0xb5, 0xe0, 0xa7, 0xbd, 0xc3, 0xa1, 0xd3}
	DepositV2Discriminator                = [8]byte{0x6d, 0x4b, 0x45, 0x99, 0xac, 0xda, 0x92, 0x13}
	WithdrawV2Discriminator               = [8]byte{0xf2, 0x50, 0xa3, 0x00, 0xc4, 0xdd, 0xc2, 0xc2}
	TransferV2Discriminator               = [8]byte{0x77, 0x28, 0x06, 0xeb, 0xea, 0xdd, 0xf8, 0x31}
	RenewNoteDiscriminator                = [8]byte{0xcf, 0xfe, 0x07, 0x63, 0xcc, 0x44, 0xa3, 0xab}
	RolloverEpochDiscriminator            = [8]byte{0xb2, 0x0c, 0x6a, 0xe9, 0x7d, 0x37, 0x3a, 0x6f}
	FinalizeEpochDiscriminator            = [8]byte{0x9f, 0x5d, 0x75, 0xd9, 0x3f, 0x2c, 0xf9, 0x4c}
)

// WithdrawPublicInputs is the public-input block of a withdrawV2
// instruction, serialized in declaration order.
type WithdrawPublicInputs struct {
	Root      [32]byte
	Nullifier [32]byte
	Amount    uint64
	Recipient [32]byte
	Epoch     uint64
	TxAnchor  [32]byte
	PoolID    [32]byte
}

func (p *WithdrawPublicInputs) encode(w *codec.Writer) {
	w.Array32(p.Root)
	w.Array32(p.Nullifier)
	w.U64(p.Amount)
	w.Array32(p.Recipient)
	w.U64(p.Epoch)
	w.Array32(p.TxAnchor)
	w.Array32(p.PoolID)
}

// TransferPublicInputs is the public-input block of a transferV2
// instruction.
type TransferPublicInputs struct {
	Root              [32]byte
	Nullifiers        [2][32]byte
	OutputCommitments [2][32]byte
	OutputEpoch       uint64
	TxAnchor          [32]byte
	PoolID            [32]byte
}

func (p *TransferPublicInputs) encode(w *codec.Writer) {
	w.Array32(p.Root)
	w.Array32(p.Nullifiers[0])
	w.Array32(p.Nullifiers[1])
	w.Array32(p.OutputCommitments[0])
	w.Array32(p.OutputCommitments[1])
	w.U64(p.OutputEpoch)
	w.Array32(p.TxAnchor)
	w.Array32(p.PoolID)
}

// RenewPublicInputs is the public-input block of a renewNote instruction.
type RenewPublicInputs struct {
	OldRoot       [32]byte
	OldNullifier  [32]byte
	NewCommitment [32]byte
	SourceEpoch   uint64
	TargetEpoch   uint64
	TxAnchor      [32]byte
	PoolID        [32]byte
}

func (p *RenewPublicInputs) encode(w *codec.Writer) {
	w.Array32(p.OldRoot)
	w.Array32(p.OldNullifier)
	w.Array32(p.NewCommitment)
	w.U64(p.SourceEpoch)
	w.U64(p.TargetEpoch)
	w.Array32(p.TxAnchor)
	w.Array32(p.PoolID)
}

// EncodeInitializePoolV2 encodes the pool initialization args.
func EncodeInitializePoolV2(epochDurationSlots, expirySlots, finalizationDelaySlots uint64) []byte {
	w := codec.NewWriter()
	w.Raw(InitializePoolV2Discriminator[:])
	w.U64(epochDurationSlots)
	w.U64(expirySlots)
	w.U64(finalizationDelaySlots)
	return w.Bytes()
}

// EncodeInitializeEpochLeafChunk encodes the leaf-chunk initialization args.
func EncodeInitializeEpochLeafChunk(epoch uint64, chunkIndex uint32) []byte {
	w := codec.NewWriter()
	w.Raw(InitializeEpochLeafChunkDiscriminator[:])
	w.U64(epoch)
	w.U32(chunkIndex)
	return w.Bytes()
}

// EncodeDepositV2 encodes a transparent deposit.
func EncodeDepositV2(commitment [32]byte, amount uint64, encryptedNote []byte) []byte {
	w := codec.NewWriter()
	w.Raw(DepositV2Discriminator[:])
	w.Array32(commitment)
	w.U64(amount)
	w.PrefixedBytes(encryptedNote)
	return w.Bytes()
}

// EncodeWithdrawV2 encodes a proof-carrying withdrawal.
func EncodeWithdrawV2(proof []byte, pub WithdrawPublicInputs) []byte {
	w := codec.NewWriter()
	w.Raw(WithdrawV2Discriminator[:])
	w.PrefixedBytes(proof)
	pub.encode(w)
	return w.Bytes()
}

// EncodeTransferV2 encodes a 2-in/2-out shielded transfer.
func EncodeTransferV2(proof []byte, pub TransferPublicInputs, encryptedNotes [][]byte) []byte {
	w := codec.NewWriter()
	w.Raw(TransferV2Discriminator[:])
	w.PrefixedBytes(proof)
	pub.encode(w)
	w.BytesVec(encryptedNotes)
	return w.Bytes()
}

// EncodeRenewNote encodes a note renewal.
func EncodeRenewNote(proof []byte, pub RenewPublicInputs, encryptedNote []byte) []byte {
	w := codec.NewWriter()
	w.Raw(RenewNoteDiscriminator[:])
	w.PrefixedBytes(proof)
	pub.encode(w)
	w.PrefixedBytes(encryptedNote)
	return w.Bytes()
}

// EncodeRolloverEpoch encodes the argument-free epoch rollover.
func EncodeRolloverEpoch() []byte {
	out := make([]byte, 8)
	copy(out, RolloverEpochDiscriminator[:])
	return out
}

// EncodeFinalizeEpoch encodes the epoch finalization args.
func EncodeFinalizeEpoch(epoch uint64) []byte {
	w := codec.NewWriter()
	w.Raw(FinalizeEpochDiscriminator[:])
	w.U64(epoch)
	return w.Bytes()
}
