package events

import (
	"github.com/veilprotocol/veil-go/codec"
)

// Marshal emits the wire form of each event. The SDK only consumes events
// from program logs; these writers exist for local replay fixtures and keep
// the two directions of the layout in one package.

func (e *Deposit) Marshal() []byte {
	w := codec.NewWriter()
	w.Raw(DepositV2Discriminator[:])
	w.U64(e.Epoch)
	w.Array32(e.Pool)
	w.Array32(e.Commitment)
	w.U64(uint64(e.LeafIndex))
	w.Array32(e.NewRoot)
	w.PrefixedBytes(e.EncryptedNote)
	return w.Bytes()
}

func (e *Withdraw) Marshal() []byte {
	w := codec.NewWriter()
	w.Raw(WithdrawV2Discriminator[:])
	w.U64(e.Epoch)
	w.Array32(e.Pool)
	w.Array32(e.Nullifier)
	w.U64(e.Amount)
	w.Array32(e.Recipient)
	return w.Bytes()
}

func (e *Transfer) Marshal() []byte {
	w := codec.NewWriter()
	w.Raw(TransferV2Discriminator[:])
	w.U64(e.OutputEpoch)
	w.Array32(e.Pool)
	w.Array32Vec(e.Nullifiers)
	w.U64Vec(e.InputEpochs)
	w.Array32Vec(e.Commitments)
	leaves := make([]uint64, len(e.LeafIndices))
	for i, l := range e.LeafIndices {
		leaves[i] = uint64(l)
	}
	w.U64Vec(leaves)
	w.BytesVec(e.EncryptedNotes)
	return w.Bytes()
}

func (e *Renew) Marshal() []byte {
	w := codec.NewWriter()
	w.Raw(RenewV2Discriminator[:])
	w.U64(e.SourceEpoch)
	w.U64(e.TargetEpoch)
	w.Array32(e.Pool)
	w.Array32(e.Nullifier)
	w.Array32(e.Commitment)
	w.U64(uint64(e.LeafIndex))
	w.PrefixedBytes(e.EncryptedNote)
	return w.Bytes()
}

func (e *EpochRollover) Marshal() []byte {
	w := codec.NewWriter()
	w.Raw(EpochRolloverDiscriminator[:])
	w.U64(e.PreviousEpoch)
	w.U64(e.NewEpoch)
	w.Array32(e.Pool)
	return w.Bytes()
}

func (e *EpochFinalized) Marshal() []byte {
	w := codec.NewWriter()
	w.Raw(EpochFinalizedDiscriminator[:])
	w.U64(e.Epoch)
	w.Array32(e.Pool)
	w.Array32(e.MerkleRoot)
	return w.Bytes()
}
