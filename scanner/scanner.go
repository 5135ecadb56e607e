// Package scanner recovers a wallet's notes from the pool's event stream.
// It holds only the viewing key: every output ciphertext gets a trial
// decryption, and a failed open just means the note belongs to someone
// else. Spends are routed to the note store by nullifier, and the epoch
// clock is driven by rollover events.
package scanner

import (
	"github.com/rs/zerolog"

	"github.com/veilprotocol/veil-go/crypto"
	"github.com/veilprotocol/veil-go/events"
	"github.com/veilprotocol/veil-go/merkle"
	"github.com/veilprotocol/veil-go/store"
	"github.com/veilprotocol/veil-go/types"
)

// Scanner ingests raw event bytes for one pool and one wallet.
type Scanner struct {
	viewingKey [32]byte
	pool       [32]byte
	token      [32]byte
	store      *store.NoteStore
	forest     *merkle.Forest
	log        zerolog.Logger
}

// New creates a scanner feeding the given store and forest. The store and
// forest are shared handles; the caller serializes scanning against
// transaction preparation.
func New(viewingKey, pool, token [32]byte, st *store.NoteStore, forest *merkle.Forest) *Scanner {
	return &Scanner{
		viewingKey: viewingKey,
		pool:       pool,
		token:      token,
		store:      st,
		forest:     forest,
		log:        zerolog.Nop(),
	}
}

// WithLogger returns the scanner with structured logging enabled.
func (s *Scanner) WithLogger(log zerolog.Logger) *Scanner {
	s.log = log
	return s
}

// ProcessEvent decodes one event record and routes it. Unknown
// discriminators, truncated payloads, foreign pools and undecryptable
// ciphertexts are all skipped silently; none of these are errors for a
// scanner.
func (s *Scanner) ProcessEvent(raw []byte) {
	ev, ok := events.Parse(raw)
	if !ok {
		s.log.Trace().Int("len", len(raw)).Msg("skipping unparseable event")
		return
	}
	s.processParsed(ev)
}

// ProcessEvents ingests a batch in arrival order.
func (s *Scanner) ProcessEvents(raw [][]byte) {
	for _, r := range raw {
		s.ProcessEvent(r)
	}
}

func (s *Scanner) processParsed(ev events.Event) {
	switch e := ev.(type) {
	case *events.Deposit:
		if e.Pool != s.pool {
			return
		}
		s.handleOutput(e.Epoch, e.LeafIndex, e.Commitment, e.NewRoot, e.EncryptedNote)

	case *events.Withdraw:
		if e.Pool != s.pool {
			return
		}
		epoch := e.Epoch
		s.markSpent(e.Nullifier, &epoch)

	case *events.Transfer:
		if e.Pool != s.pool {
			return
		}
		for i, nf := range e.Nullifiers {
			var hint *uint64
			if i < len(e.InputEpochs) {
				epoch := e.InputEpochs[i]
				hint = &epoch
			}
			s.markSpent(nf, hint)
		}
		for i, commitment := range e.Commitments {
			var leaf uint32
			if i < len(e.LeafIndices) {
				leaf = e.LeafIndices[i]
			}
			var enc []byte
			if i < len(e.EncryptedNotes) {
				enc = e.EncryptedNotes[i]
			}
			s.handleOutput(e.OutputEpoch, leaf, commitment, [32]byte{}, enc)
		}

	case *events.Renew:
		if e.Pool != s.pool {
			return
		}
		sourceEpoch := e.SourceEpoch
		s.markSpent(e.Nullifier, &sourceEpoch)
		s.handleOutput(e.TargetEpoch, e.LeafIndex, e.Commitment, [32]byte{}, e.EncryptedNote)

	case *events.EpochRollover:
		if e.Pool != s.pool {
			return
		}
		s.log.Debug().
			Uint64("previous", e.PreviousEpoch).
			Uint64("new", e.NewEpoch).
			Msg("epoch rollover")
		s.forest.Advance(e.NewEpoch)
		s.store.SetCurrentEpoch(e.NewEpoch)

	case *events.EpochFinalized:
		if e.Pool != s.pool {
			return
		}
		s.forest.Finalize(e.Epoch, e.MerkleRoot)
	}
}

// handleOutput mirrors a committed leaf into the local epoch tree and trial
// decrypts the ciphertext with the viewing key.
func (s *Scanner) handleOutput(epoch uint64, leafIndex uint32, commitment, newRoot [32]byte, encrypted []byte) {
	tree := s.forest.Ensure(epoch)
	if idx, root, err := tree.Insert(commitment); err != nil {
		s.log.Warn().Err(err).Uint64("epoch", epoch).Msg("leaf not mirrored")
	} else {
		if idx != leafIndex {
			s.log.Warn().
				Uint32("local", idx).
				Uint32("event", leafIndex).
				Msg("leaf index out of sync; events missed")
		}
		if newRoot != ([32]byte{}) && root != newRoot {
			s.log.Warn().Uint64("epoch", epoch).Msg("local root diverges from event root")
		}
	}

	if len(encrypted) == 0 {
		return
	}
	plaintext, err := crypto.OpenNote(s.viewingKey, encrypted)
	if err != nil {
		// Not ours. The common case.
		return
	}
	note, err := s.tryRecoverNote(plaintext, commitment)
	if err != nil {
		s.log.Debug().Err(err).Msg("discarding undecodable note ciphertext")
		return
	}
	if note == nil {
		return
	}
	note.Confirm(epoch, leafIndex)
	s.store.Add(note)
	s.log.Info().
		Uint64("epoch", epoch).
		Uint32("leaf_index", leafIndex).
		Uint64("value", note.Value).
		Msg("recovered note")
}

// tryRecoverNote deserializes a decrypted payload and cross-checks the
// commitment the event carries; a mismatch means a malformed or forged
// ciphertext and the result is dropped.
func (s *Scanner) tryRecoverNote(plaintext []byte, commitment [32]byte) (*types.Note, error) {
	note, err := types.DeserializeNote(plaintext)
	if err != nil {
		return nil, err
	}
	if note.Commitment != commitment {
		s.log.Debug().Msg("note commitment mismatch; dropping")
		return nil, nil
	}
	if note.Token != s.token {
		return nil, nil
	}
	return note, nil
}

func (s *Scanner) markSpent(nullifier [32]byte, epochHint *uint64) {
	if s.store.MarkSpentByNullifier(nullifier, epochHint) {
		s.log.Info().Hex("nullifier", nullifier[:]).Msg("note spent")
	}
}
