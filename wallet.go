// Package veil is the client SDK for the epoch-based shielded pool. A
// Wallet bundles one seed's derived keys with the note store, the event
// scanner and the transaction builder, giving a host a single handle per
// wallet session. The pieces are exported for hosts that need to compose
// them differently.
package veil

import (
	"github.com/rs/zerolog"

	"github.com/veilprotocol/veil-go/crypto"
	"github.com/veilprotocol/veil-go/merkle"
	"github.com/veilprotocol/veil-go/prover"
	"github.com/veilprotocol/veil-go/scanner"
	"github.com/veilprotocol/veil-go/store"
	"github.com/veilprotocol/veil-go/txbuilder"
	"github.com/veilprotocol/veil-go/types"
)

// Wallet is one wallet session against one pool.
type Wallet struct {
	Keys    *crypto.Keys
	Store   *store.NoteStore
	Forest  *merkle.Forest
	Scanner *scanner.Scanner
	Builder *txbuilder.Builder
}

// Config carries the pool identity and collaborators a wallet needs.
type Config struct {
	Pool   [32]byte
	Token  [32]byte
	Params types.PoolParams
	Prover prover.Prover

	// CurrentEpoch seeds the epoch clock; the scanner keeps it current
	// from rollover events.
	CurrentEpoch uint64

	// Logger is optional; zerolog.Nop() when unset.
	Logger *zerolog.Logger
}

// NewWallet derives keys from the seed and wires up the session. With no
// prover configured, spend preparation fails with
// prover.ErrFrameworkNotIntegrated until a backend is linked.
func NewWallet(seed [32]byte, cfg Config) *Wallet {
	keys := crypto.DeriveKeys(seed)

	st := store.NewNoteStore(cfg.Params)
	st.SetNullifierKey(keys.NullifierKey)
	st.SetCurrentEpoch(cfg.CurrentEpoch)

	forest := merkle.NewForest(cfg.CurrentEpoch)

	pv := cfg.Prover
	if pv == nil {
		pv = prover.NotIntegrated{}
	}

	sc := scanner.New(keys.ViewingKey, cfg.Pool, cfg.Token, st, forest)
	b := txbuilder.New(keys, cfg.Pool, cfg.Token, cfg.Params, st, forest, pv)
	if cfg.Logger != nil {
		sc = sc.WithLogger(*cfg.Logger)
		b = b.WithLogger(*cfg.Logger)
	}

	return &Wallet{
		Keys:    keys,
		Store:   st,
		Forest:  forest,
		Scanner: sc,
		Builder: b,
	}
}

// Address returns the wallet's shielded address in base58 text form.
func (w *Wallet) Address() string {
	return crypto.EncodeAddress(w.Keys.Address)
}

// ProcessEvent feeds one raw ledger event to the scanner.
func (w *Wallet) ProcessEvent(raw []byte) {
	w.Scanner.ProcessEvent(raw)
}

// Balance returns the confirmed unspent balance.
func (w *Wallet) Balance() uint64 {
	return w.Store.Balance()
}

// BalanceInfo returns the partitioned balance summary.
func (w *Wallet) BalanceInfo() store.BalanceInfo {
	return w.Store.BalanceInfo()
}

// Recipient returns the pair another wallet needs to send to this one.
func (w *Wallet) Recipient() txbuilder.Recipient {
	return txbuilder.SelfRecipient(w.Keys)
}
