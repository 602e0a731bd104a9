// Package chain provides the transaction log adapter shared by the room
// chain and every open survey chain (spec.md §4.5, component C5). It is
// ported in shape from original_source's kuzh-common/src/common.rs
// generic Transaction/Block/SignedTransaction/SignedBlock family — Go has
// no phantom-marker generics, so the ChainId type parameter there is
// replaced here by the concrete ids.ChainKind discriminator (spec.md §9
// "Generic ID-by-marker").
package chain

import (
	"lukechampine.com/blake3"

	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

// Hash is a block's content hash, chaining each block to its parent.
type Hash [32]byte

// Transaction is one author's batch of events, applied atomically
// (common.rs::Transaction).
type Transaction[Event any] struct {
	Chain  ids.ChainKind
	From   ids.IdentityID
	Events []Event
	Nonce  ids.Nonce
}

// SignedTransaction is a Transaction together with the author's Schnorr
// signature over its encoding (common.rs::SignedTransaction).
type SignedTransaction[Event any] = xcrypto.Signed[Transaction[Event]]

// Block groups the transactions validated at one height
// (common.rs::Block).
type Block[Event any] struct {
	Chain        ids.ChainKind
	Height       uint64
	ParentHash   Hash
	Transactions []SignedTransaction[Event]
}

// SignedBlock is a Block together with the host's signature over its
// encoding (common.rs::SignedBlock).
type SignedBlock[Event any] = xcrypto.Signed[Block[Event]]

// Applier applies one event from the given identity against whatever
// state it closes over, returning an opaque output (room.Output or
// survey.Output depending on instantiation), an undo closure on success,
// or a typed error. *room.State and *survey.State both satisfy this
// shape once their ApplyEvent methods are bound into a closure.
type Applier[Event any] func(from ids.IdentityID, event Event) (output any, undo func(), err error)

// ErrEmptyTransaction is returned by ApplyTransaction for a transaction
// carrying zero events.
var ErrEmptyTransaction = errEmptyTransaction{}

type errEmptyTransaction struct{}

func (errEmptyTransaction) Error() string { return "chain: transaction carries no events" }

// ApplyTransaction applies every event in tx in order, collecting an undo
// closure per successful event. The first failing event triggers replay
// of the accumulated undo closures in reverse order and the transaction
// is rejected as a whole (spec.md §4.5, §8 invariant 2).
func ApplyTransaction[Event any](apply Applier[Event], tx Transaction[Event]) ([]any, error) {
	if len(tx.Events) == 0 {
		return nil, ErrEmptyTransaction
	}
	outputs := make([]any, 0, len(tx.Events))
	undos := make([]func(), 0, len(tx.Events))
	for _, event := range tx.Events {
		output, undo, err := apply(tx.From, event)
		if err != nil {
			for i := len(undos) - 1; i >= 0; i-- {
				undos[i]()
			}
			return nil, err
		}
		outputs = append(outputs, output)
		undos = append(undos, undo)
	}
	return outputs, nil
}

// Runner owns one chain's height and parent-hash bookkeeping — one
// instantiation for the room chain, one per open survey chain (spec.md
// §5 "single-threaded per chain"). It does not itself hold the
// application state: callers bind an Applier closure over their own
// *room.State or *survey.State.
type Runner[Event any] struct {
	Chain      ids.ChainKind
	Apply      Applier[Event]
	Height     uint64
	ParentHash Hash
}

// NewRunner starts a Runner at height zero with a zero parent hash, the
// genesis condition for a freshly created chain.
func NewRunner[Event any](chainKind ids.ChainKind, apply Applier[Event]) *Runner[Event] {
	return &Runner[Event]{Chain: chainKind, Apply: apply}
}

// Submit validates and applies tx's events against the runner's bound
// state, without yet sealing a block — callers batch zero or more
// Submit calls before calling Seal (spec.md §5 "transactions are applied
// in the order they are validated").
func (r *Runner[Event]) Submit(tx Transaction[Event]) ([]any, error) {
	if tx.Chain != r.Chain {
		return nil, ErrWrongChain
	}
	return ApplyTransaction(r.Apply, tx)
}

// ErrWrongChain is returned when a transaction's Chain field does not
// match the Runner it was submitted to.
var ErrWrongChain = errWrongChain{}

type errWrongChain struct{}

func (errWrongChain) Error() string { return "chain: transaction targets a different chain" }

// Seal packages the accepted signed transactions into a block at the
// runner's current height, advances the height, and updates the parent
// hash for the next block (spec.md §4.5 "emits a block containing the
// sequence of validated transactions").
func (r *Runner[Event]) Seal(signed []SignedTransaction[Event]) Block[Event] {
	block := Block[Event]{
		Chain:        r.Chain,
		Height:       r.Height,
		ParentHash:   r.ParentHash,
		Transactions: signed,
	}
	r.Height++
	r.ParentHash = HashBlock(block)
	return block
}

// HashBlock computes the content hash used to chain block to block. It
// hashes the block's height and parent hash together with each
// transaction's signature — a stand-in for a canonical encoding, since
// the wire codec (not this package) owns the byte-exact transaction
// layout.
func HashBlock[Event any](b Block[Event]) Hash {
	h := blake3.New(32, nil)
	var heightBuf [8]byte
	putUint64(heightBuf[:], b.Height)
	h.Write(heightBuf[:])
	h.Write(b.ParentHash[:])
	for _, tx := range b.Transactions {
		h.Write(tx.Signature.C.Encode())
		h.Write(tx.Signature.A.Encode())
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func putUint64(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}
