// Package store is the on-disk log store kuzh treats as an external
// collaborator (spec.md §1 "the on-disk log store (a key/value service
// keyed by chain identifier and height)"). It is grounded on the
// teacher's internal/db/postgres.go: a pgxpool connection pool, an
// InitSchema step that loads a schema.sql file, and parameterized
// insert/query methods — generalized here from Bitcoin heuristics rows to
// opaque (chain, height) → block-bytes pairs.
package store

import (
	"context"
	"errors"

	"github.com/rawblock/kuzh/internal/ids"
)

// ErrNoSuchBlock is returned when GetBlock finds no row at the requested
// height.
var ErrNoSuchBlock = errors.New("store: no such block")

// ChainRef names one chain: the room chain (ID is always empty) or one
// survey chain (ID is the owning question's identifier, hex-encoded so it
// is a stable map/SQL key).
type ChainRef struct {
	Kind ids.ChainKind
	ID   string
}

// RoomRef is the one, singleton room chain reference.
func RoomRef() ChainRef { return ChainRef{Kind: ids.RoomChain} }

// SurveyRef names the survey chain bound to question.
func SurveyRef(question ids.QuestionID) ChainRef {
	return ChainRef{Kind: ids.SurveyChain, ID: questionKey(question)}
}

func questionKey(q ids.QuestionID) string {
	const hex = "0123456789abcdef"
	b := [4]byte{hex[(q>>12)&0xf], hex[(q>>8)&0xf], hex[(q>>4)&0xf], hex[q&0xf]}
	return string(b[:])
}

// Store persists append-only block bytes keyed by (chain, height). It
// does not interpret the bytes — the wire codec owns their layout —
// which keeps this package usable by both the room chain and every
// survey chain's Runner[Event] instantiation.
type Store interface {
	// PutBlock appends one block's encoded bytes at height. Implementations
	// MUST reject a height that is not exactly one past the chain's current
	// latest height, preserving the append-only invariant (spec.md §3
	// "Lifecycle").
	PutBlock(ctx context.Context, ref ChainRef, height uint64, data []byte) error
	// GetBlock returns the block stored at height, or ErrNoSuchBlock.
	GetBlock(ctx context.Context, ref ChainRef, height uint64) ([]byte, error)
	// LatestHeight returns the chain's highest stored height and true, or
	// false if the chain has no blocks yet.
	LatestHeight(ctx context.Context, ref ChainRef) (uint64, bool, error)
	// Close releases any resources held by the store.
	Close()
}
