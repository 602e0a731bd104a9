package chain

import (
	"errors"
	"testing"

	"github.com/rawblock/kuzh/internal/ids"
)

// counterEvent is a minimal Event type for exercising ApplyTransaction's
// atomicity independent of the room/survey state machines.
type counterEvent struct {
	delta int
	fail  bool
}

func counterApplier(counter *int) Applier[counterEvent] {
	return func(_ ids.IdentityID, e counterEvent) (any, func(), error) {
		if e.fail {
			return nil, nil, errors.New("boom")
		}
		*counter += e.delta
		prevDelta := e.delta
		return nil, func() { *counter -= prevDelta }, nil
	}
}

func TestApplyTransactionRollsBackOnFailure(t *testing.T) {
	counter := 0
	apply := counterApplier(&counter)
	tx := Transaction[counterEvent]{
		From:   ids.RoomIdentity(),
		Events: []counterEvent{{delta: 5}, {delta: 3}, {fail: true}},
	}
	if _, err := ApplyTransaction(apply, tx); err == nil {
		t.Fatal("expected the failing event to reject the transaction")
	}
	if counter != 0 {
		t.Fatalf("expected rollback to restore counter to 0, got %d", counter)
	}
}

func TestApplyTransactionCommitsOnSuccess(t *testing.T) {
	counter := 0
	apply := counterApplier(&counter)
	tx := Transaction[counterEvent]{
		From:   ids.RoomIdentity(),
		Events: []counterEvent{{delta: 5}, {delta: 3}},
	}
	if _, err := ApplyTransaction(apply, tx); err != nil {
		t.Fatalf("ApplyTransaction: %v", err)
	}
	if counter != 8 {
		t.Fatalf("expected counter=8, got %d", counter)
	}
}

func TestRunnerSealAdvancesHeightAndParentHash(t *testing.T) {
	counter := 0
	r := NewRunner(ids.RoomChain, counterApplier(&counter))
	if _, err := r.Submit(Transaction[counterEvent]{Chain: ids.RoomChain, From: ids.RoomIdentity(), Events: []counterEvent{{delta: 1}}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	block := r.Seal(nil)
	if block.Height != 0 {
		t.Fatalf("expected first sealed block at height 0, got %d", block.Height)
	}
	if r.Height != 1 {
		t.Fatalf("expected runner height to advance to 1, got %d", r.Height)
	}
	second := r.Seal(nil)
	if second.ParentHash != HashBlock(block) {
		t.Fatal("expected second block's parent hash to chain from the first")
	}
}

func TestRunnerRejectsWrongChain(t *testing.T) {
	counter := 0
	r := NewRunner(ids.RoomChain, counterApplier(&counter))
	_, err := r.Submit(Transaction[counterEvent]{Chain: ids.SurveyChain, From: ids.RoomIdentity(), Events: []counterEvent{{delta: 1}}})
	if err != ErrWrongChain {
		t.Fatalf("got %v, want ErrWrongChain", err)
	}
}
