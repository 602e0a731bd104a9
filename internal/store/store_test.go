package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/rawblock/kuzh/internal/ids"
)

func TestMemoryStorePutGetRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ref := RoomRef()

	if err := s.PutBlock(ctx, ref, 0, []byte("genesis")); err != nil {
		t.Fatalf("PutBlock height 0: %v", err)
	}
	if err := s.PutBlock(ctx, ref, 1, []byte("second")); err != nil {
		t.Fatalf("PutBlock height 1: %v", err)
	}

	got, err := s.GetBlock(ctx, ref, 0)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if !bytes.Equal(got, []byte("genesis")) {
		t.Fatalf("got %q, want genesis", got)
	}

	height, ok, err := s.LatestHeight(ctx, ref)
	if err != nil || !ok || height != 1 {
		t.Fatalf("got (%d, %v, %v), want (1, true, nil)", height, ok, err)
	}
}

func TestMemoryStoreRejectsNonSequentialHeight(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ref := SurveyRef(ids.QuestionID(7))

	if err := s.PutBlock(ctx, ref, 1, []byte("skips genesis")); err != ErrNonSequentialHeight {
		t.Fatalf("got %v, want ErrNonSequentialHeight", err)
	}
	if err := s.PutBlock(ctx, ref, 0, []byte("genesis")); err != nil {
		t.Fatalf("PutBlock height 0: %v", err)
	}
	if err := s.PutBlock(ctx, ref, 5, []byte("skips ahead")); err != ErrNonSequentialHeight {
		t.Fatalf("got %v, want ErrNonSequentialHeight", err)
	}
}

func TestMemoryStoreGetMissingBlock(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetBlock(context.Background(), RoomRef(), 0); err != ErrNoSuchBlock {
		t.Fatalf("got %v, want ErrNoSuchBlock", err)
	}
}

func TestChainRefsDistinguishRoomAndSurveys(t *testing.T) {
	room := RoomRef()
	a := SurveyRef(ids.QuestionID(1))
	b := SurveyRef(ids.QuestionID(2))
	if room == a {
		t.Fatal("room ref collided with a survey ref")
	}
	if a == b {
		t.Fatal("two distinct questions produced the same survey ref")
	}
}
