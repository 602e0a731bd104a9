package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/rawblock/kuzh/internal/chain"
	"github.com/rawblock/kuzh/internal/codec"
	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/room"
	"github.com/rawblock/kuzh/internal/store"
	"github.com/rawblock/kuzh/internal/survey"
	"github.com/rawblock/kuzh/internal/transport"
	"github.com/rawblock/kuzh/internal/wire"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

// ErrBadSignature is returned when a client-submitted transaction's
// attached signature does not verify against its claimed sender's
// registered signing key (spec.md §6: clients sign their own
// transactions, the server never signs on a client's behalf).
var ErrBadSignature = errors.New("server: transaction signature does not verify")

// verifySignedTransaction checks that raw (the encoded Transaction body)
// was signed by signKey.
func verifySignedTransaction(signKey xcrypto.PublicKey, raw []byte, sig xcrypto.Sig) error {
	if !xcrypto.Verify(signKey, raw, sig) {
		return ErrBadSignature
	}
	return nil
}

// server owns the room chain, every open survey chain, and the
// connections to storage and transport. It is the Dispatcher that
// transport.Hub hands decoded client frames to (spec.md §5 "single
// writer per chain").
type server struct {
	mu sync.Mutex

	roomState  *room.State
	roomRunner *chain.Runner[room.Event]

	surveys map[ids.QuestionID]*surveyChain

	store store.Store
	hub   *transport.Hub
}

type surveyChain struct {
	state  *survey.State
	runner *chain.Runner[survey.Event]
}

func newServer(owner room.IdentityInfo, st store.Store, hub *transport.Hub) *server {
	roomState := room.NewState(owner)
	s := &server{
		roomState: roomState,
		surveys:   make(map[ids.QuestionID]*surveyChain),
		store:     st,
		hub:       hub,
	}
	s.roomRunner = chain.NewRunner(ids.RoomChain, s.applyRoomEvent)
	return s
}

func (s *server) applyRoomEvent(from ids.IdentityID, e room.Event) (any, func(), error) {
	return s.roomState.ApplyEvent(from, e)
}

// HandleRoomTransaction decodes a client-signed room-chain transaction
// (wire tag 0x01), verifies it was signed by from's own registered
// signing key, applies it, and seals, persists, and broadcasts the
// resulting block. The server never signs on a client's behalf — the
// block carries the client's own signature (spec.md §6).
func (s *server) HandleRoomTransaction(from ids.IdentityID, payload []byte) error {
	signed, err := codec.DecodeSignedRoomTransaction(payload)
	if err != nil {
		return fmt.Errorf("server: decode room transaction: %w", err)
	}
	signed.Value.From = from
	tx := signed.Value

	s.mu.Lock()
	defer s.mu.Unlock()

	signKey, err := s.roomState.SignKeyOf(from)
	if err != nil {
		return fmt.Errorf("server: resolve sender %v: %w", from, err)
	}
	if err := verifySignedTransaction(signKey, codec.EncodeRoomTransaction(tx), signed.Signature); err != nil {
		return err
	}

	if _, err := s.roomRunner.Submit(tx); err != nil {
		return fmt.Errorf("server: apply room transaction: %w", err)
	}
	block := s.roomRunner.Seal([]chain.SignedTransaction[room.Event]{signed})
	blockBytes := codec.EncodeRoomBlock(block)

	if s.store != nil {
		if err := s.store.PutBlock(context.Background(), store.RoomRef(), block.Height, blockBytes); err != nil {
			log.Printf("server: persist room block: %v", err)
		}
	}
	if err := s.hub.BroadcastBlock(wire.TagRoomBlock, blockBytes); err != nil {
		log.Printf("server: broadcast room block: %v", err)
	}

	s.maybeOpenSurvey(from)
	return nil
}

// maybeOpenSurvey spins up a survey chain the first time the room's
// Answering question changes to a question with no existing chain
// (spec.md §4.4 "a survey chain is created once its question opens").
func (s *server) maybeOpenSurvey(from ids.IdentityID) {
	if s.roomState.Answering == nil {
		return
	}
	question := *s.roomState.Answering
	if _, exists := s.surveys[question]; exists {
		return
	}
	surveyState, err := survey.CreateSurvey(s.roomState, from, question)
	if err != nil {
		log.Printf("server: create survey for question %d: %v", question, err)
		return
	}
	sc := &surveyChain{state: surveyState}
	sc.runner = chain.NewRunner(ids.SurveyChain, func(from ids.IdentityID, e survey.Event) (any, func(), error) {
		return surveyState.ApplyEvent(from, e)
	})
	s.surveys[question] = sc
}

// HandleSurveyTransaction decodes a client-signed survey-chain
// transaction (wire tag 0x02), verifies it was signed by from's own
// registered signing key, applies it, and seals, persists, and
// broadcasts the resulting block against the chain its first event's
// Question names (every event carries Question so a transaction
// self-identifies its target chain, spec.md §6).
func (s *server) HandleSurveyTransaction(from ids.IdentityID, payload []byte) error {
	signed, err := codec.DecodeSignedSurveyTransaction(payload)
	if err != nil {
		return fmt.Errorf("server: decode survey transaction: %w", err)
	}
	signed.Value.From = from
	tx := signed.Value
	if len(tx.Events) == 0 {
		return chain.ErrEmptyTransaction
	}
	question := tx.Events[0].Question

	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.surveys[question]
	if !ok {
		return fmt.Errorf("server: no open survey for question %d", question)
	}

	// Answer pseudonyms are ephemeral and carry no registered CryptoID;
	// their transactions are signed by the ephemeral signing key embedded
	// in the answer itself, whose authority comes from the ring signature
	// checked during event application, not from the room's registry.
	var signKey xcrypto.PublicKey
	if from.Kind == ids.IdentityAnswer {
		if tx.Events[0].Kind != survey.EventNewAnswer {
			return fmt.Errorf("server: answer pseudonym %v may only submit NewAnswer", from)
		}
		signKey = tx.Events[0].Answer.SignKey
	} else {
		signKey, err = s.roomState.SignKeyOf(from)
		if err != nil {
			return fmt.Errorf("server: resolve sender %v: %w", from, err)
		}
	}
	if err := verifySignedTransaction(signKey, codec.EncodeSurveyTransaction(tx), signed.Signature); err != nil {
		return err
	}

	if _, err := sc.runner.Submit(tx); err != nil {
		return fmt.Errorf("server: apply survey transaction: %w", err)
	}
	block := sc.runner.Seal([]chain.SignedTransaction[survey.Event]{signed})
	blockBytes := codec.EncodeSurveyBlock(block)

	ref := store.SurveyRef(question)
	if s.store != nil {
		if err := s.store.PutBlock(context.Background(), ref, block.Height, blockBytes); err != nil {
			log.Printf("server: persist survey block: %v", err)
		}
	}
	if err := s.hub.BroadcastBlock(wire.TagSurveyBlock, blockBytes); err != nil {
		log.Printf("server: broadcast survey block: %v", err)
	}
	return nil
}

// HandlePeerMessage relays an end-to-end encrypted message without
// inspecting its contents (spec.md §6).
func (s *server) HandlePeerMessage(msg wire.PeerMessage) error {
	return s.hub.RelayPeerMessage(msg)
}

// answeringSnapshot reports the question currently accepting answers, or
// nil if none is open. Used by the admin status endpoint.
func (s *server) answeringSnapshot() *ids.QuestionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomState.Answering
}
