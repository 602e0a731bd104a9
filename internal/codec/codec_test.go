package codec

import (
	"crypto/rand"
	"testing"

	"github.com/rawblock/kuzh/internal/chain"
	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/room"
	"github.com/rawblock/kuzh/internal/survey"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

func testCryptoID(t *testing.T) room.CryptoID {
	t.Helper()
	signSK, err := xcrypto.GenerateSecretKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	encryptSK, err := xcrypto.GenerateSecretKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	encryptPK := encryptSK.Public()
	sig, err := xcrypto.Sign(rand.Reader, signSK, encryptPK.Encode())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return room.CryptoID{
		SignKey:    signSK.Public(),
		EncryptKey: xcrypto.Signed[xcrypto.PublicKey]{Value: encryptPK, Signature: sig},
	}
}

func TestRoomEventRoundTrip(t *testing.T) {
	name := "alice"
	events := []room.Event{
		{Kind: room.EventNewUser, NewIdentity: testCryptoID(t)},
		{Kind: room.EventConnected, User: ids.UserID(3)},
		{Kind: room.EventChangeRole, User: ids.UserID(3), Role: room.DutyRole(room.Moderator, false)},
		{Kind: room.EventChangeIdentityInfo, Identity: ids.UserIdentity(3), Name: &name},
		{Kind: room.EventSetAccessibility, Accessibility: room.AccessMembersOnly},
		{Kind: room.EventNewQuestion, QuestionKind: room.QuestionPoll, QuestionText: "favorite color?", PollOptions: []string{"red", "blue"}},
		{Kind: room.EventClarifyQuestion, Question: ids.QuestionID(7), Clarification: "meaning clarified"},
		{Kind: room.EventLikeQuestion, User: ids.UserID(3), Question: ids.QuestionID(7), Like: likePtr(room.LikeUp)},
		{Kind: room.EventDeleteQuestions, DeleteSpec: room.QuestionDeleteSpec{Kind: room.DeleteSpecific, IDs: []ids.QuestionID{1, 2, 3}}},
		{Kind: room.EventSetExplicitQuestionRight, Identity: ids.UserIdentity(4), Allow: boolPtr(true)},
		{Kind: room.EventOpenAnswering, Question: ids.QuestionID(7)},
		{Kind: room.EventMessage, Message: "hello room"},
	}
	for _, e := range events {
		buf := EncodeRoomEvent(e)
		got, rest, err := DecodeRoomEvent(buf)
		if err != nil {
			t.Fatalf("DecodeRoomEvent(kind=%d): %v", e.Kind, err)
		}
		if len(rest) != 0 {
			t.Fatalf("kind=%d: expected no trailing bytes, got %d", e.Kind, len(rest))
		}
		if got.Kind != e.Kind {
			t.Fatalf("kind=%d: got kind %d", e.Kind, got.Kind)
		}
	}
}

func likePtr(l room.Like) *room.Like { return &l }
func boolPtr(b bool) *bool           { return &b }

func TestSurveyEventRoundTrip(t *testing.T) {
	signSK, _ := xcrypto.GenerateSecretKey(rand.Reader)
	encryptSK, _ := xcrypto.GenerateSecretKey(rand.Reader)
	possession, _ := xcrypto.Sign(rand.Reader, signSK, encryptSK.Public().Encode())

	answer := survey.Answer{
		SignKey:    signSK.Public(),
		EncryptKey: encryptSK.Public(),
		Iteration:  2,
		RingSig:    xcrypto.RingSig{A1: xcrypto.NewPoint(), C: nil, Z: nil},
		Sig:        possession,
	}

	events := []survey.Event{
		{Kind: survey.EventCreateSurvey, Question: ids.QuestionID(9)},
		{Kind: survey.EventJoin},
		{Kind: survey.EventConnected, User: ids.UserID(5)},
		{Kind: survey.EventSetJoinability, Joinable: true},
		{Kind: survey.EventPublicPartialKey, PublicShare: encryptSK.Public(), Possession: possession},
		{Kind: survey.EventNewAnswer, Answer: answer},
		{Kind: survey.EventPrivatePartialKey, SecretShare: encryptSK},
		{Kind: survey.EventMessage, Message: "debate"},
		{Kind: survey.EventSetMessageLevel, MessageLevel: room.RegularRole(room.Messager), Identity: ids.UserIdentity(5), Allow: boolPtr(false)},
	}
	for _, e := range events {
		buf := EncodeSurveyEvent(e)
		got, rest, err := DecodeSurveyEvent(buf)
		if err != nil {
			t.Fatalf("DecodeSurveyEvent(kind=%d): %v", e.Kind, err)
		}
		if len(rest) != 0 {
			t.Fatalf("kind=%d: expected no trailing bytes, got %d", e.Kind, len(rest))
		}
		if got.Kind != e.Kind {
			t.Fatalf("kind=%d: got kind %d", e.Kind, got.Kind)
		}
	}
}

func TestRoomTransactionRoundTrip(t *testing.T) {
	tx := chain.Transaction[room.Event]{
		Chain:  ids.RoomChain,
		From:   ids.RoomIdentity(),
		Events: []room.Event{{Kind: room.EventSetAccessibility, Accessibility: room.AccessOpenToAnyone}},
		Nonce:  ids.Nonce(42),
	}
	buf := EncodeRoomTransaction(tx)
	got, err := DecodeRoomTransaction(buf)
	if err != nil {
		t.Fatalf("DecodeRoomTransaction: %v", err)
	}
	if got.Nonce != tx.Nonce || len(got.Events) != 1 || got.Events[0].Kind != room.EventSetAccessibility {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRoomBlockRoundTrip(t *testing.T) {
	tx := chain.Transaction[room.Event]{
		Chain:  ids.RoomChain,
		From:   ids.RoomIdentity(),
		Events: []room.Event{{Kind: room.EventMessage, Message: "block body"}},
		Nonce:  ids.Nonce(1),
	}
	sk, _ := xcrypto.GenerateSecretKey(rand.Reader)
	sig, _ := xcrypto.Sign(rand.Reader, sk, EncodeRoomTransaction(tx))
	block := chain.Block[room.Event]{
		Chain:  ids.RoomChain,
		Height: 3,
		Transactions: []chain.SignedTransaction[room.Event]{
			{Value: tx, Signature: sig},
		},
	}
	buf := EncodeRoomBlock(block)
	got, err := DecodeRoomBlock(buf)
	if err != nil {
		t.Fatalf("DecodeRoomBlock: %v", err)
	}
	if got.Height != 3 || len(got.Transactions) != 1 || got.Transactions[0].Value.Events[0].Message != "block body" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSignedRoomTransactionRoundTrip(t *testing.T) {
	tx := chain.Transaction[room.Event]{
		Chain:  ids.RoomChain,
		From:   ids.UserIdentity(3),
		Events: []room.Event{{Kind: room.EventMessage, Message: "signed by client"}},
		Nonce:  ids.Nonce(7),
	}
	sk, err := xcrypto.GenerateSecretKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	sig, err := xcrypto.Sign(rand.Reader, sk, EncodeRoomTransaction(tx))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	signed := chain.SignedTransaction[room.Event]{Value: tx, Signature: sig}

	buf := EncodeSignedRoomTransaction(signed)
	got, err := DecodeSignedRoomTransaction(buf)
	if err != nil {
		t.Fatalf("DecodeSignedRoomTransaction: %v", err)
	}
	if got.Value.Nonce != tx.Nonce || len(got.Value.Events) != 1 || got.Value.Events[0].Message != "signed by client" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !xcrypto.Verify(sk.Public(), EncodeRoomTransaction(got.Value), got.Signature) {
		t.Fatal("decoded signature does not verify against the original signing key")
	}
}

func TestSignedSurveyTransactionRoundTrip(t *testing.T) {
	tx := chain.Transaction[survey.Event]{
		Chain:  ids.SurveyChain,
		From:   ids.UserIdentity(5),
		Events: []survey.Event{{Kind: survey.EventJoin, Question: ids.QuestionID(9)}},
		Nonce:  ids.Nonce(1),
	}
	sk, err := xcrypto.GenerateSecretKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	sig, err := xcrypto.Sign(rand.Reader, sk, EncodeSurveyTransaction(tx))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	signed := chain.SignedTransaction[survey.Event]{Value: tx, Signature: sig}

	buf := EncodeSignedSurveyTransaction(signed)
	got, err := DecodeSignedSurveyTransaction(buf)
	if err != nil {
		t.Fatalf("DecodeSignedSurveyTransaction: %v", err)
	}
	if got.Value.Nonce != tx.Nonce || got.Value.Events[0].Question != ids.QuestionID(9) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !xcrypto.Verify(sk.Public(), EncodeSurveyTransaction(got.Value), got.Signature) {
		t.Fatal("decoded signature does not verify against the original signing key")
	}
}
