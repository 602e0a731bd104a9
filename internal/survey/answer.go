package survey

import (
	"encoding/binary"

	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

// Answer is one member's sealed contribution to a survey (spec.md §3
// "Answer carries..."). SignKey/EncryptKey are ephemeral, generated once
// per answer so the ring signature cannot be linked to a member's
// standing identity.
type Answer struct {
	SignKey    xcrypto.PublicKey
	EncryptKey xcrypto.PublicKey
	Iteration  uint64
	Ciphertext [xcrypto.SealedAnswerSize]byte
	RingSig    xcrypto.RingSig
	Sig        xcrypto.Sig
}

// ringTag builds τ, the domain-separation tag binding a ring signature to
// one survey's question (spec.md §4.3 "fixed tag τ (domain + context)").
func ringTag(question ids.QuestionID) []byte {
	var buf [2 + 11]byte
	copy(buf[:], "kuzh-answer")
	binary.LittleEndian.PutUint16(buf[11:], uint16(question))
	return buf[:]
}

// ringMessage builds the message a ring signature is taken over: the
// iteration, the ordered ring of members' encryption-share keys, and the
// ciphertext
// (spec.md §4.3 ring sig message, §4.4 "the iteration number is part of
// every ring-signed message").
func ringMessage(iteration uint64, ring []xcrypto.PublicKey, ciphertext []byte) []byte {
	buf := make([]byte, 0, 8+len(ring)*xcrypto.PointSize+len(ciphertext))
	var iterBuf [8]byte
	binary.LittleEndian.PutUint64(iterBuf[:], iteration)
	buf = append(buf, iterBuf[:]...)
	for _, pk := range ring {
		buf = append(buf, pk.Encode()...)
	}
	buf = append(buf, ciphertext...)
	return buf
}

// VerifyRing checks an Answer's ring signature against the given ordered
// ring of members' encryption-share public keys.
func (a Answer) VerifyRing(question ids.QuestionID, ring []xcrypto.PublicKey) (bool, error) {
	msg := ringMessage(a.Iteration, ring, a.Ciphertext[:])
	return xcrypto.RingVerify(ringTag(question), ring, msg, a.RingSig)
}

// VerifyOuter checks the Schnorr signature the ephemeral signing key
// places over SignKey, EncryptKey and Ciphertext, binding them together;
// the ring signature is not covered (spec.md §3: "Schnorr signature by
// the ephemeral signing key").
func (a Answer) VerifyOuter() bool {
	return xcrypto.Verify(a.SignKey, a.outerMessage(), a.Sig)
}

func (a Answer) outerMessage() []byte {
	buf := make([]byte, 0, 2*xcrypto.PointSize+xcrypto.SealedAnswerSize)
	buf = append(buf, a.SignKey.Encode()...)
	buf = append(buf, a.EncryptKey.Encode()...)
	buf = append(buf, a.Ciphertext[:]...)
	return buf
}

// Decrypt opens a's ciphertext under the key derived from the survey's
// joint public key; the survey calls it once Decrypt has collected every
// member's secret share and checked their sum against that key.
func (a Answer) Decrypt(jointKey xcrypto.PublicKey) (xcrypto.ClearAnswer, error) {
	return xcrypto.OpenAnswer(jointKey, a.Ciphertext[:])
}
