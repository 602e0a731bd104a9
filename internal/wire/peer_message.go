package wire

import "github.com/rawblock/kuzh/internal/ids"

// PeerMessageCiphertextSize is the fixed ciphertext width carried by tag
// 0x03/0x83 (spec.md §6 "EncryptedPeerMessage{from, to, ciphertext[1024]}").
const PeerMessageCiphertextSize = 1024

// PeerMessage is one end-to-end encrypted message routed through the
// server without it being able to read the contents (spec.md §6).
type PeerMessage struct {
	From       ids.IdentityID
	To         ids.UserID
	Ciphertext [PeerMessageCiphertextSize]byte
}

// Encode produces PeerMessage's fixed-width wire encoding.
func (m PeerMessage) Encode() []byte {
	buf := make([]byte, 0, identityIDSize+2+PeerMessageCiphertextSize)
	buf = PutIdentityID(buf, m.From)
	var toBuf [2]byte
	PutUint16(toBuf[:], uint16(m.To))
	buf = append(buf, toBuf[:]...)
	return append(buf, m.Ciphertext[:]...)
}

// DecodePeerMessage decodes a PeerMessage produced by Encode.
func DecodePeerMessage(buf []byte) (PeerMessage, error) {
	from, rest, err := GetIdentityID(buf)
	if err != nil {
		return PeerMessage{}, err
	}
	if len(rest) < 2+PeerMessageCiphertextSize {
		return PeerMessage{}, ErrTruncated
	}
	to := ids.UserID(GetUint16(rest[:2]))
	var m PeerMessage
	m.From = from
	m.To = to
	copy(m.Ciphertext[:], rest[2:2+PeerMessageCiphertextSize])
	return m, nil
}
