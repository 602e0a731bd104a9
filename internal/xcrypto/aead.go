package xcrypto

import (
	"golang.org/x/crypto/chacha20poly1305"
	"lukechampine.com/blake3"
)

// SealedAnswerSize is the fixed wire size of an encrypted answer,
// ciphertext-plus-tag, regardless of answer kind (spec.md §3/§6).
const SealedAnswerSize = 300

// aeadKeyContext is the blake3 DeriveKey context string for answer
// encryption. Bumping this string is how a future incompatible encoding
// would be versioned without touching the wire format itself.
const aeadKeyContext = "kuzh answer aead v1"

// clearAnswerSize is the AEAD plaintext size: SealedAnswerSize minus the
// Poly1305 tag.
const clearAnswerSize = SealedAnswerSize - chacha20poly1305.Overhead

// clearAnswerHeaderSize is the discriminant byte plus the one-byte length
// prefix used by the Open-question encoding.
const clearAnswerHeaderSize = 2

// maxOpenAnswerLen is the largest Open-question string an answer can
// carry. The padded plaintext budget would allow
// clearAnswerSize-clearAnswerHeaderSize bytes, but the one-byte length
// prefix at buf[1] caps the representable length at 255 — a longer
// string would wrap mod 256 on encode and decode to silent garbage.
const maxOpenAnswerLen = 255

const (
	discriminantOpen   = 0
	discriminantClosed = 1
	discriminantPoll   = 2
)

// zeroNonce is the fixed 12-byte ChaCha20-Poly1305 nonce. Reuse across
// seals is safe here because SealAnswer always derives a fresh key from
// the survey's current joint key, and the joint key changes every survey
// iteration (spec.md §4.4) — so a given key is used to seal at most one
// answer per member per iteration.
var zeroNonce [chacha20poly1305.NonceSize]byte

// ClearAnswer is the decoded plaintext of a member's answer to a
// question, before AEAD sealing (spec.md §3: "one of a string/bool/poll
// byte").
type ClearAnswer struct {
	Open   *string
	Closed *bool
	Poll   *byte
}

func answerAEADKey(jointKey PublicKey) [32]byte {
	var key [32]byte
	blake3.DeriveKey(key[:], aeadKeyContext, jointKey.Encode())
	return key
}

// encodeClearAnswer packs a into the fixed clearAnswerSize plaintext
// layout: a 1-byte discriminant, a 1-byte length (Open only), and the
// payload, zero-padded to clearAnswerSize.
func encodeClearAnswer(a ClearAnswer) ([]byte, error) {
	buf := make([]byte, clearAnswerSize)
	switch {
	case a.Open != nil:
		payload := []byte(*a.Open)
		if len(payload) > maxOpenAnswerLen {
			return nil, ErrClearAnswerTooLarge
		}
		buf[0] = discriminantOpen
		buf[1] = byte(len(payload))
		copy(buf[clearAnswerHeaderSize:], payload)
	case a.Closed != nil:
		buf[0] = discriminantClosed
		if *a.Closed {
			buf[1] = 1
		}
	case a.Poll != nil:
		buf[0] = discriminantPoll
		buf[1] = *a.Poll
	default:
		return nil, ErrClearAnswerTooLarge
	}
	return buf, nil
}

func decodeClearAnswer(buf []byte) (ClearAnswer, error) {
	if len(buf) != clearAnswerSize {
		return ClearAnswer{}, ErrSealedAnswerSize
	}
	switch buf[0] {
	case discriminantOpen:
		n := int(buf[1])
		if n > maxOpenAnswerLen {
			return ClearAnswer{}, ErrClearAnswerTooLarge
		}
		s := string(buf[clearAnswerHeaderSize : clearAnswerHeaderSize+n])
		return ClearAnswer{Open: &s}, nil
	case discriminantClosed:
		b := buf[1] != 0
		return ClearAnswer{Closed: &b}, nil
	case discriminantPoll:
		p := buf[1]
		return ClearAnswer{Poll: &p}, nil
	default:
		return ClearAnswer{}, ErrClearAnswerTooLarge
	}
}

// SealAnswer encrypts a clear answer under the survey's current joint
// key, producing a fixed SealedAnswerSize ciphertext independent of
// answer kind or length (spec.md §4.2/§6).
func SealAnswer(jointKey PublicKey, answer ClearAnswer) ([]byte, error) {
	plain, err := encodeClearAnswer(answer)
	if err != nil {
		return nil, err
	}
	key := answerAEADKey(jointKey)
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	sealed := aead.Seal(nil, zeroNonce[:], plain, nil)
	if len(sealed) != SealedAnswerSize {
		return nil, ErrSealedAnswerSize
	}
	return sealed, nil
}

// OpenAnswer decrypts a ciphertext produced by SealAnswer, once the
// survey's joint secret has been reconstructed (spec.md §4.4, Decrypt
// phase).
func OpenAnswer(jointKey PublicKey, sealed []byte) (ClearAnswer, error) {
	if len(sealed) != SealedAnswerSize {
		return ClearAnswer{}, ErrSealedAnswerSize
	}
	key := answerAEADKey(jointKey)
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return ClearAnswer{}, err
	}
	plain, err := aead.Open(nil, zeroNonce[:], sealed, nil)
	if err != nil {
		return ClearAnswer{}, ErrSealedAnswerAuth
	}
	return decodeClearAnswer(plain)
}
