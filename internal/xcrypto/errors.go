package xcrypto

import "errors"

// Cryptographic errors (spec.md §7, "Cryptographic errors" family):
// recoverable, with the failing proof material retained by the caller
// rather than discarded.
var (
	// ErrNonCanonicalPoint is returned when decoding a 32-byte group
	// element that is not the canonical encoding of a Ristretto point.
	// Decoding never falls back to a zero element — spec.md §4.1.
	ErrNonCanonicalPoint = errors.New("xcrypto: non-canonical point encoding")

	// ErrNonCanonicalScalar is returned when decoding a scalar that is not
	// the canonical representative modulo the group order.
	ErrNonCanonicalScalar = errors.New("xcrypto: non-canonical scalar encoding")

	// ErrLengthMismatch is returned when a ring signature's z/c vectors do
	// not match the ring size, or the ring itself is empty.
	ErrLengthMismatch = errors.New("xcrypto: length mismatch")

	// ErrBadSignature names a failed Schnorr verification; Verify itself
	// reports failure as false and does not return it.
	ErrBadSignature = errors.New("xcrypto: bad signature")

	// ErrBadRingSignature names a failed ring signature verification;
	// RingVerify itself reports failure as false and does not return it.
	ErrBadRingSignature = errors.New("xcrypto: bad ring signature")

	// ErrSignerIndexOutOfRange is returned by RingSign when the claimed
	// signer index does not address the ring.
	ErrSignerIndexOutOfRange = errors.New("xcrypto: signer index out of range")

	// ErrKeyMismatch is returned by RingSign when the secret key does not
	// correspond to the public key at the claimed index.
	ErrKeyMismatch = errors.New("xcrypto: secret key does not match claimed ring slot")

	// ErrSealedAnswerSize is returned when a ciphertext is not the fixed
	// 300-byte answer payload size required by spec.md §6.
	ErrSealedAnswerSize = errors.New("xcrypto: sealed answer is not 300 bytes")

	// ErrClearAnswerTooLarge is returned when an Open-question answer
	// string does not fit in the fixed plaintext budget.
	ErrClearAnswerTooLarge = errors.New("xcrypto: clear answer too large to pad")

	// ErrSealedAnswerAuth is returned when AEAD authentication fails while
	// opening a sealed answer, meaning either the joint key is wrong or
	// the ciphertext was tampered with.
	ErrSealedAnswerAuth = errors.New("xcrypto: sealed answer failed authentication")
)
