package xcrypto

// Signed pairs a value with a Schnorr signature attesting to it, used for
// identity material such as a CryptoID's encryption key (which is signed
// by the identity's own signing key to prove joint ownership of both).
type Signed[T any] struct {
	Value     T
	Signature Sig
}
