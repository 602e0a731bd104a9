package xcrypto

import "io"

// SecretKey is a signing/decryption scalar. The zero value is invalid.
type SecretKey struct {
	sk Scalar
}

// PublicKey is the corresponding group element, sk*B.
type PublicKey struct {
	pk Point
}

// GenerateSecretKey draws a fresh secret key from rng.
func GenerateSecretKey(rng io.Reader) (SecretKey, error) {
	sk, err := RandomScalar(rng)
	if err != nil {
		return SecretKey{}, err
	}
	return SecretKey{sk: sk}, nil
}

// Public derives the public key for sk.
func (sk SecretKey) Public() PublicKey {
	return PublicKey{pk: ScalarBaseMult(sk.sk)}
}

// Scalar exposes the underlying scalar. Share combination (C2) and the
// ring signature (C3) read the field directly rather than through it.
func (sk SecretKey) Scalar() Scalar { return sk.sk }

// Encode returns the canonical 32-byte encoding of sk.
func (sk SecretKey) Encode() []byte { return sk.sk.Encode() }

// DecodeSecretKey decodes a 32-byte scalar as a secret key.
func DecodeSecretKey(b []byte) (SecretKey, error) {
	s, err := DecodeScalar(b)
	if err != nil {
		return SecretKey{}, err
	}
	return SecretKey{sk: s}, nil
}

// Point exposes the underlying group element. Share combination reads
// the field directly rather than through it.
func (pk PublicKey) Point() Point { return pk.pk }

// Encode returns the canonical 32-byte encoding of pk.
func (pk PublicKey) Encode() []byte { return pk.pk.Encode() }

// Equal reports whether pk and other are the same public key.
func (pk PublicKey) Equal(other PublicKey) bool { return pk.pk.Equal(other.pk) }

// DecodePublicKey decodes a 32-byte canonical point as a public key.
func DecodePublicKey(b []byte) (PublicKey, error) {
	p, err := DecodePoint(b)
	if err != nil {
		return PublicKey{}, err
	}
	return PublicKey{pk: p}, nil
}

// PointFromPublicKey wraps a bare Point as a PublicKey, for a point that
// is already known to be a valid share. JointKey builds its result
// directly and does not call it.
func PointFromPublicKey(p Point) PublicKey { return PublicKey{pk: p} }

// Sig is a Schnorr signature (c, a) in Zq^2 (spec.md §4.2).
type Sig struct {
	C Scalar
	A Scalar
}

const schnorrDomainTag = "sig"

// Sign produces a Schnorr signature over message under sk, using rng for
// the per-signature nonce r.
func Sign(rng io.Reader, sk SecretKey, message []byte) (Sig, error) {
	r, err := RandomScalar(rng)
	if err != nil {
		return Sig{}, err
	}
	bigR := ScalarBaseMult(r)
	c := hashSig(bigR, message)
	a := r.Subtract(c.Multiply(sk.sk))
	return Sig{C: c, A: a}, nil
}

// Verify checks sig against message under pk.
func Verify(pk PublicKey, message []byte, sig Sig) bool {
	rPrime := ScalarBaseMult(sig.A).Add(pk.pk.ScalarMult(sig.C))
	cPrime := hashSig(rPrime, message)
	return sig.C.Equal(cPrime)
}

func hashSig(r Point, message []byte) Scalar {
	return hashToScalar(schnorrDomainTag, r.Encode(), message)
}
