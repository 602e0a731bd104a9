// Package xcrypto implements the prime-order group, signature, and
// linkable ring signature primitives kuzh's anonymous survey protocol
// is built on (spec.md components C1-C3). Arithmetic is delegated to
// github.com/gtank/ristretto255, the Go analogue of the Ristretto group
// curve25519-dalek exposes in the original Rust implementation
// (original_source kuzh-common/src/crypto/primitives.rs). Hashing uses
// lukechampine.com/blake3, matching the original's blake3::Hasher and
// finalize_xof usage tag-for-tag ("h", "a0", "c", "sig").
package xcrypto

import (
	"crypto/rand"
	"io"

	"github.com/gtank/ristretto255"
	"lukechampine.com/blake3"
)

// PointSize is the canonical encoded size of a group element (spec.md §3).
const PointSize = 32

// ScalarSize is the canonical encoded size of a scalar.
const ScalarSize = 32

// Point is a Ristretto group element. The zero value is invalid; use
// BasePoint, NewPoint, or DecodePoint.
type Point struct {
	e *ristretto255.Element
}

// NewPoint returns the group identity element.
func NewPoint() Point {
	return Point{e: ristretto255.NewElement()}
}

// DecodePoint decodes a 32-byte canonical Ristretto encoding. Non-canonical
// input (including short/long slices) is rejected with ErrNonCanonicalPoint
// and never silently maps to the identity element (spec.md §4.1).
func DecodePoint(b []byte) (Point, error) {
	if len(b) != PointSize {
		return Point{}, ErrNonCanonicalPoint
	}
	e, err := ristretto255.NewElement().SetCanonicalBytes(b)
	if err != nil {
		return Point{}, ErrNonCanonicalPoint
	}
	return Point{e: e}, nil
}

// HashToPoint maps the concatenation of parts to a uniformly distributed
// group element via a blake3 XOF, matching compute_h/compute_a0 in
// original_source (64 uniform bytes fed to a one-way map into the group).
func HashToPoint(domainTag string, parts ...[]byte) Point {
	h := blake3.New(64, nil)
	h.Write([]byte(domainTag))
	for _, p := range parts {
		h.Write(p)
	}
	wide := make([]byte, 64)
	xof := h.XOF()
	_, _ = io.ReadFull(xof, wide)
	e, _ := ristretto255.NewElement().SetUniformBytes(wide)
	return Point{e: e}
}

// Encode returns the canonical 32-byte encoding of p.
func (p Point) Encode() []byte {
	return p.e.Encode(nil)
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{e: ristretto255.NewElement().Add(p.e, q.e)}
}

// Subtract returns p - q.
func (p Point) Subtract(q Point) Point {
	return Point{e: ristretto255.NewElement().Subtract(p.e, q.e)}
}

// ScalarMult returns s * p.
func (p Point) ScalarMult(s Scalar) Point {
	return Point{e: ristretto255.NewElement().ScalarMult(s.s, p.e)}
}

// ScalarBaseMult returns s * B for the conventional generator B.
func ScalarBaseMult(s Scalar) Point {
	return Point{e: ristretto255.NewElement().ScalarBaseMult(s.s)}
}

// Equal reports whether p and q represent the same group element,
// comparing decompressed representatives so that distinct canonical
// encodings of the same point still compare equal (spec.md §9, Open
// Questions: "equality must be defined on the decompressed
// representative").
func (p Point) Equal(q Point) bool {
	return p.e.Equal(q.e) == 1
}

// Scalar is an element of Z_q, the Ristretto group's scalar field.
type Scalar struct {
	s *ristretto255.Scalar
}

// ZeroScalar returns the additive identity.
func ZeroScalar() Scalar {
	return Scalar{s: ristretto255.NewScalar().Zero()}
}

// DecodeScalar decodes a 32-byte canonically-reduced scalar. Non-canonical
// input is rejected with ErrNonCanonicalScalar (spec.md §4.1: "Scalars are
// canonically reduced mod q").
func DecodeScalar(b []byte) (Scalar, error) {
	if len(b) != ScalarSize {
		return Scalar{}, ErrNonCanonicalScalar
	}
	s, err := ristretto255.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return Scalar{}, ErrNonCanonicalScalar
	}
	return Scalar{s: s}, nil
}

// RandomScalar draws a uniform scalar from rng, an explicit cryptographic
// RNG source rather than a buried global — spec.md §5/§9 require the RNG
// be injectable so tests can drive a seeded DRBG.
func RandomScalar(rng io.Reader) (Scalar, error) {
	wide := make([]byte, 64)
	if _, err := io.ReadFull(rng, wide); err != nil {
		return Scalar{}, err
	}
	s, _ := ristretto255.NewScalar().SetUniformBytes(wide)
	return Scalar{s: s}, nil
}

// MustRandomScalar is RandomScalar against crypto/rand.Reader, for call
// sites that treat RNG failure as fatal (spec.md §7: RNG failure is a
// Fatal error).
func MustRandomScalar() Scalar {
	s, err := RandomScalar(rand.Reader)
	if err != nil {
		panic("xcrypto: system RNG failed: " + err.Error())
	}
	return s
}

// ScalarFromUint64 embeds a small non-negative integer as a scalar, used
// for the ring signature's (j+1) coefficients.
func ScalarFromUint64(v uint64) Scalar {
	var wide [64]byte
	wide[0] = byte(v)
	wide[1] = byte(v >> 8)
	wide[2] = byte(v >> 16)
	wide[3] = byte(v >> 24)
	wide[4] = byte(v >> 32)
	wide[5] = byte(v >> 40)
	wide[6] = byte(v >> 48)
	wide[7] = byte(v >> 56)
	s, _ := ristretto255.NewScalar().SetUniformBytes(wide[:])
	return Scalar{s: s}
}

// Encode returns the canonical 32-byte encoding of s.
func (s Scalar) Encode() []byte {
	return s.s.Encode(nil)
}

// Add returns s + t.
func (s Scalar) Add(t Scalar) Scalar {
	return Scalar{s: ristretto255.NewScalar().Add(s.s, t.s)}
}

// Subtract returns s - t.
func (s Scalar) Subtract(t Scalar) Scalar {
	return Scalar{s: ristretto255.NewScalar().Subtract(s.s, t.s)}
}

// Multiply returns s * t.
func (s Scalar) Multiply(t Scalar) Scalar {
	return Scalar{s: ristretto255.NewScalar().Multiply(s.s, t.s)}
}

// Invert returns the multiplicative inverse of s.
func (s Scalar) Invert() Scalar {
	return Scalar{s: ristretto255.NewScalar().Invert(s.s)}
}

// Equal reports whether s and t are the same scalar.
func (s Scalar) Equal(t Scalar) bool {
	return s.s.Equal(t.s) == 1
}
