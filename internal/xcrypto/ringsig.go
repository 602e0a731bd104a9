package xcrypto

import "io"

// RingSig is a linkable ring signature (spec.md §4.3), ported
// algorithmically from original_source's
// kuzh-common/src/crypto/primitives.rs::ring_sig::RingSig. A1 is the
// one-time linear map's free coefficient; C and Z are per-ring-member
// challenge/response scalars.
type RingSig struct {
	A1 Point
	C  []Scalar
	Z  []Scalar
}

// Link is the three-way outcome of comparing two ring signatures under
// the same tag and ring (spec.md §4.3).
type Link int

const (
	// LinkIndependent means the two signatures share neither a signer nor
	// a message.
	LinkIndependent Link = iota
	// LinkSamePublicKey means the two signatures were produced by the
	// same ring slot on different messages — the slot index is carried
	// alongside this value by the caller (see LinkResult).
	LinkSamePublicKey
	// LinkSameMessage means the two signatures are identical at every
	// slot, i.e. they trace to the same (A0, A1) pair.
	LinkSameMessage
)

// LinkResult carries the Link outcome plus, for LinkSamePublicKey, the
// slot index that proves the cheat (spec.md §4.3: "the only slot that
// coincides is the signer's — this is how cheating is proved").
type LinkResult struct {
	Kind  Link
	Index int
}

func computeH(tag []byte, publicKeys []PublicKey) Point {
	parts := make([][]byte, 0, len(publicKeys)+1)
	parts = append(parts, tag)
	for _, pk := range publicKeys {
		enc := pk.Encode()
		parts = append(parts, enc)
	}
	return hashToPointParts("h", parts)
}

func computeA0(tag []byte, publicKeys []PublicKey, message []byte) Point {
	parts := make([][]byte, 0, len(publicKeys)+2)
	parts = append(parts, tag)
	for _, pk := range publicKeys {
		parts = append(parts, pk.Encode())
	}
	parts = append(parts, message)
	return hashToPointParts("a0", parts)
}

func hashToPointParts(domainTag string, parts [][]byte) Point {
	return HashToPoint(domainTag, parts...)
}

func computeC(tag []byte, publicKeys []PublicKey, a0, a1 Point, a, b []Point) Scalar {
	parts := make([][]byte, 0, len(publicKeys)+2+len(a)+len(b))
	parts = append(parts, tag)
	for _, pk := range publicKeys {
		parts = append(parts, pk.Encode())
	}
	parts = append(parts, a0.Encode(), a1.Encode())
	for _, an := range a {
		parts = append(parts, an.Encode())
	}
	for _, bn := range b {
		parts = append(parts, bn.Encode())
	}
	return hashToScalar("c", parts...)
}

// RingSign produces a linkable ring signature over message for the ring
// publicKeys, signed by secret at ring slot index (spec.md §4.3).
func RingSign(rng io.Reader, tag []byte, publicKeys []PublicKey, message []byte, secret SecretKey, index int) (RingSig, error) {
	n := len(publicKeys)
	if n == 0 {
		return RingSig{}, ErrLengthMismatch
	}
	if index < 0 || index >= n {
		return RingSig{}, ErrSignerIndexOutOfRange
	}
	if !secret.Public().Equal(publicKeys[index]) {
		return RingSig{}, ErrKeyMismatch
	}

	h := computeH(tag, publicKeys)
	sigmaI := h.ScalarMult(secret.sk)
	a0 := computeA0(tag, publicKeys, message)

	indexPlus1Inv := ScalarFromUint64(uint64(index) + 1).Invert()
	a1 := sigmaI.Subtract(a0).ScalarMult(indexPlus1Inv)

	sigmas := make([]Point, n)
	for j := 0; j < n; j++ {
		if j == index {
			sigmas[j] = sigmaI
		} else {
			sigmas[j] = a0.Add(a1.ScalarMult(ScalarFromUint64(uint64(j) + 1)))
		}
	}

	a := make([]Point, n)
	b := make([]Point, n)
	c := make([]Scalar, n)
	z := make([]Scalar, n)

	otherC := ZeroScalar()
	w, err := RandomScalar(rng)
	if err != nil {
		return RingSig{}, err
	}

	for j := 0; j < n; j++ {
		if j != index {
			zj, err := RandomScalar(rng)
			if err != nil {
				return RingSig{}, err
			}
			cj, err := RandomScalar(rng)
			if err != nil {
				return RingSig{}, err
			}
			otherC = otherC.Add(cj)
			z[j] = zj
			c[j] = cj
			a[j] = ScalarBaseMult(zj).Add(publicKeys[j].pk.ScalarMult(cj))
			b[j] = h.ScalarMult(zj).Add(sigmas[j].ScalarMult(cj))
		} else {
			a[j] = ScalarBaseMult(w)
			b[j] = h.ScalarMult(w)
			z[j] = ZeroScalar()
			c[j] = ZeroScalar()
		}
	}

	ci := computeC(tag, publicKeys, a0, a1, a, b).Subtract(otherC)
	z[index] = w.Subtract(ci.Multiply(secret.sk))
	c[index] = ci

	return RingSig{A1: a1, C: c, Z: z}, nil
}

// RingVerify checks sig against message for the ring publicKeys under tag.
func RingVerify(tag []byte, publicKeys []PublicKey, message []byte, sig RingSig) (bool, error) {
	n := len(publicKeys)
	if n == 0 {
		return false, ErrLengthMismatch
	}
	if len(sig.C) != n || len(sig.Z) != n {
		return false, ErrLengthMismatch
	}

	a0 := computeA0(tag, publicKeys, message)
	h := computeH(tag, publicKeys)

	a := make([]Point, n)
	b := make([]Point, n)
	sum := ZeroScalar()
	for j := 0; j < n; j++ {
		a[j] = ScalarBaseMult(sig.Z[j]).Add(publicKeys[j].pk.ScalarMult(sig.C[j]))
		sigma := a0.Add(sig.A1.ScalarMult(ScalarFromUint64(uint64(j) + 1)))
		b[j] = h.ScalarMult(sig.Z[j]).Add(sigma.ScalarMult(sig.C[j]))
		sum = sum.Add(sig.C[j])
	}

	expected := computeC(tag, publicKeys, a0, sig.A1, a, b)
	return expected.Equal(sum), nil
}

// RingLink decides whether two ring signatures on (possibly distinct)
// messages, under the same tag and ring, share a signer slot, are
// identical, or are independent (spec.md §4.3). This is the mechanism by
// which a cheater who answers twice is caught (spec.md §8 properties 4-6,
// Scenario C).
func RingLink(tag []byte, publicKeys []PublicKey, message1 []byte, sig1 RingSig, message2 []byte, sig2 RingSig) (LinkResult, error) {
	n := len(publicKeys)
	if n == 0 {
		return LinkResult{}, ErrLengthMismatch
	}
	if len(sig1.C) != n || len(sig1.Z) != n || len(sig2.C) != n || len(sig2.Z) != n {
		return LinkResult{}, ErrLengthMismatch
	}
	if n == 1 {
		return LinkResult{Kind: LinkSamePublicKey, Index: 0}, nil
	}

	a01 := computeA0(tag, publicKeys, message1)
	a02 := computeA0(tag, publicKeys, message2)

	seenDiff := false
	nbEq := 0
	lastEq := 0

	for j := 0; j < n; j++ {
		coeff := ScalarFromUint64(uint64(j) + 1)
		sigma1 := a01.Add(sig1.A1.ScalarMult(coeff))
		sigma2 := a02.Add(sig2.A1.ScalarMult(coeff))

		if sigma1.Equal(sigma2) {
			nbEq++
			lastEq = j
		} else {
			seenDiff = true
		}

		if seenDiff && nbEq > 1 {
			return LinkResult{Kind: LinkIndependent}, nil
		}
	}

	if seenDiff {
		if nbEq == 1 {
			return LinkResult{Kind: LinkSamePublicKey, Index: lastEq}, nil
		}
		return LinkResult{Kind: LinkIndependent}, nil
	}
	return LinkResult{Kind: LinkSameMessage}, nil
}
