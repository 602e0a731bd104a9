package xcrypto

import (
	"io"

	"github.com/gtank/ristretto255"
	"lukechampine.com/blake3"
)

// hashToScalar produces a uniformly distributed scalar from a
// domain-separated blake3 XOF, mirroring Scalar::from_bytes_mod_order in
// original_source but using a wide (64-byte) reduction throughout for a
// single consistent reduction path across every hash call in this package.
func hashToScalar(domainTag string, parts ...[]byte) Scalar {
	h := blake3.New(64, nil)
	h.Write([]byte(domainTag))
	for _, p := range parts {
		h.Write(p)
	}
	wide := make([]byte, 64)
	xof := h.XOF()
	_, _ = io.ReadFull(xof, wide)
	return ScalarFromBytes(wide)
}

// ScalarFromBytes reduces 64 uniform bytes to a scalar mod q.
func ScalarFromBytes(wide []byte) Scalar {
	s, _ := ristretto255.NewScalar().SetUniformBytes(wide)
	return Scalar{s: s}
}
