package xcrypto

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestPointEncodeDecodeRoundTrip(t *testing.T) {
	s := MustRandomScalar()
	p := ScalarBaseMult(s)

	enc := p.Encode()
	if len(enc) != PointSize {
		t.Fatalf("encoded point length = %d, want %d", len(enc), PointSize)
	}

	decoded, err := DecodePoint(enc)
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	if !p.Equal(decoded) {
		t.Fatal("decoded point does not equal original")
	}
}

func TestDecodePointRejectsWrongLength(t *testing.T) {
	if _, err := DecodePoint(make([]byte, PointSize-1)); err != ErrNonCanonicalPoint {
		t.Fatalf("got err %v, want ErrNonCanonicalPoint", err)
	}
	if _, err := DecodePoint(make([]byte, PointSize+1)); err != ErrNonCanonicalPoint {
		t.Fatalf("got err %v, want ErrNonCanonicalPoint", err)
	}
}

func TestDecodePointRejectsNonCanonical(t *testing.T) {
	bad := bytes.Repeat([]byte{0xff}, PointSize)
	if _, err := DecodePoint(bad); err != ErrNonCanonicalPoint {
		t.Fatalf("got err %v, want ErrNonCanonicalPoint", err)
	}
}

func TestScalarEncodeDecodeRoundTrip(t *testing.T) {
	s, err := RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	enc := s.Encode()
	decoded, err := DecodeScalar(enc)
	if err != nil {
		t.Fatalf("DecodeScalar: %v", err)
	}
	if !s.Equal(decoded) {
		t.Fatal("decoded scalar does not equal original")
	}
}

func TestScalarArithmetic(t *testing.T) {
	a := ScalarFromUint64(3)
	b := ScalarFromUint64(5)

	sum := a.Add(b)
	if !sum.Equal(ScalarFromUint64(8)) {
		t.Fatal("3 + 5 != 8")
	}

	diff := sum.Subtract(b)
	if !diff.Equal(a) {
		t.Fatal("(3+5) - 5 != 3")
	}

	inv := b.Invert()
	if !b.Multiply(inv).Equal(ScalarFromUint64(1)) {
		t.Fatal("b * b^-1 != 1")
	}
}

func TestHashToPointIsDeterministic(t *testing.T) {
	p1 := HashToPoint("tag", []byte("a"), []byte("b"))
	p2 := HashToPoint("tag", []byte("a"), []byte("b"))
	if !p1.Equal(p2) {
		t.Fatal("HashToPoint is not deterministic for identical input")
	}

	p3 := HashToPoint("tag", []byte("a"), []byte("c"))
	if p1.Equal(p3) {
		t.Fatal("HashToPoint collided across distinct input")
	}
}

func TestPointAddSubtractInverse(t *testing.T) {
	p := ScalarBaseMult(ScalarFromUint64(7))
	q := ScalarBaseMult(ScalarFromUint64(11))

	sum := p.Add(q)
	back := sum.Subtract(q)
	if !back.Equal(p) {
		t.Fatal("(p + q) - q != p")
	}
}
