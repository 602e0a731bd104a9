package xcrypto

import (
	"crypto/rand"
	"testing"
)

func ringOfSize(t *testing.T, n int) ([]SecretKey, []PublicKey) {
	t.Helper()
	secrets := make([]SecretKey, n)
	publics := make([]PublicKey, n)
	for i := 0; i < n; i++ {
		sk, err := GenerateSecretKey(rand.Reader)
		if err != nil {
			t.Fatalf("GenerateSecretKey: %v", err)
		}
		secrets[i] = sk
		publics[i] = sk.Public()
	}
	return secrets, publics
}

func TestRingSignVerifyRoundTrip(t *testing.T) {
	secrets, publics := ringOfSize(t, 5)
	tag := []byte("survey-1")
	msg := []byte("answer payload")

	sig, err := RingSign(rand.Reader, tag, publics, msg, secrets[2], 2)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}

	ok, err := RingVerify(tag, publics, msg, sig)
	if err != nil {
		t.Fatalf("RingVerify: %v", err)
	}
	if !ok {
		t.Fatal("RingVerify rejected a genuine ring signature")
	}
}

func TestRingSignRejectsOutOfRangeIndex(t *testing.T) {
	secrets, publics := ringOfSize(t, 3)
	tag := []byte("t")
	if _, err := RingSign(rand.Reader, tag, publics, []byte("m"), secrets[0], 3); err != ErrSignerIndexOutOfRange {
		t.Fatalf("got %v, want ErrSignerIndexOutOfRange", err)
	}
	if _, err := RingSign(rand.Reader, tag, publics, []byte("m"), secrets[0], -1); err != ErrSignerIndexOutOfRange {
		t.Fatalf("got %v, want ErrSignerIndexOutOfRange", err)
	}
}

func TestRingSignRejectsKeyMismatch(t *testing.T) {
	secrets, publics := ringOfSize(t, 3)
	if _, err := RingSign(rand.Reader, []byte("t"), publics, []byte("m"), secrets[0], 1); err != ErrKeyMismatch {
		t.Fatalf("got %v, want ErrKeyMismatch", err)
	}
}

func TestRingSignRejectsEmptyRing(t *testing.T) {
	sk, _ := GenerateSecretKey(rand.Reader)
	if _, err := RingSign(rand.Reader, []byte("t"), nil, []byte("m"), sk, 0); err != ErrLengthMismatch {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}
}

func TestRingVerifyRejectsEmptyRing(t *testing.T) {
	if _, err := RingVerify([]byte("t"), nil, []byte("m"), RingSig{}); err != ErrLengthMismatch {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}
}

func TestRingVerifyRejectsTamperedSignature(t *testing.T) {
	secrets, publics := ringOfSize(t, 4)
	tag := []byte("tag")
	msg := []byte("msg")

	sig, err := RingSign(rand.Reader, tag, publics, msg, secrets[1], 1)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}
	sig.C[0] = sig.C[0].Add(ScalarFromUint64(1))

	ok, err := RingVerify(tag, publics, msg, sig)
	if err != nil {
		t.Fatalf("RingVerify: %v", err)
	}
	if ok {
		t.Fatal("RingVerify accepted a tampered signature")
	}
}

func TestRingLinkIndependentSigners(t *testing.T) {
	secrets, publics := ringOfSize(t, 5)
	tag := []byte("survey")

	sig1, err := RingSign(rand.Reader, tag, publics, []byte("m1"), secrets[0], 0)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}
	sig2, err := RingSign(rand.Reader, tag, publics, []byte("m2"), secrets[3], 3)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}

	result, err := RingLink(tag, publics, []byte("m1"), sig1, []byte("m2"), sig2)
	if err != nil {
		t.Fatalf("RingLink: %v", err)
	}
	if result.Kind != LinkIndependent {
		t.Fatalf("got %v, want LinkIndependent", result.Kind)
	}
}

func TestRingLinkSameSignerDifferentMessage(t *testing.T) {
	secrets, publics := ringOfSize(t, 5)
	tag := []byte("survey")

	sig1, err := RingSign(rand.Reader, tag, publics, []byte("m1"), secrets[2], 2)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}
	sig2, err := RingSign(rand.Reader, tag, publics, []byte("m2"), secrets[2], 2)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}

	result, err := RingLink(tag, publics, []byte("m1"), sig1, []byte("m2"), sig2)
	if err != nil {
		t.Fatalf("RingLink: %v", err)
	}
	if result.Kind != LinkSamePublicKey {
		t.Fatalf("got %v, want LinkSamePublicKey", result.Kind)
	}
	if result.Index != 2 {
		t.Fatalf("got index %d, want 2", result.Index)
	}
}

func TestRingLinkSameSignerSameMessage(t *testing.T) {
	secrets, publics := ringOfSize(t, 4)
	tag := []byte("survey")
	msg := []byte("same answer twice")

	sig1, err := RingSign(rand.Reader, tag, publics, msg, secrets[1], 1)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}
	sig2, err := RingSign(rand.Reader, tag, publics, msg, secrets[1], 1)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}

	result, err := RingLink(tag, publics, msg, sig1, msg, sig2)
	if err != nil {
		t.Fatalf("RingLink: %v", err)
	}
	if result.Kind != LinkSameMessage {
		t.Fatalf("got %v, want LinkSameMessage", result.Kind)
	}
}

func TestRingLinkSingletonRingAlwaysSamePublicKey(t *testing.T) {
	secrets, publics := ringOfSize(t, 1)
	tag := []byte("solo")

	sig1, err := RingSign(rand.Reader, tag, publics, []byte("m1"), secrets[0], 0)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}
	sig2, err := RingSign(rand.Reader, tag, publics, []byte("m2"), secrets[0], 0)
	if err != nil {
		t.Fatalf("RingSign: %v", err)
	}

	result, err := RingLink(tag, publics, []byte("m1"), sig1, []byte("m2"), sig2)
	if err != nil {
		t.Fatalf("RingLink: %v", err)
	}
	if result.Kind != LinkSamePublicKey || result.Index != 0 {
		t.Fatalf("got %+v, want SamePublicKey(0)", result)
	}
}

func TestRingLinkRejectsLengthMismatch(t *testing.T) {
	_, publics := ringOfSize(t, 3)
	_, err := RingLink([]byte("t"), publics, []byte("m1"), RingSig{}, []byte("m2"), RingSig{})
	if err != ErrLengthMismatch {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}
}
