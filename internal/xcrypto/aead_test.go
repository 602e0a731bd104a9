package xcrypto

import (
	"crypto/rand"
	"strings"
	"testing"
)

func jointKeyForTest(t *testing.T) PublicKey {
	t.Helper()
	sk, err := GenerateSecretKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	return sk.Public()
}

func TestSealOpenOpenAnswerRoundTrip(t *testing.T) {
	jk := jointKeyForTest(t)
	s := "yes, I agree"
	sealed, err := SealAnswer(jk, ClearAnswer{Open: &s})
	if err != nil {
		t.Fatalf("SealAnswer: %v", err)
	}
	if len(sealed) != SealedAnswerSize {
		t.Fatalf("sealed length = %d, want %d", len(sealed), SealedAnswerSize)
	}

	opened, err := OpenAnswer(jk, sealed)
	if err != nil {
		t.Fatalf("OpenAnswer: %v", err)
	}
	if opened.Open == nil || *opened.Open != s {
		t.Fatalf("got %+v, want Open=%q", opened, s)
	}
}

func TestSealOpenClosedAnswerRoundTrip(t *testing.T) {
	jk := jointKeyForTest(t)
	val := true
	sealed, err := SealAnswer(jk, ClearAnswer{Closed: &val})
	if err != nil {
		t.Fatalf("SealAnswer: %v", err)
	}
	if len(sealed) != SealedAnswerSize {
		t.Fatalf("sealed length = %d, want %d", len(sealed), SealedAnswerSize)
	}

	opened, err := OpenAnswer(jk, sealed)
	if err != nil {
		t.Fatalf("OpenAnswer: %v", err)
	}
	if opened.Closed == nil || *opened.Closed != val {
		t.Fatalf("got %+v, want Closed=true", opened)
	}
}

func TestSealOpenPollAnswerRoundTrip(t *testing.T) {
	jk := jointKeyForTest(t)
	option := byte(3)
	sealed, err := SealAnswer(jk, ClearAnswer{Poll: &option})
	if err != nil {
		t.Fatalf("SealAnswer: %v", err)
	}

	opened, err := OpenAnswer(jk, sealed)
	if err != nil {
		t.Fatalf("OpenAnswer: %v", err)
	}
	if opened.Poll == nil || *opened.Poll != option {
		t.Fatalf("got %+v, want Poll=3", opened)
	}
}

func TestSealAnswerRejectsOversizeOpenString(t *testing.T) {
	jk := jointKeyForTest(t)
	s := strings.Repeat("x", maxOpenAnswerLen+1)
	if _, err := SealAnswer(jk, ClearAnswer{Open: &s}); err != ErrClearAnswerTooLarge {
		t.Fatalf("got %v, want ErrClearAnswerTooLarge", err)
	}
}

func TestSealOpenAnswerAtMaxLength(t *testing.T) {
	// The one-byte length prefix tops out at 255; a string at exactly
	// that limit must round-trip byte-for-byte, not wrap mod 256.
	jk := jointKeyForTest(t)
	s := strings.Repeat("y", maxOpenAnswerLen)
	sealed, err := SealAnswer(jk, ClearAnswer{Open: &s})
	if err != nil {
		t.Fatalf("SealAnswer(len=%d): %v", maxOpenAnswerLen, err)
	}
	opened, err := OpenAnswer(jk, sealed)
	if err != nil {
		t.Fatalf("OpenAnswer: %v", err)
	}
	if opened.Open == nil || *opened.Open != s {
		t.Fatalf("max-length answer did not round-trip: got len %d, want %d", len(*opened.Open), len(s))
	}
}

func TestSealAnswerRejectsLengthBeyondPrefixRange(t *testing.T) {
	// 256..282 fit the padded plaintext budget but not the one-byte
	// length prefix; they must be rejected, never silently truncated.
	jk := jointKeyForTest(t)
	for _, n := range []int{256, 282} {
		s := strings.Repeat("z", n)
		if _, err := SealAnswer(jk, ClearAnswer{Open: &s}); err != ErrClearAnswerTooLarge {
			t.Fatalf("len=%d: got %v, want ErrClearAnswerTooLarge", n, err)
		}
	}
}

func TestOpenAnswerRejectsWrongKey(t *testing.T) {
	jk1 := jointKeyForTest(t)
	jk2 := jointKeyForTest(t)
	s := "secret ballot"
	sealed, err := SealAnswer(jk1, ClearAnswer{Open: &s})
	if err != nil {
		t.Fatalf("SealAnswer: %v", err)
	}
	if _, err := OpenAnswer(jk2, sealed); err != ErrSealedAnswerAuth {
		t.Fatalf("got %v, want ErrSealedAnswerAuth", err)
	}
}

func TestOpenAnswerRejectsTamperedCiphertext(t *testing.T) {
	jk := jointKeyForTest(t)
	s := "ballot"
	sealed, err := SealAnswer(jk, ClearAnswer{Open: &s})
	if err != nil {
		t.Fatalf("SealAnswer: %v", err)
	}
	sealed[0] ^= 0xff
	if _, err := OpenAnswer(jk, sealed); err != ErrSealedAnswerAuth {
		t.Fatalf("got %v, want ErrSealedAnswerAuth", err)
	}
}

func TestOpenAnswerRejectsWrongSize(t *testing.T) {
	jk := jointKeyForTest(t)
	if _, err := OpenAnswer(jk, make([]byte, SealedAnswerSize-1)); err != ErrSealedAnswerSize {
		t.Fatalf("got %v, want ErrSealedAnswerSize", err)
	}
}

func TestSealAnswerAllKindsProduceSameLength(t *testing.T) {
	jk := jointKeyForTest(t)
	s := "a"
	sealedOpen, _ := SealAnswer(jk, ClearAnswer{Open: &s})
	val := false
	sealedClosed, _ := SealAnswer(jk, ClearAnswer{Closed: &val})
	option := byte(0)
	sealedPoll, _ := SealAnswer(jk, ClearAnswer{Poll: &option})

	if len(sealedOpen) != len(sealedClosed) || len(sealedClosed) != len(sealedPoll) {
		t.Fatal("sealed answers of different kinds are not the same length")
	}
}
