package wire

import (
	"bytes"
	"testing"

	"github.com/rawblock/kuzh/internal/ids"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello survey chain")
	if err := WriteFrame(&buf, TagSurveyTransaction, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	tag, got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if tag != TagSurveyTransaction {
		t.Fatalf("got tag %x, want %x", tag, TagSurveyTransaction)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got payload %q, want %q", got, payload)
	}
}

func TestReadFrameRejectsUnknownTag(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x7f)
	buf.Write([]byte{0, 0, 0, 0})
	if _, _, err := ReadFrame(&buf); err != ErrUnknownTag {
		t.Fatalf("got %v, want ErrUnknownTag", err)
	}
}

func TestWriteFrameRejectsUnknownTag(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Tag(0x7f), nil); err != ErrUnknownTag {
		t.Fatalf("got %v, want ErrUnknownTag", err)
	}
}

func TestVarBytesRoundTrip(t *testing.T) {
	var dst []byte
	dst = PutVarBytes(dst, []byte("abc"))
	dst = PutVarBytes(dst, []byte{})
	got1, rest, err := GetVarBytes(dst)
	if err != nil {
		t.Fatalf("GetVarBytes: %v", err)
	}
	if string(got1) != "abc" {
		t.Fatalf("got %q, want abc", got1)
	}
	got2, rest, err := GetVarBytes(rest)
	if err != nil {
		t.Fatalf("GetVarBytes: %v", err)
	}
	if len(got2) != 0 {
		t.Fatalf("expected empty second sequence, got %q", got2)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no trailing bytes, got %d", len(rest))
	}
}

func TestIdentityIDRoundTrip(t *testing.T) {
	for _, id := range []ids.IdentityID{
		ids.RoomIdentity(),
		ids.UserIdentity(42),
		ids.MaskIdentity(1000),
		ids.AnswerIdentity(7),
	} {
		buf := PutIdentityID(nil, id)
		got, rest, err := GetIdentityID(buf)
		if err != nil {
			t.Fatalf("GetIdentityID: %v", err)
		}
		if !got.Equal(id) {
			t.Fatalf("got %+v, want %+v", got, id)
		}
		if len(rest) != 0 {
			t.Fatalf("expected no trailing bytes, got %d", len(rest))
		}
	}
}

func TestPeerMessageRoundTrip(t *testing.T) {
	m := PeerMessage{From: ids.UserIdentity(3), To: ids.UserID(9)}
	copy(m.Ciphertext[:], []byte("secret payload"))
	got, err := DecodePeerMessage(m.Encode())
	if err != nil {
		t.Fatalf("DecodePeerMessage: %v", err)
	}
	if !got.From.Equal(m.From) || got.To != m.To || got.Ciphertext != m.Ciphertext {
		t.Fatalf("round trip mismatch: got %+v", got)
	}
}
