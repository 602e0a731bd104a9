// Package wire implements kuzh's byte-exact client/server framing
// (spec.md §6 "External interfaces"): fixed little-endian integers,
// 32-byte canonical point/scalar encodings, u32-length-prefixed
// sequences, and the six message tags. It has no direct analogue in
// original_source (the early Rust crate leaned on serde derive rather
// than a hand-rolled codec) so the primitive-encoding style here follows
// the teacher's own wire conventions in internal/bitcoin/client.go
// (explicit binary.LittleEndian reads, explicit length checks, no
// reflection-based marshaling).
package wire

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/rawblock/kuzh/internal/ids"
)

// Tag discriminates the six wire messages (spec.md §6).
type Tag byte

const (
	TagRoomTransaction    Tag = 0x01
	TagSurveyTransaction  Tag = 0x02
	TagPeerMessage        Tag = 0x03
	TagRoomBlock          Tag = 0x81
	TagSurveyBlock        Tag = 0x82
	TagPeerMessageRelayed Tag = 0x83
)

// ErrUnknownTag is fatal at decode time (spec.md §6 "Unknown tags are
// fatal at decode time (never silently ignored)").
var ErrUnknownTag = errors.New("wire: unknown message tag")

// ErrTruncated is returned when a frame's declared length exceeds what
// the reader could supply.
var ErrTruncated = errors.New("wire: truncated frame")

// ErrOversizedFrame guards against a hostile length prefix requesting an
// unbounded allocation.
var ErrOversizedFrame = errors.New("wire: frame exceeds maximum size")

// MaxFrameSize bounds a single frame's payload, independent of what any
// particular message's fields would otherwise allow.
const MaxFrameSize = 16 << 20

func (t Tag) valid() bool {
	switch t {
	case TagRoomTransaction, TagSurveyTransaction, TagPeerMessage,
		TagRoomBlock, TagSurveyBlock, TagPeerMessageRelayed:
		return true
	default:
		return false
	}
}

// WriteFrame writes one tag-prefixed, length-prefixed message: 1 byte
// tag, 4 bytes little-endian payload length, then the payload.
func WriteFrame(w io.Writer, tag Tag, payload []byte) error {
	if !tag.valid() {
		return ErrUnknownTag
	}
	header := make([]byte, 5)
	header[0] = byte(tag)
	binary.LittleEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one frame produced by WriteFrame. An unrecognized tag
// is a fatal decode error, never silently skipped.
func ReadFrame(r io.Reader) (Tag, []byte, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	tag := Tag(header[0])
	if !tag.valid() {
		return 0, nil, ErrUnknownTag
	}
	n := binary.LittleEndian.Uint32(header[1:])
	if n > MaxFrameSize {
		return 0, nil, ErrOversizedFrame
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, ErrTruncated
	}
	return tag, payload, nil
}

// PutUint16/32/64 and the matching getters give every higher-level codec
// (identifiers, counts, lengths) one fixed little-endian convention.

func PutUint16(buf []byte, v uint16) { binary.LittleEndian.PutUint16(buf, v) }
func PutUint32(buf []byte, v uint32) { binary.LittleEndian.PutUint32(buf, v) }
func PutUint64(buf []byte, v uint64) { binary.LittleEndian.PutUint64(buf, v) }

func GetUint16(buf []byte) uint16 { return binary.LittleEndian.Uint16(buf) }
func GetUint32(buf []byte) uint32 { return binary.LittleEndian.Uint32(buf) }
func GetUint64(buf []byte) uint64 { return binary.LittleEndian.Uint64(buf) }

// PutVarBytes appends b to dst as a u32-length-prefixed sequence (spec.md
// §6 "variable-length sequences as length-prefixed (u32)").
func PutVarBytes(dst []byte, b []byte) []byte {
	var lenBuf [4]byte
	PutUint32(lenBuf[:], uint32(len(b)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, b...)
}

// GetVarBytes reads one u32-length-prefixed sequence from the front of
// buf, returning the sequence and the remainder of buf.
func GetVarBytes(buf []byte) (data []byte, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, ErrTruncated
	}
	n := GetUint32(buf)
	buf = buf[4:]
	if uint32(len(buf)) < n {
		return nil, nil, ErrTruncated
	}
	return buf[:n], buf[n:], nil
}

// identityIDSize is IdentityID's fixed wire width: a 1-byte kind
// discriminant followed by all three of its payload fields encoded
// positionally (UserID 2 bytes, MaskID 4 bytes, AnswerID 2 bytes) so the
// encoding is constant-width regardless of Kind.
const identityIDSize = 1 + 2 + 4 + 2

// PutIdentityID appends id's fixed-width encoding to dst.
func PutIdentityID(dst []byte, id ids.IdentityID) []byte {
	var buf [identityIDSize]byte
	buf[0] = byte(id.Kind)
	PutUint16(buf[1:3], uint16(id.User))
	PutUint32(buf[3:7], uint32(id.Mask))
	PutUint16(buf[7:9], uint16(id.Answer))
	return append(dst, buf[:]...)
}

// GetIdentityID decodes an IdentityID from the front of buf, returning
// the remainder.
func GetIdentityID(buf []byte) (ids.IdentityID, []byte, error) {
	if len(buf) < identityIDSize {
		return ids.IdentityID{}, nil, ErrTruncated
	}
	id := ids.IdentityID{
		Kind:   ids.IdentityKind(buf[0]),
		User:   ids.UserID(GetUint16(buf[1:3])),
		Mask:   ids.MaskID(GetUint32(buf[3:7])),
		Answer: ids.AnswerID(GetUint16(buf[7:9])),
	}
	return id, buf[identityIDSize:], nil
}
