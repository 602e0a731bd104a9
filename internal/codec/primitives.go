// Package codec marshals room.Event, survey.Event, and the generic
// chain.Transaction/chain.Block wrappers around them into the
// length-prefixed, little-endian byte layout internal/wire defines for
// kuzh's client/server frames (spec.md §6). internal/wire itself stops at
// the frame/tag/PeerMessage layer; this package supplies the field-level
// encoding for everything carried inside a RoomTransaction, SurveyTransaction,
// RoomBlock, or SurveyBlock payload, reusing wire's primitive helpers so
// both layers share one little-endian, length-prefixed convention.
package codec

import (
	"errors"

	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/room"
	"github.com/rawblock/kuzh/internal/wire"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

// ErrTruncated mirrors wire.ErrTruncated for callers that only import codec.
var ErrTruncated = errors.New("codec: truncated payload")

func putBool(dst []byte, b bool) []byte {
	if b {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func getBool(buf []byte) (bool, []byte, error) {
	if len(buf) < 1 {
		return false, nil, ErrTruncated
	}
	return buf[0] != 0, buf[1:], nil
}

func putUint8(dst []byte, v uint8) []byte { return append(dst, v) }

func getUint8(buf []byte) (uint8, []byte, error) {
	if len(buf) < 1 {
		return 0, nil, ErrTruncated
	}
	return buf[0], buf[1:], nil
}

func putUint16(dst []byte, v uint16) []byte {
	var b [2]byte
	wire.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func getUint16(buf []byte) (uint16, []byte, error) {
	if len(buf) < 2 {
		return 0, nil, ErrTruncated
	}
	return wire.GetUint16(buf[:2]), buf[2:], nil
}

func putUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	wire.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func getUint32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, ErrTruncated
	}
	return wire.GetUint32(buf[:4]), buf[4:], nil
}

func putUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	wire.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func getUint64(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, ErrTruncated
	}
	return wire.GetUint64(buf[:8]), buf[8:], nil
}

func putString(dst []byte, s string) []byte { return wire.PutVarBytes(dst, []byte(s)) }

func getString(buf []byte) (string, []byte, error) {
	b, rest, err := wire.GetVarBytes(buf)
	if err != nil {
		return "", nil, err
	}
	return string(b), rest, nil
}

func putOptString(dst []byte, s *string) []byte {
	if s == nil {
		return putBool(dst, false)
	}
	dst = putBool(dst, true)
	return putString(dst, *s)
}

func getOptString(buf []byte) (*string, []byte, error) {
	present, rest, err := getBool(buf)
	if err != nil {
		return nil, nil, err
	}
	if !present {
		return nil, rest, nil
	}
	s, rest, err := getString(rest)
	if err != nil {
		return nil, nil, err
	}
	return &s, rest, nil
}

func putStringSlice(dst []byte, ss []string) []byte {
	dst = putUint32(dst, uint32(len(ss)))
	for _, s := range ss {
		dst = putString(dst, s)
	}
	return dst
}

func getStringSlice(buf []byte) ([]string, []byte, error) {
	n, rest, err := getUint32(buf)
	if err != nil {
		return nil, nil, err
	}
	out := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		var s string
		s, rest, err = getString(rest)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, s)
	}
	return out, rest, nil
}

func putIdentityID(dst []byte, id ids.IdentityID) []byte { return wire.PutIdentityID(dst, id) }

func getIdentityID(buf []byte) (ids.IdentityID, []byte, error) { return wire.GetIdentityID(buf) }

func putPublicKey(dst []byte, pk xcrypto.PublicKey) []byte { return append(dst, pk.Encode()...) }

func getPublicKey(buf []byte) (xcrypto.PublicKey, []byte, error) {
	if len(buf) < xcrypto.PointSize {
		return xcrypto.PublicKey{}, nil, ErrTruncated
	}
	pk, err := xcrypto.DecodePublicKey(buf[:xcrypto.PointSize])
	if err != nil {
		return xcrypto.PublicKey{}, nil, err
	}
	return pk, buf[xcrypto.PointSize:], nil
}

func putSecretKey(dst []byte, sk xcrypto.SecretKey) []byte { return append(dst, sk.Encode()...) }

func getSecretKey(buf []byte) (xcrypto.SecretKey, []byte, error) {
	if len(buf) < xcrypto.ScalarSize {
		return xcrypto.SecretKey{}, nil, ErrTruncated
	}
	sk, err := xcrypto.DecodeSecretKey(buf[:xcrypto.ScalarSize])
	if err != nil {
		return xcrypto.SecretKey{}, nil, err
	}
	return sk, buf[xcrypto.ScalarSize:], nil
}

func putScalar(dst []byte, s xcrypto.Scalar) []byte { return append(dst, s.Encode()...) }

func getScalar(buf []byte) (xcrypto.Scalar, []byte, error) {
	if len(buf) < xcrypto.ScalarSize {
		return xcrypto.Scalar{}, nil, ErrTruncated
	}
	s, err := xcrypto.DecodeScalar(buf[:xcrypto.ScalarSize])
	if err != nil {
		return xcrypto.Scalar{}, nil, err
	}
	return s, buf[xcrypto.ScalarSize:], nil
}

func putSig(dst []byte, sig xcrypto.Sig) []byte {
	dst = putScalar(dst, sig.C)
	return putScalar(dst, sig.A)
}

func getSig(buf []byte) (xcrypto.Sig, []byte, error) {
	c, rest, err := getScalar(buf)
	if err != nil {
		return xcrypto.Sig{}, nil, err
	}
	a, rest, err := getScalar(rest)
	if err != nil {
		return xcrypto.Sig{}, nil, err
	}
	return xcrypto.Sig{C: c, A: a}, rest, nil
}

func putSignedPublicKey(dst []byte, s xcrypto.Signed[xcrypto.PublicKey]) []byte {
	dst = putPublicKey(dst, s.Value)
	return putSig(dst, s.Signature)
}

func getSignedPublicKey(buf []byte) (xcrypto.Signed[xcrypto.PublicKey], []byte, error) {
	pk, rest, err := getPublicKey(buf)
	if err != nil {
		return xcrypto.Signed[xcrypto.PublicKey]{}, nil, err
	}
	sig, rest, err := getSig(rest)
	if err != nil {
		return xcrypto.Signed[xcrypto.PublicKey]{}, nil, err
	}
	return xcrypto.Signed[xcrypto.PublicKey]{Value: pk, Signature: sig}, rest, nil
}

func putCryptoID(dst []byte, c room.CryptoID) []byte {
	dst = putPublicKey(dst, c.SignKey)
	return putSignedPublicKey(dst, c.EncryptKey)
}

func getCryptoID(buf []byte) (room.CryptoID, []byte, error) {
	signKey, rest, err := getPublicKey(buf)
	if err != nil {
		return room.CryptoID{}, nil, err
	}
	encryptKey, rest, err := getSignedPublicKey(rest)
	if err != nil {
		return room.CryptoID{}, nil, err
	}
	return room.CryptoID{SignKey: signKey, EncryptKey: encryptKey}, rest, nil
}

func putRingSig(dst []byte, r xcrypto.RingSig) []byte {
	dst = append(dst, r.A1.Encode()...)
	dst = putUint32(dst, uint32(len(r.C)))
	for _, c := range r.C {
		dst = putScalar(dst, c)
	}
	dst = putUint32(dst, uint32(len(r.Z)))
	for _, z := range r.Z {
		dst = putScalar(dst, z)
	}
	return dst
}

func getRingSig(buf []byte) (xcrypto.RingSig, []byte, error) {
	if len(buf) < xcrypto.PointSize {
		return xcrypto.RingSig{}, nil, ErrTruncated
	}
	a1, err := xcrypto.DecodePoint(buf[:xcrypto.PointSize])
	if err != nil {
		return xcrypto.RingSig{}, nil, err
	}
	rest := buf[xcrypto.PointSize:]
	nc, rest, err := getUint32(rest)
	if err != nil {
		return xcrypto.RingSig{}, nil, err
	}
	c := make([]xcrypto.Scalar, 0, nc)
	for i := uint32(0); i < nc; i++ {
		var s xcrypto.Scalar
		s, rest, err = getScalar(rest)
		if err != nil {
			return xcrypto.RingSig{}, nil, err
		}
		c = append(c, s)
	}
	nz, rest, err := getUint32(rest)
	if err != nil {
		return xcrypto.RingSig{}, nil, err
	}
	z := make([]xcrypto.Scalar, 0, nz)
	for i := uint32(0); i < nz; i++ {
		var s xcrypto.Scalar
		s, rest, err = getScalar(rest)
		if err != nil {
			return xcrypto.RingSig{}, nil, err
		}
		z = append(z, s)
	}
	return xcrypto.RingSig{A1: a1, C: c, Z: z}, rest, nil
}

func putRole(dst []byte, r room.Role) []byte {
	dst = putUint8(dst, uint8(r.Kind))
	dst = putUint8(dst, uint8(r.Regular))
	dst = putUint8(dst, uint8(r.Duty))
	return putBool(dst, r.MayGrant)
}

func getRole(buf []byte) (room.Role, []byte, error) {
	kind, rest, err := getUint8(buf)
	if err != nil {
		return room.Role{}, nil, err
	}
	regular, rest, err := getUint8(rest)
	if err != nil {
		return room.Role{}, nil, err
	}
	duty, rest, err := getUint8(rest)
	if err != nil {
		return room.Role{}, nil, err
	}
	mayGrant, rest, err := getBool(rest)
	if err != nil {
		return room.Role{}, nil, err
	}
	return room.Role{
		Kind:     room.RoleKind(kind),
		Regular:  room.RegularLevel(regular),
		Duty:     room.DutyLevel(duty),
		MayGrant: mayGrant,
	}, rest, nil
}
