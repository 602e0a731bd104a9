package room

import (
	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

// CryptoID is the cryptographic material every non-ephemeral identity
// carries (spec.md §3): a signing public key, and an encryption public
// key signed by the signing key to prove joint ownership of both.
type CryptoID struct {
	SignKey    xcrypto.PublicKey
	EncryptKey xcrypto.Signed[xcrypto.PublicKey]
}

// VerifyEncryptKeyBinding checks that EncryptKey was actually signed by
// SignKey, refusing to trust an encryption key an identity never attested
// to owning.
func (c CryptoID) VerifyEncryptKeyBinding() bool {
	return xcrypto.Verify(c.SignKey, c.EncryptKey.Value.Encode(), c.EncryptKey.Signature)
}

// IdentityInfo is the persistent record kept for every user or mask
// (room.rs::IdentityInfo, supplemented with Role per room/state.rs).
type IdentityInfo struct {
	CryptoID    CryptoID
	Name        *string
	Description *string
	Nonce       ids.Nonce
	Role        Role
}

// PublicKeyKind discriminates which half of a CryptoID a public key
// registered in RoomState.PublicKeyIndex belongs to.
type PublicKeyKind int

const (
	PublicKeySign PublicKeyKind = iota
	PublicKeyEncrypt
)

// PublicKeyOwner records which identity a public key belongs to and
// which half of its CryptoID it is, so that key reuse across identities
// can be rejected (spec.md §7: PublicKeyAlreadyUsed).
type PublicKeyOwner struct {
	Kind     PublicKeyKind
	Identity ids.IdentityID
}
