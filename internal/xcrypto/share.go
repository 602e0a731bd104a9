package xcrypto

import "io"

// JointKey sums a set of per-member encryption-share public keys into the
// survey's joint public key (spec.md §4.2, §8 invariant 1):
// joint_key = Σ pk_i.
func JointKey(shares []PublicKey) PublicKey {
	sum := NewPoint()
	for _, pk := range shares {
		sum = sum.Add(pk.pk)
	}
	return PublicKey{pk: sum}
}

// JointSecret sums the corresponding secret shares, reconstructing the
// survey's joint decryption secret once every member has revealed theirs
// (spec.md §4.2): s = Σ sk_i. s*B == JointKey(shares) iff every member
// contributed their committed share honestly (spec.md §8 invariant 7).
func JointSecret(shares []SecretKey) SecretKey {
	sum := ZeroScalar()
	for _, sk := range shares {
		sum = sum.Add(sk.sk)
	}
	return SecretKey{sk: sum}
}

// ProofOfPossession is a Schnorr signature over a member's own encryption
// share public key, binding a PublicPartialKey event to proof the sender
// holds the matching secret (spec.md §4.4, PublicPartialKey{pk, challenge}).
type ProofOfPossession = Sig

const sharePossessionTag = "share-pop"

// ProveSharePossession signs the share's own encoding, so a verifier can
// check the submitter actually knows the secret behind the committed
// share before admitting it into the survey's Encrypt phase.
func ProveSharePossession(rng io.Reader, sk SecretKey) (ProofOfPossession, error) {
	return Sign(rng, sk, []byte(sharePossessionTag+string(sk.Public().Encode())))
}

// VerifySharePossession checks a ProofOfPossession produced by
// ProveSharePossession.
func VerifySharePossession(pk PublicKey, proof ProofOfPossession) bool {
	return Verify(pk, []byte(sharePossessionTag+string(pk.Encode())), proof)
}
