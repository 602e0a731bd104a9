package xcrypto

import (
	"crypto/rand"
	"testing"
)

func TestSchnorrSignVerifyRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	pk := sk.Public()
	msg := []byte("open the ballot")

	sig, err := Sign(rand.Reader, sk, msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(pk, msg, sig) {
		t.Fatal("Verify rejected a genuine signature")
	}
}

func TestSchnorrVerifyRejectsWrongMessage(t *testing.T) {
	sk, _ := GenerateSecretKey(rand.Reader)
	sig, _ := Sign(rand.Reader, sk, []byte("message one"))
	if Verify(sk.Public(), []byte("message two"), sig) {
		t.Fatal("Verify accepted a signature over a different message")
	}
}

func TestSchnorrVerifyRejectsWrongKey(t *testing.T) {
	sk1, _ := GenerateSecretKey(rand.Reader)
	sk2, _ := GenerateSecretKey(rand.Reader)
	msg := []byte("ballot")
	sig, _ := Sign(rand.Reader, sk1, msg)
	if Verify(sk2.Public(), msg, sig) {
		t.Fatal("Verify accepted a signature under the wrong public key")
	}
}

func TestSharePossessionRoundTrip(t *testing.T) {
	sk, _ := GenerateSecretKey(rand.Reader)
	proof, err := ProveSharePossession(rand.Reader, sk)
	if err != nil {
		t.Fatalf("ProveSharePossession: %v", err)
	}
	if !VerifySharePossession(sk.Public(), proof) {
		t.Fatal("VerifySharePossession rejected a genuine proof")
	}
}

func TestSharePossessionRejectsForeignKey(t *testing.T) {
	sk1, _ := GenerateSecretKey(rand.Reader)
	sk2, _ := GenerateSecretKey(rand.Reader)
	proof, _ := ProveSharePossession(rand.Reader, sk1)
	if VerifySharePossession(sk2.Public(), proof) {
		t.Fatal("VerifySharePossession accepted a proof bound to a different key")
	}
}

func TestJointKeyAndJointSecretAgree(t *testing.T) {
	var secrets []SecretKey
	var publics []PublicKey
	for i := 0; i < 4; i++ {
		sk, err := GenerateSecretKey(rand.Reader)
		if err != nil {
			t.Fatalf("GenerateSecretKey: %v", err)
		}
		secrets = append(secrets, sk)
		publics = append(publics, sk.Public())
	}

	jointPub := JointKey(publics)
	jointSec := JointSecret(secrets)

	if !jointSec.Public().Equal(jointPub) {
		t.Fatal("sum(sk_i)*B != sum(pk_i)")
	}
}
