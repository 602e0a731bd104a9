package main

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"

	"github.com/rawblock/kuzh/internal/room"
	"github.com/rawblock/kuzh/internal/xcrypto"
)

// requireEnv reads a required environment variable and exits if it is
// not set, so the binary never starts with missing critical
// configuration.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: required environment variable %s is not set", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// loadRoomOwner builds the room's first identity from
// ROOM_OWNER_SIGN_KEY/ROOM_OWNER_ENCRYPT_KEY/ROOM_OWNER_ENCRYPT_SIG (hex,
// public material only — the server never holds the owner's secret
// keys). In release mode these are required; in dev mode a fresh
// identity is generated and logged so a local client can authenticate as
// the owner.
func loadRoomOwner() room.IdentityInfo {
	signHex := os.Getenv("ROOM_OWNER_SIGN_KEY")
	if signHex == "" {
		if os.Getenv("GIN_MODE") == "release" {
			log.Fatal("FATAL: ROOM_OWNER_SIGN_KEY is required in release mode")
		}
		return generateDevRoomOwner()
	}
	signKey := decodeHexPublicKey(signHex, "ROOM_OWNER_SIGN_KEY")
	encryptKey := decodeHexPublicKey(requireEnv("ROOM_OWNER_ENCRYPT_KEY"), "ROOM_OWNER_ENCRYPT_KEY")
	sig := decodeHexSig(requireEnv("ROOM_OWNER_ENCRYPT_SIG"), "ROOM_OWNER_ENCRYPT_SIG")

	cryptoID := room.CryptoID{
		SignKey:    signKey,
		EncryptKey: xcrypto.Signed[xcrypto.PublicKey]{Value: encryptKey, Signature: sig},
	}
	if !cryptoID.VerifyEncryptKeyBinding() {
		log.Fatal("FATAL: ROOM_OWNER_ENCRYPT_SIG does not bind ROOM_OWNER_ENCRYPT_KEY to ROOM_OWNER_SIGN_KEY")
	}
	return room.IdentityInfo{CryptoID: cryptoID, Role: room.DutyRole(room.Owner, true)}
}

func generateDevRoomOwner() room.IdentityInfo {
	signSK, err := xcrypto.GenerateSecretKey(rand.Reader)
	if err != nil {
		log.Fatalf("FATAL: generating dev room owner sign key: %v", err)
	}
	encryptSK, err := xcrypto.GenerateSecretKey(rand.Reader)
	if err != nil {
		log.Fatalf("FATAL: generating dev room owner encrypt key: %v", err)
	}
	encryptPK := encryptSK.Public()
	sig, err := xcrypto.Sign(rand.Reader, signSK, encryptPK.Encode())
	if err != nil {
		log.Fatalf("FATAL: signing dev room owner encrypt key: %v", err)
	}
	log.Printf("DEV MODE: generated room owner identity (no ROOM_OWNER_SIGN_KEY set)")
	log.Printf("  sign secret key:    %x", signSK.Encode())
	log.Printf("  encrypt secret key: %x", encryptSK.Encode())
	log.Printf("  sign public key:    %x", signSK.Public().Encode())
	log.Printf("  encrypt public key: %x", encryptPK.Encode())
	return room.IdentityInfo{
		CryptoID: room.CryptoID{
			SignKey:    signSK.Public(),
			EncryptKey: xcrypto.Signed[xcrypto.PublicKey]{Value: encryptPK, Signature: sig},
		},
		Role: room.DutyRole(room.Owner, true),
	}
}

func decodeHexPublicKey(s, field string) xcrypto.PublicKey {
	b, err := hex.DecodeString(s)
	if err != nil {
		log.Fatalf("FATAL: %s is not valid hex: %v", field, err)
	}
	pk, err := xcrypto.DecodePublicKey(b)
	if err != nil {
		log.Fatalf("FATAL: %s is not a valid public key: %v", field, err)
	}
	return pk
}

func decodeHexSig(s, field string) xcrypto.Sig {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 2*xcrypto.ScalarSize {
		log.Fatalf("FATAL: %s is not a valid 64-byte hex signature", field)
	}
	c, err := xcrypto.DecodeScalar(b[:xcrypto.ScalarSize])
	if err != nil {
		log.Fatalf("FATAL: %s has an invalid challenge scalar: %v", field, err)
	}
	a, err := xcrypto.DecodeScalar(b[xcrypto.ScalarSize:])
	if err != nil {
		log.Fatalf("FATAL: %s has an invalid response scalar: %v", field, err)
	}
	return xcrypto.Sig{C: c, A: a}
}
