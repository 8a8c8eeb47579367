package core

// Crypto is the cryptographic-primitives collaborator (spec §6): digest,
// ECDH-derived symmetric encryption and canonical-public-key checking. The
// appendix subsystem never implements cryptography of its own beyond this
// narrow interface; DefaultCrypto is a concrete, real implementation built
// from the same primitives the teacher's core/security.go and core/wallet.go
// use (Ed25519/curve25519 key material, XChaCha20-Poly1305 AEAD), adapted to
// the shared-secret-derived scheme spec.md describes.

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
)

// EncryptedPayload is the (ciphertext, nonce) pair produced by sealing a
// draft (spec §2 "Encrypted payload value"). The nonce is always exactly 32
// bytes once populated, or empty for the pruned form (spec §3 invariant).
type EncryptedPayload struct {
	Data  []byte
	Nonce []byte
}

// SizeOfPlaintext reports the decrypted payload length this ciphertext
// would produce, i.e. Data length minus the AEAD authentication tag. Used
// by fee computation (spec §4: EncryptedMessage fee is over dataLen-16).
func (p EncryptedPayload) SizeOfPlaintext() int {
	n := len(p.Data) - chacha20poly1305.Overhead
	if n < 0 {
		return 0
	}
	return n
}

// Crypto is the narrow collaborator interface appendices call through for
// all cryptography.
type Crypto interface {
	// Sha256 is the digest primitive.
	Sha256(data []byte) [32]byte
	// IsCanonicalPublicKey reports whether key lies in the accepted
	// curve25519 subgroup (i.e. is not a known low-order point).
	IsCanonicalPublicKey(key [32]byte) bool
	// Encrypt derives a shared secret from senderSecret and
	// recipientPublicKey, optionally compresses plaintext, and seals it.
	Encrypt(plaintext []byte, senderSecret string, recipientPublicKey [32]byte, compress bool) (EncryptedPayload, error)
	// EncryptedDataLength predicts the ciphertext length Encrypt would
	// produce for plaintext, without actually deriving a shared secret or
	// consuming randomness. Used to size unsealed-draft fees.
	EncryptedDataLength(plaintext []byte, compress bool) (int, error)
	// Decrypt reverses Encrypt given the same two parties' secret material.
	Decrypt(payload EncryptedPayload, recipientSecret string, senderPublicKey [32]byte, compressed bool) ([]byte, error)
	// PublicKeyFromSecret derives the curve25519 public key for a secret,
	// used by EncryptToSelfMessage to encrypt to the sender's own key.
	PublicKeyFromSecret(secret string) [32]byte
}

// DefaultCrypto is the production Crypto implementation.
type DefaultCrypto struct{}

func (DefaultCrypto) Sha256(data []byte) [32]byte { return sha256.Sum256(data) }

// lowOrderPoints are the eight known small-order points on curve25519;
// accepting one of these as a peer's public key would let an attacker force
// a predictable shared secret. This is the standard blacklist used by
// libsodium-style canonical-key checks.
var lowOrderPoints = [][32]byte{
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0xe0, 0xeb, 0x7a, 0x7c, 0x3b, 0x41, 0xb8, 0xae, 0x16, 0x56, 0xe3, 0xfa, 0xf1, 0x9f, 0xc4, 0x6a, 0xda, 0x09, 0x8d, 0xeb, 0x9c, 0x32, 0xb1, 0xfd, 0x86, 0x62, 0x05, 0x16, 0x5f, 0x49, 0xb8, 0x00},
	{0x5f, 0x9c, 0x95, 0xbc, 0xa3, 0x50, 0x8c, 0x24, 0xb1, 0xd0, 0xb1, 0x55, 0x9c, 0x83, 0xef, 0x5b, 0x04, 0x44, 0x5c, 0xc4, 0x58, 0x1c, 0x8e, 0x86, 0xd8, 0x22, 0x4e, 0xdd, 0xd0, 0x9f, 0x11, 0x57},
	{0xec, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
	{0xed, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	{0xee, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
	{0xcd, 0xeb, 0x7a, 0x7c, 0x3b, 0x41, 0xb8, 0xae, 0x16, 0x56, 0xe3, 0xfa, 0xf1, 0x9f, 0xc4, 0x6a, 0xda, 0x09, 0x8d, 0xeb, 0x9c, 0x32, 0xb1, 0xfd, 0x86, 0x62, 0x05, 0x16, 0x5f, 0x49, 0xb8, 0x80},
}

func (DefaultCrypto) IsCanonicalPublicKey(key [32]byte) bool {
	for _, bad := range lowOrderPoints {
		if key == bad {
			return false
		}
	}
	return true
}

func (DefaultCrypto) PublicKeyFromSecret(secret string) [32]byte {
	scalar := sha256.Sum256([]byte(secret))
	pub, err := curve25519.X25519(scalar[:], curve25519.Basepoint)
	if err != nil {
		// X25519 only fails if the input is the wrong length, which
		// sha256.Sum256's fixed-size output rules out.
		panic(fmt.Sprintf("appendix: curve25519 basepoint mult failed: %v", err))
	}
	var out [32]byte
	copy(out[:], pub)
	return out
}

func sharedKey(secret string, peerPublicKey [32]byte) ([]byte, error) {
	scalar := sha256.Sum256([]byte(secret))
	shared, err := curve25519.X25519(scalar[:], peerPublicKey[:])
	if err != nil {
		return nil, fmt.Errorf("appendix: ECDH failed: %w", err)
	}
	key := sha256.Sum256(shared)
	return key[:], nil
}

func maybeCompress(plaintext []byte, compress bool) ([]byte, error) {
	if !compress {
		return plaintext, nil
	}
	var out bytes.Buffer
	w, err := flate.NewWriter(&out, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("appendix: compressor init: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("appendix: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("appendix: compress: %w", err)
	}
	return out.Bytes(), nil
}

func maybeDecompress(data []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return data, nil
	}
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decompression failed: %v", ErrNotValid, err)
	}
	return out, nil
}

// Encrypt implements Crypto.Encrypt: derive the shared AEAD key over ECDH,
// optionally flate-compress the plaintext, then seal with
// XChaCha20-Poly1305. The wire nonce is 32 bytes; the first 24 are the
// actual AEAD nonce; the trailing 8 carry additional randomness so the
// field still contributes to the public record the way a full 32-byte
// nonce would.
func (DefaultCrypto) Encrypt(plaintext []byte, senderSecret string, recipientPublicKey [32]byte, compress bool) (EncryptedPayload, error) {
	key, err := sharedKey(senderSecret, recipientPublicKey)
	if err != nil {
		return EncryptedPayload{}, err
	}
	body, err := maybeCompress(plaintext, compress)
	if err != nil {
		return EncryptedPayload{}, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("appendix: aead init: %w", err)
	}
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return EncryptedPayload{}, fmt.Errorf("appendix: nonce generation: %w", err)
	}
	ciphertext := aead.Seal(nil, nonce[:chacha20poly1305.NonceSizeX], body, nil)
	return EncryptedPayload{Data: ciphertext, Nonce: nonce}, nil
}

func (DefaultCrypto) Decrypt(payload EncryptedPayload, recipientSecret string, senderPublicKey [32]byte, compressed bool) ([]byte, error) {
	if len(payload.Nonce) != 32 {
		return nil, fmt.Errorf("%w: nonce must be 32 bytes, got %d", ErrNotValid, len(payload.Nonce))
	}
	key, err := sharedKey(recipientSecret, senderPublicKey)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("appendix: aead init: %w", err)
	}
	plain, err := aead.Open(nil, payload.Nonce[:chacha20poly1305.NonceSizeX], payload.Data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decryption failed: %v", ErrNotValid, err)
	}
	return maybeDecompress(plain, compressed)
}

func (DefaultCrypto) EncryptedDataLength(plaintext []byte, compress bool) (int, error) {
	body, err := maybeCompress(plaintext, compress)
	if err != nil {
		return 0, err
	}
	return len(body) + chacha20poly1305.Overhead, nil
}
