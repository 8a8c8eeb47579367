package core

// EncryptedMessageDraft models the "unsealed draft" value spec §3 describes
// for EncryptedMessage, EncryptToSelfMessage and PrunableEncryptedMessage: a
// plaintext plus encryption parameters that cannot be serialized or applied
// until Seal derives the shared secret and produces the sealed Appendix
// (FeeEffectiveSize can still predict its fee size beforehand). It is intentionally not an Appendix implementation itself —
// WriteBinary/Size/Apply have no sensible unsealed behavior beyond raising
// ErrNotYetEncrypted, and giving the type its own distinct shape makes that
// impossible-state-impossible rather than a runtime check scattered across
// every method.

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

type EncryptedMessageDraft struct {
	kind               Kind
	version            uint8
	plaintext          []byte
	recipientPublicKey [32]byte
	isText             bool
	isCompressed       bool
}

// NewEncryptedMessageDraft builds an unsealed draft for kind, which must be
// one of KindEncryptedMessage, KindEncryptToSelfMessage or
// KindPrunableEncryptedMessage. recipientPublicKey is ignored for
// KindEncryptToSelfMessage, which always seals to the sender's own key.
func NewEncryptedMessageDraft(kind Kind, version uint8, plaintext []byte, recipientPublicKey [32]byte, isText, isCompressed bool) (*EncryptedMessageDraft, error) {
	switch kind {
	case KindEncryptedMessage, KindEncryptToSelfMessage, KindPrunableEncryptedMessage:
	default:
		return nil, fmt.Errorf("%w: %s cannot be drafted unsealed", ErrNotValid, kind)
	}
	return &EncryptedMessageDraft{
		kind:               kind,
		version:            version,
		plaintext:          append([]byte(nil), plaintext...),
		recipientPublicKey: recipientPublicKey,
		isText:             isText,
		isCompressed:       isCompressed,
	}, nil
}

func (d *EncryptedMessageDraft) Kind() Kind { return d.kind }

// FeeEffectiveSize predicts the size the sealed appendix's fee will be
// evaluated against, without deriving any key material: compression is a
// pure function of the plaintext and does not depend on the shared secret.
func (d *EncryptedMessageDraft) FeeEffectiveSize() (int64, error) {
	body, err := maybeCompress(d.plaintext, d.isCompressed)
	if err != nil {
		return 0, err
	}
	if d.kind == KindPrunableEncryptedMessage {
		// The sealed prunable form is billed on FullSize: the hash body plus
		// the framed ciphertext (body and AEAD tag) and its 32-byte nonce.
		dataLen := len(body) + chacha20poly1305.Overhead
		return int64(versionedSize(d.version, 32) + 4 + dataLen + 4 + 32), nil
	}
	return int64(len(body)), nil
}

// ToJSON returns the draft's JSON form: the plaintext to encrypt rather than
// ciphertext, distinguishing it from a sealed appendix's JSON by the
// "messageToEncrypt" key (spec §3, §4.2).
func (d *EncryptedMessageDraft) ToJSON() map[string]interface{} {
	jsonField := "encryptedMessage"
	if d.kind == KindEncryptToSelfMessage {
		jsonField = "encryptToSelfMessage"
	}
	inner := map[string]interface{}{
		"isText":       d.isText,
		"isCompressed": d.isCompressed,
	}
	if d.isText {
		inner["messageToEncrypt"] = string(d.plaintext)
	} else {
		inner["messageToEncrypt"] = hexEncode(d.plaintext)
	}
	if d.kind != KindEncryptToSelfMessage {
		inner["recipientPublicKey"] = hexEncode(d.recipientPublicKey[:])
	}
	return map[string]interface{}{
		"version." + d.kind.String(): d.version,
		jsonField:                    inner,
	}
}

// Seal derives the ECDH shared secret from senderSecret and encrypts the
// draft's plaintext, returning the immutable sealed Appendix of the kind
// this draft was built for.
func (d *EncryptedMessageDraft) Seal(senderSecret string, crypto Crypto) (Appendix, error) {
	recipientKey := d.recipientPublicKey
	if d.kind == KindEncryptToSelfMessage {
		recipientKey = crypto.PublicKeyFromSecret(senderSecret)
	}
	payload, err := crypto.Encrypt(d.plaintext, senderSecret, recipientKey, d.isCompressed)
	if err != nil {
		return nil, fmt.Errorf("appendix: sealing draft: %w", err)
	}
	switch d.kind {
	case KindEncryptedMessage:
		return newEncryptedMessage(d.version, payload, d.isText), nil
	case KindEncryptToSelfMessage:
		return newEncryptToSelfMessage(d.version, payload, d.isText), nil
	case KindPrunableEncryptedMessage:
		full := PrunablePayload{IsText: d.isText, IsCompressed: d.isCompressed, Data: payload.Data, Nonce: payload.Nonce}
		return NewPrunableEncryptedMessageFromPayload(d.version, full, crypto), nil
	default:
		return nil, fmt.Errorf("%w: %s cannot be drafted unsealed", ErrNotValid, d.kind)
	}
}

// WriteBinary, Size and Apply exist only so a caller that accidentally holds
// a draft where it expected a sealed Appendix gets a clear, typed error
// instead of a nil-pointer panic or silently wrong bytes on the wire.
func (d *EncryptedMessageDraft) WriteBinary(*Buffer) error { return ErrNotYetEncrypted }
func (d *EncryptedMessageDraft) Size() (int, error)        { return 0, ErrNotYetEncrypted }
func (d *EncryptedMessageDraft) Apply(TxSenderContext, Context) error {
	return ErrNotYetEncrypted
}
