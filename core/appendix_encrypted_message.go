package core

// EncryptedMessage and EncryptToSelfMessage (spec §4.5) share an identical
// wire body and validation rule set; they differ only in the JSON/Kind tag
// and in whether a recipient is required. encryptedBody holds the shared
// state and logic; the two exported types are thin wrappers that pick the
// Kind and the recipient requirement.

import "fmt"

// encryptedBody is the sealed (ciphertext, nonce) payload shared by both
// non-prunable encrypted appendix kinds.
type encryptedBody struct {
	defaultFeeSchedule
	notPhased

	kind    Kind
	version uint8
	payload EncryptedPayload
	isText  bool
}

// isCompressed derives the compression flag from the version byte (spec §4.5
// invariant: version 1 <=> compressed, version 2 <=> not compressed). A
// version-0 body (legacy, no appendix version byte on the wire) carries no
// independent signal of its own; this subsystem treats it the same as
// version 1, matching how the historical encrypted-message format always
// compressed under the pre-appendix-version wire layout.
func (b *encryptedBody) isCompressed() bool {
	return b.version != 2
}

func newEncryptedBody(kind Kind, version uint8, payload EncryptedPayload, isText bool) *encryptedBody {
	return &encryptedBody{kind: kind, version: version, payload: payload, isText: isText}
}

func encryptedBodyFromBinary(buf *Buffer) (EncryptedPayload, bool, error) {
	header, err := buf.GetInt32()
	if err != nil {
		return EncryptedPayload{}, false, err
	}
	length, isText := unpackLengthFlag(header)
	data, err := buf.GetBytes(length)
	if err != nil {
		return EncryptedPayload{}, false, err
	}
	nonceLen, err := buf.GetInt32()
	if err != nil {
		return EncryptedPayload{}, false, err
	}
	nonce, err := buf.GetBytes(int(nonceLen))
	if err != nil {
		return EncryptedPayload{}, false, err
	}
	payload := EncryptedPayload{
		Data:  append([]byte(nil), data...),
		Nonce: append([]byte(nil), nonce...),
	}
	return payload, isText, nil
}

func encryptedBodyFromJSON(inner map[string]interface{}) (EncryptedPayload, bool, error) {
	hexData, _ := inner["data"].(string)
	hexNonce, _ := inner["nonce"].(string)
	isText, _ := inner["isText"].(bool)
	data, err := hexDecode(hexData)
	if err != nil {
		return EncryptedPayload{}, false, err
	}
	nonce, err := hexDecode(hexNonce)
	if err != nil {
		return EncryptedPayload{}, false, err
	}
	return EncryptedPayload{Data: data, Nonce: nonce}, isText, nil
}

func (b *encryptedBody) bodySize() int {
	return 4 + len(b.payload.Data) + 4 + len(b.payload.Nonce)
}
func (b *encryptedBody) Size() int     { return versionedSize(b.version, b.bodySize()) }
func (b *encryptedBody) FullSize() int { return b.Size() }

func (b *encryptedBody) writeBinary(buf *Buffer) error {
	return writeVersioned(buf, b.version, func(buf *Buffer) error {
		header, err := packLengthFlag(len(b.payload.Data), b.isText)
		if err != nil {
			return err
		}
		buf.PutInt32(header)
		buf.PutBytes(b.payload.Data)
		buf.PutInt32(int32(len(b.payload.Nonce)))
		buf.PutBytes(b.payload.Nonce)
		return nil
	})
}

func (b *encryptedBody) toJSON(versionKey, jsonField string) map[string]interface{} {
	return map[string]interface{}{
		"version." + versionKey: b.version,
		jsonField: map[string]interface{}{
			"data":         hexEncode(b.payload.Data),
			"nonce":        hexEncode(b.payload.Nonce),
			"isText":       b.isText,
			"isCompressed": b.isCompressed(),
		},
	}
}

func (b *encryptedBody) BaselineFee(_ TxContext, chain ChainConfig) Fee {
	return SizeBasedFee(chain.OneSPA, chain.OneSPA, 32)
}
func (b *encryptedBody) NextFee(tx TxContext, chain ChainConfig) Fee {
	return b.BaselineFee(tx, chain)
}
func (b *encryptedBody) FeeEffectiveSize() int64   { return int64(b.payload.SizeOfPlaintext()) }

// checkInvariants validates the wire-level constraints every encrypted body
// must satisfy regardless of which concrete kind wraps it (spec §4.5):
// length ceiling, nonce/data consistency, and version/compression
// consistency. The recipient requirement is checked by the caller since only
// EncryptedMessage imposes it.
func (b *encryptedBody) checkInvariants(maxLength int) error {
	dataLen := len(b.payload.Data)
	if dataLen > maxLength {
		return fmt.Errorf("%w: encrypted data length %d exceeds maximum %d", ErrNotValid, dataLen, maxLength)
	}
	nonceLen := len(b.payload.Nonce)
	switch {
	case dataLen > 0 && nonceLen != 32:
		return fmt.Errorf("%w: nonce must be 32 bytes when data is present, got %d", ErrNotValid, nonceLen)
	case dataLen == 0 && nonceLen != 0:
		return fmt.Errorf("%w: nonce must be empty when data is empty", ErrNotValid)
	}
	switch b.version {
	case 1:
		if !b.isCompressed() {
			return fmt.Errorf("%w: version 1 requires isCompressed", ErrNotValid)
		}
	case 2:
		if b.isCompressed() {
			return fmt.Errorf("%w: version 2 requires not isCompressed", ErrNotValid)
		}
	}
	return nil
}

// EncryptedMessage is an ECDH-sealed message addressed to the transaction's
// recipient (spec §4.5).
type EncryptedMessage struct {
	*encryptedBody
}

func newEncryptedMessage(version uint8, payload EncryptedPayload, isText bool) *EncryptedMessage {
	return &EncryptedMessage{newEncryptedBody(KindEncryptedMessage, version, payload, isText)}
}

func NewEncryptedMessage(version uint8, payload EncryptedPayload, isText bool) *EncryptedMessage {
	return newEncryptedMessage(version, payload, isText)
}

func NewEncryptedMessageFromBinary(buf *Buffer, version uint8) (*EncryptedMessage, error) {
	payload, isText, err := encryptedBodyFromBinary(buf)
	if err != nil {
		return nil, err
	}
	return newEncryptedMessage(version, payload, isText), nil
}

func NewEncryptedMessageFromJSON(root map[string]interface{}, version uint8) (*EncryptedMessage, error) {
	inner, _ := root["encryptedMessage"].(map[string]interface{})
	payload, isText, err := encryptedBodyFromJSON(inner)
	if err != nil {
		return nil, err
	}
	return newEncryptedMessage(version, payload, isText), nil
}

func (m *EncryptedMessage) Kind() Kind         { return KindEncryptedMessage }
func (m *EncryptedMessage) IsText() bool       { return m.isText }
func (m *EncryptedMessage) Payload() EncryptedPayload { return m.payload }
func (m *EncryptedMessage) WriteBinary(buf *Buffer) error { return m.writeBinary(buf) }
func (m *EncryptedMessage) ToJSON() map[string]interface{} {
	return m.toJSON(m.Kind().String(), "encryptedMessage")
}

func (m *EncryptedMessage) Validate(tx TxSenderContext, ctx Context) error {
	if tx.Height() < ctx.Chain.ShufflingBlock {
		return nil
	}
	if tx.RecipientID() == 0 {
		return fmt.Errorf("%w: encrypted message requires a recipient", ErrNotValid)
	}
	return m.checkInvariants(ctx.Chain.MaxEncryptedMessageLength)
}

func (m *EncryptedMessage) Apply(TxSenderContext, Context) error { return nil }

// EncryptToSelfMessage is sealed to the sender's own public key so only the
// sender can ever decrypt it (spec §4.5). It carries no recipient
// requirement.
type EncryptToSelfMessage struct {
	*encryptedBody
}

func newEncryptToSelfMessage(version uint8, payload EncryptedPayload, isText bool) *EncryptToSelfMessage {
	return &EncryptToSelfMessage{newEncryptedBody(KindEncryptToSelfMessage, version, payload, isText)}
}

func NewEncryptToSelfMessage(version uint8, payload EncryptedPayload, isText bool) *EncryptToSelfMessage {
	return newEncryptToSelfMessage(version, payload, isText)
}

func NewEncryptToSelfMessageFromBinary(buf *Buffer, version uint8) (*EncryptToSelfMessage, error) {
	payload, isText, err := encryptedBodyFromBinary(buf)
	if err != nil {
		return nil, err
	}
	return newEncryptToSelfMessage(version, payload, isText), nil
}

func NewEncryptToSelfMessageFromJSON(root map[string]interface{}, version uint8) (*EncryptToSelfMessage, error) {
	inner, _ := root["encryptToSelfMessage"].(map[string]interface{})
	payload, isText, err := encryptedBodyFromJSON(inner)
	if err != nil {
		return nil, err
	}
	return newEncryptToSelfMessage(version, payload, isText), nil
}

func (m *EncryptToSelfMessage) Kind() Kind         { return KindEncryptToSelfMessage }
func (m *EncryptToSelfMessage) IsText() bool       { return m.isText }
func (m *EncryptToSelfMessage) Payload() EncryptedPayload { return m.payload }
func (m *EncryptToSelfMessage) WriteBinary(buf *Buffer) error { return m.writeBinary(buf) }
func (m *EncryptToSelfMessage) ToJSON() map[string]interface{} {
	return m.toJSON(m.Kind().String(), "encryptToSelfMessage")
}

func (m *EncryptToSelfMessage) Validate(tx TxSenderContext, ctx Context) error {
	if tx.Height() < ctx.Chain.ShufflingBlock {
		return nil
	}
	return m.checkInvariants(ctx.Chain.MaxEncryptedMessageLength)
}

func (m *EncryptToSelfMessage) Apply(TxSenderContext, Context) error { return nil }
