package core

// Dispatch from the wire to a concrete appendix kind (spec §4.2). Which
// appendix slot is present at all is the enclosing transaction type's
// decision (out of scope here, spec §1 Non-goals); once a slot's Kind is
// known, these two functions turn a Buffer or a JSON object into the
// concrete value.

import "fmt"

// ParseAppendixBinary reads one appendix of kind from buf. txVersion is the
// enclosing transaction's wire version: version 0 transactions carry no
// per-appendix version byte at all, so every appendix under them is
// implicitly version 0.
func ParseAppendixBinary(buf *Buffer, kind Kind, txVersion int) (Appendix, error) {
	version := uint8(0)
	if txVersion > 0 {
		v, err := buf.GetByte()
		if err != nil {
			return nil, err
		}
		version = v
	}
	switch kind {
	case KindPlainMessage:
		return NewPlainMessageFromBinary(buf, version)
	case KindPublicKeyAnnouncement:
		return NewPublicKeyAnnouncementFromBinary(buf, version)
	case KindEncryptedMessage:
		return NewEncryptedMessageFromBinary(buf, version)
	case KindEncryptToSelfMessage:
		return NewEncryptToSelfMessageFromBinary(buf, version)
	case KindPrunableEncryptedMessage:
		return NewPrunableEncryptedMessageFromBinary(buf, version)
	default:
		return nil, fmt.Errorf("%w: unknown appendix kind %v", ErrNotValid, kind)
	}
}

var jsonKinds = []Kind{
	KindPlainMessage,
	KindPublicKeyAnnouncement,
	KindEncryptedMessage,
	KindEncryptToSelfMessage,
	KindPrunableEncryptedMessage,
}

// ParseAppendixJSON identifies an appendix by which "version.<Name>" key is
// present at root, then parses it. The result is either an Appendix (sealed
// form) or an *EncryptedMessageDraft (unsealed form, detected by the inner
// object carrying "messageToEncrypt" instead of "data").
func ParseAppendixJSON(root map[string]interface{}, crypto Crypto) (interface{}, error) {
	for _, kind := range jsonKinds {
		raw, present := root["version."+kind.String()]
		if !present {
			continue
		}
		version, err := jsonAppendixVersion(raw)
		if err != nil {
			return nil, err
		}
		switch kind {
		case KindPlainMessage:
			return NewPlainMessageFromJSON(root, version)
		case KindPublicKeyAnnouncement:
			return NewPublicKeyAnnouncementFromJSON(root, version)
		case KindEncryptedMessage:
			if isDraftJSON(root, "encryptedMessage") {
				return draftFromJSON(root, kind, version)
			}
			return NewEncryptedMessageFromJSON(root, version)
		case KindEncryptToSelfMessage:
			if isDraftJSON(root, "encryptToSelfMessage") {
				return draftFromJSON(root, kind, version)
			}
			return NewEncryptToSelfMessageFromJSON(root, version)
		case KindPrunableEncryptedMessage:
			if isDraftJSON(root, "encryptedMessage") {
				return draftFromJSON(root, kind, version)
			}
			return NewPrunableEncryptedMessageFromJSON(root, version, crypto)
		}
	}
	return nil, fmt.Errorf("%w: no recognized appendix version key present", ErrNotValid)
}

func jsonAppendixVersion(raw interface{}) (uint8, error) {
	switch v := raw.(type) {
	case float64:
		return uint8(v), nil
	case int:
		return uint8(v), nil
	default:
		return 0, fmt.Errorf("%w: version field is not a number", ErrNotValid)
	}
}

func isDraftJSON(root map[string]interface{}, jsonField string) bool {
	inner, ok := root[jsonField].(map[string]interface{})
	if !ok {
		return false
	}
	_, hasPlaintext := inner["messageToEncrypt"]
	_, hasCiphertext := inner["data"]
	return hasPlaintext && !hasCiphertext
}

func draftFromJSON(root map[string]interface{}, kind Kind, version uint8) (*EncryptedMessageDraft, error) {
	jsonField := "encryptedMessage"
	if kind == KindEncryptToSelfMessage {
		jsonField = "encryptToSelfMessage"
	}
	inner, _ := root[jsonField].(map[string]interface{})
	isText, _ := inner["isText"].(bool)
	isCompressed, _ := inner["isCompressed"].(bool)
	raw, _ := inner["messageToEncrypt"].(string)
	var plaintext []byte
	var err error
	if isText {
		plaintext = []byte(raw)
	} else {
		plaintext, err = hexDecode(raw)
		if err != nil {
			return nil, err
		}
	}
	var recipientKey [32]byte
	if kind != KindEncryptToSelfMessage {
		hexKey, _ := inner["recipientPublicKey"].(string)
		keyBytes, err := hexDecode(hexKey)
		if err != nil {
			return nil, err
		}
		if len(keyBytes) != 32 {
			return nil, fmt.Errorf("%w: recipientPublicKey must be 32 bytes, got %d", ErrNotValid, len(keyBytes))
		}
		copy(recipientKey[:], keyBytes)
	}
	return NewEncryptedMessageDraft(kind, version, plaintext, recipientKey, isText, isCompressed)
}
