package core

import "fmt"

// maxPlainMessageLength is the hard cap on PlainMessage body length (spec
// §4.4). Unlike the encrypted-message limits this one is not
// chain-configurable; it is part of the wire format itself.
const maxPlainMessageLength = 1000

// PlainMessage carries an arbitrary byte payload, optionally flagged as
// text (spec §4.4). It never mutates state and never charges more than the
// flat size-based fee.
type PlainMessage struct {
	defaultFeeSchedule
	notPhased

	version uint8
	message []byte
	isText  bool
}

// NewPlainMessage constructs a sealed PlainMessage directly (the outbound
// construction path; spec §4.2's binary/JSON constructors wrap this).
func NewPlainMessage(version uint8, message []byte, isText bool) (*PlainMessage, error) {
	m := &PlainMessage{version: version, message: append([]byte(nil), message...), isText: isText}
	if err := m.checkInvariants(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PlainMessage) checkInvariants() error {
	if len(m.message) > maxPlainMessageLength {
		return fmt.Errorf("%w: message length %d exceeds maximum %d", ErrNotValid, len(m.message), maxPlainMessageLength)
	}
	if m.isText && !isCanonicalUTF8(m.message) {
		return fmt.Errorf("%w: message is not UTF-8 text", ErrNotValid)
	}
	return nil
}

// NewPlainMessageFromBinary parses a PlainMessage body (version byte, if
// any, already consumed by the caller per spec §4.2's dispatch contract).
func NewPlainMessageFromBinary(buf *Buffer, version uint8) (*PlainMessage, error) {
	header, err := buf.GetInt32()
	if err != nil {
		return nil, err
	}
	length, isText := unpackLengthFlag(header)
	message, err := buf.GetBytes(length)
	if err != nil {
		return nil, err
	}
	return NewPlainMessage(version, message, isText)
}

// NewPlainMessageFromJSON parses the {"message", "messageIsText"} pair.
func NewPlainMessageFromJSON(root map[string]interface{}, version uint8) (*PlainMessage, error) {
	hexMessage, _ := root["message"].(string)
	isText, _ := root["messageIsText"].(bool)
	var raw []byte
	var err error
	if isText {
		raw = []byte(hexMessage)
	} else {
		raw, err = hexDecode(hexMessage)
		if err != nil {
			return nil, err
		}
	}
	return NewPlainMessage(version, raw, isText)
}

func (m *PlainMessage) Kind() Kind    { return KindPlainMessage }
func (m *PlainMessage) Version() uint8 { return m.version }
func (m *PlainMessage) IsText() bool   { return m.isText }
func (m *PlainMessage) Message() []byte { return append([]byte(nil), m.message...) }

func (m *PlainMessage) bodySize() int { return 4 + len(m.message) }
func (m *PlainMessage) Size() int     { return versionedSize(m.version, m.bodySize()) }
func (m *PlainMessage) FullSize() int { return m.Size() }

func (m *PlainMessage) WriteBinary(buf *Buffer) error {
	return writeVersioned(buf, m.version, func(buf *Buffer) error {
		header, err := packLengthFlag(len(m.message), m.isText)
		if err != nil {
			return err
		}
		buf.PutInt32(header)
		buf.PutBytes(m.message)
		return nil
	})
}

func (m *PlainMessage) ToJSON() map[string]interface{} {
	out := map[string]interface{}{
		"version." + m.Kind().String(): m.version,
		"messageIsText":                m.isText,
	}
	if m.isText {
		out["message"] = string(m.message)
	} else {
		out["message"] = hexEncode(m.message)
	}
	return out
}

func (m *PlainMessage) BaselineFee(_ TxContext, chain ChainConfig) Fee {
	return SizeBasedFee(0, chain.OneSPA, 32)
}
func (m *PlainMessage) NextFee(tx TxContext, chain ChainConfig) Fee { return m.BaselineFee(tx, chain) }
func (m *PlainMessage) FeeEffectiveSize() int64   { return int64(len(m.message)) }

func (m *PlainMessage) Validate(tx TxSenderContext, ctx Context) error {
	return m.checkInvariants()
}

func (m *PlainMessage) Apply(TxSenderContext, Context) error { return nil }
