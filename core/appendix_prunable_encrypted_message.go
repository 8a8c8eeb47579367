package core

// PrunableEncryptedMessage is the hash-indexed variant of an encrypted
// message (spec §4.6): the appendix's on-wire body is always its 32-byte
// content hash; the plaintext-adjacent (ciphertext, nonce, isText,
// isCompressed) payload travels out of band through a PrunableMessageStore
// and is only pulled in on demand. The cached payload is published through
// an atomic.Pointer so a concurrent reader either sees nothing or sees a
// fully-formed PrunablePayload, never a half-written one, without a mutex on
// the common "already loaded" path.

import (
	"fmt"
	"sync/atomic"
)

func prunableHash(crypto Crypto, payload PrunablePayload) [32]byte {
	var flags [2]byte
	if payload.IsText {
		flags[0] = 1
	}
	if payload.IsCompressed {
		flags[1] = 1
	}
	buf := make([]byte, 0, 2+len(payload.Data)+len(payload.Nonce))
	buf = append(buf, flags[0], flags[1])
	buf = append(buf, payload.Data...)
	buf = append(buf, payload.Nonce...)
	return crypto.Sha256(buf)
}

// PrunableEncryptedMessage carries a content hash on the wire and, when
// available, the full payload it hashes.
type PrunableEncryptedMessage struct {
	defaultFeeSchedule
	notPhased

	version uint8
	hash    [32]byte

	loaded atomic.Pointer[PrunablePayload]
}

// NewPrunableEncryptedMessage constructs a hash-only reference, the form
// every binary-encoded appendix takes.
func NewPrunableEncryptedMessage(version uint8, hash [32]byte) *PrunableEncryptedMessage {
	return &PrunableEncryptedMessage{version: version, hash: hash}
}

// NewPrunableEncryptedMessageFromPayload constructs an appendix that already
// holds its full payload, e.g. fresh off a Seal call on the sending node.
func NewPrunableEncryptedMessageFromPayload(version uint8, payload PrunablePayload, crypto Crypto) *PrunableEncryptedMessage {
	m := NewPrunableEncryptedMessage(version, prunableHash(crypto, payload))
	m.loaded.Store(&payload)
	return m
}

func NewPrunableEncryptedMessageFromBinary(buf *Buffer, version uint8) (*PrunableEncryptedMessage, error) {
	raw, err := buf.GetBytes(32)
	if err != nil {
		return nil, err
	}
	var hash [32]byte
	copy(hash[:], raw)
	return NewPrunableEncryptedMessage(version, hash), nil
}

// NewPrunableEncryptedMessageFromJSON parses either the full form (an inner
// "encryptedMessage" object carrying data/nonce/isText/isCompressed) or the
// hash-only form (a bare "encryptedMessageHash" hex string), matching
// whichever one a peer sent.
func NewPrunableEncryptedMessageFromJSON(root map[string]interface{}, version uint8, crypto Crypto) (*PrunableEncryptedMessage, error) {
	if inner, ok := root["encryptedMessage"].(map[string]interface{}); ok {
		payload, isText, err := encryptedBodyFromJSON(inner)
		if err != nil {
			return nil, err
		}
		isCompressed, _ := inner["isCompressed"].(bool)
		full := PrunablePayload{
			IsText:       isText,
			IsCompressed: isCompressed,
			Data:         payload.Data,
			Nonce:        payload.Nonce,
		}
		return NewPrunableEncryptedMessageFromPayload(version, full, crypto), nil
	}
	hexHash, _ := root["encryptedMessageHash"].(string)
	raw, err := hexDecode(hexHash)
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: encryptedMessageHash must be 32 bytes, got %d", ErrNotValid, len(raw))
	}
	var hash [32]byte
	copy(hash[:], raw)
	return NewPrunableEncryptedMessage(version, hash), nil
}

func (m *PrunableEncryptedMessage) Kind() Kind     { return KindPrunableEncryptedMessage }
func (m *PrunableEncryptedMessage) Version() uint8 { return m.version }
func (m *PrunableEncryptedMessage) Hash() [32]byte { return m.hash }

// hasPrunableData reports whether this appendix instance is already holding
// the full payload, either because it was constructed with one or because
// loadPrunable has since rehydrated it.
func (m *PrunableEncryptedMessage) hasPrunableData() bool {
	return m.loaded.Load() != nil
}

// loadPrunable returns the full payload, pulling it from ctx.Prunable on a
// cache miss. includeExpired bypasses the MaxPrunableLifetime cutoff for
// callers (e.g. an archival query) that want a payload even past its normal
// retention window, but only when ChainConfig.IncludeExpiredPrunable also
// permits it.
func (m *PrunableEncryptedMessage) loadPrunable(tx TxContext, ctx Context, includeExpired bool) (PrunablePayload, bool, error) {
	if cached := m.loaded.Load(); cached != nil {
		ctx.Metrics.observePrunableLoad("hit")
		return *cached, true, nil
	}
	payload, ok, err := ctx.Prunable.Get(tx.ID())
	if err != nil {
		return PrunablePayload{}, false, fmt.Errorf("appendix: loading prunable payload: %w", err)
	}
	if !ok {
		ctx.Metrics.observePrunableLoad("miss")
		return PrunablePayload{}, false, nil
	}
	if !(includeExpired && ctx.Chain.IncludeExpiredPrunable) {
		age := ctx.Clock.EpochTime() - payload.Timestamp
		if age > ctx.Chain.MaxPrunableLifetime {
			ctx.Metrics.observePrunableLoad("expired")
			return PrunablePayload{}, false, nil
		}
	}
	m.loaded.CompareAndSwap(nil, &payload)
	ctx.Metrics.observePrunableLoad("loaded")
	return *m.loaded.Load(), true, nil
}

// restorePrunableData accepts a payload pushed by a peer for a previously
// hash-only appendix, verifies it against the hash already on the wire, and
// publishes it both into the store and into this instance's cache.
func (m *PrunableEncryptedMessage) restorePrunableData(tx TxContext, ctx Context, payload PrunablePayload) error {
	if prunableHash(ctx.Crypto, payload) != m.hash {
		return fmt.Errorf("%w: restored prunable payload does not match announced hash", ErrNotValid)
	}
	payload.Timestamp = tx.Timestamp()
	payload.Height = tx.Height()
	if err := ctx.Prunable.Add(tx.ID(), payload); err != nil {
		return err
	}
	m.loaded.CompareAndSwap(nil, &payload)
	return nil
}

func (m *PrunableEncryptedMessage) bodySize() int { return 32 }
func (m *PrunableEncryptedMessage) Size() int     { return versionedSize(m.version, m.bodySize()) }

// FullSize includes the out-of-band payload when this instance holds one, so
// fee computation reflects the real cost of a transaction that is actually
// carrying its prunable data rather than just referencing it.
func (m *PrunableEncryptedMessage) FullSize() int {
	size := m.Size()
	if cached := m.loaded.Load(); cached != nil {
		size += 4 + len(cached.Data) + 4 + len(cached.Nonce)
	}
	return size
}

func (m *PrunableEncryptedMessage) WriteBinary(buf *Buffer) error {
	return writeVersioned(buf, m.version, func(buf *Buffer) error {
		buf.PutBytes(m.hash[:])
		return nil
	})
}

func (m *PrunableEncryptedMessage) ToJSON() map[string]interface{} {
	out := map[string]interface{}{
		"version." + m.Kind().String(): m.version,
	}
	if cached := m.loaded.Load(); cached != nil {
		out["encryptedMessage"] = map[string]interface{}{
			"data":         hexEncode(cached.Data),
			"nonce":        hexEncode(cached.Nonce),
			"isText":       cached.IsText,
			"isCompressed": cached.IsCompressed,
		}
	} else {
		out["encryptedMessageHash"] = hexEncode(m.hash[:])
	}
	return out
}

func (m *PrunableEncryptedMessage) BaselineFee(_ TxContext, chain ChainConfig) Fee {
	return SizeBasedFee(0, chain.OneSPA/10, 32)
}
func (m *PrunableEncryptedMessage) NextFee(tx TxContext, chain ChainConfig) Fee {
	return m.BaselineFee(tx, chain)
}

// FeeEffectiveSize charges against fullSize, the same quantity FullSize
// reports, so the version byte and length framing are billed for alongside
// the ciphertext itself.
func (m *PrunableEncryptedMessage) FeeEffectiveSize() int64 {
	return int64(m.FullSize())
}

func (m *PrunableEncryptedMessage) Validate(tx TxSenderContext, ctx Context) error {
	if tx.RecipientID() == 0 {
		return fmt.Errorf("%w: prunable encrypted message requires a recipient", ErrNotValid)
	}
	payload, ok, err := m.loadPrunable(tx, ctx, true)
	if err != nil {
		return err
	}
	if !ok {
		age := ctx.Clock.EpochTime() - tx.Timestamp()
		if age < ctx.Chain.MinPrunableLifetime {
			return fmt.Errorf("%w: prunable payload for tx %d not yet available", ErrNotCurrentlyValid, tx.ID())
		}
		return nil
	}
	if prunableHash(ctx.Crypto, payload) != m.hash {
		return fmt.Errorf("%w: prunable payload does not match announced hash", ErrNotValid)
	}
	dataLen := len(payload.Data)
	if dataLen > ctx.Chain.MaxPrunableEncryptedMessageLength {
		return fmt.Errorf("%w: prunable data length %d exceeds maximum %d", ErrNotValid, dataLen, ctx.Chain.MaxPrunableEncryptedMessageLength)
	}
	nonceLen := len(payload.Nonce)
	switch {
	case dataLen > 0 && nonceLen != 32:
		return fmt.Errorf("%w: nonce must be 32 bytes when data is present, got %d", ErrNotValid, nonceLen)
	case dataLen == 0 && nonceLen != 0:
		return fmt.Errorf("%w: nonce must be empty when data is empty", ErrNotValid)
	}
	return nil
}

// Apply stores the payload this instance is holding, if any, as long as it
// is still within its retention window. Add is idempotent, so re-applying a
// block already seen is harmless.
func (m *PrunableEncryptedMessage) Apply(tx TxSenderContext, ctx Context) error {
	cached := m.loaded.Load()
	if cached == nil {
		return nil
	}
	if ctx.Clock.EpochTime()-tx.Timestamp() > ctx.Chain.MaxPrunableLifetime {
		return nil
	}
	payload := *cached
	payload.Timestamp = tx.Timestamp()
	payload.Height = tx.Height()
	if err := ctx.Prunable.Add(tx.ID(), payload); err != nil {
		return fmt.Errorf("%w: %v", ErrNotCurrentlyValid, err)
	}
	return nil
}
