package core

// External collaborator interfaces (spec §6). The appendix subsystem only
// ever calls through these; the transaction envelope, the account state
// store, the prunable message store, the P2P transport and the HTTP/RPC
// front-end all stay out of scope and are supplied by the surrounding node.

// TxContext is the narrow view of the enclosing transaction an appendix
// needs. The real envelope (transaction type, signatures, routing) is out
// of scope; implementations only need to answer these questions.
type TxContext interface {
	// Version is the transaction's wire version. Version 0 is the legacy
	// form with no per-appendix header byte.
	Version() int
	// ID is the transaction id, used to key the prunable message store.
	ID() int64
	// RecipientID is the recipient account id, or 0 if the transaction has
	// no recipient.
	RecipientID() int64
	// Timestamp is the transaction's epoch-time timestamp.
	Timestamp() int32
	// Height is the chain height the transaction is being validated or
	// applied at.
	Height() int32
}

// AccountStore is the account-state collaborator (spec §6).
type AccountStore interface {
	// AccountIDFromKey derives the 64-bit account id bound to a public key.
	AccountIDFromKey(publicKey [32]byte) int64
	// GetPublicKey returns the public key currently on file for accountID,
	// if any.
	GetPublicKey(accountID int64) (key [32]byte, ok bool)
	// SetOrVerify sets accountID's public key to publicKey if none is set
	// yet (returning true), or verifies it against the key already on file
	// (returning false, nil on match). A mismatch is an error.
	SetOrVerify(accountID int64, publicKey [32]byte) (freshlySet bool, err error)
}

// PrunablePayload is the (isText, isCompressed, ciphertext, nonce) tuple a
// PrunableMessageStore keeps, plus the timestamp/height it was first seen
// at (carried through restores so re-insertion doesn't reset the retention
// clock).
type PrunablePayload struct {
	IsText       bool
	IsCompressed bool
	Data         []byte
	Nonce        []byte
	Timestamp    int32
	Height       int32
}

// PrunableMessageStore is the hash-indexed prunable payload collaborator
// (spec §6, §4.6). Implementations must be safe for concurrent use; Add
// must be idempotent by (txID, hash).
type PrunableMessageStore interface {
	Add(txID int64, payload PrunablePayload) error
	Get(txID int64) (PrunablePayload, bool, error)
}

// ChainConfig carries the injected, height/feature-gated constants spec §6
// lists. Never hard-code past these defaults (spec §9 "height-gated
// rules").
type ChainConfig struct {
	// ShufflingBlock is the activation height for EncryptedMessage's
	// validation rules.
	ShufflingBlock int32
	// MinPrunableLifetime is the transaction age (seconds) below which a
	// missing prunable payload fails validation as NotCurrentlyValid; at or
	// past this age a missing payload is accepted.
	MinPrunableLifetime int32
	// MaxPrunableLifetime is the age (seconds) past which a store is
	// permitted to drop a prunable payload.
	MaxPrunableLifetime int32
	// MaxEncryptedMessageLength bounds EncryptedMessage/EncryptToSelfMessage
	// ciphertext length.
	MaxEncryptedMessageLength int
	// MaxPrunableEncryptedMessageLength bounds
	// PrunableEncryptedMessage ciphertext length.
	MaxPrunableEncryptedMessageLength int
	// OneSPA is the chain's smallest-to-display currency multiplier.
	OneSPA int64
	// IncludeExpiredPrunable controls whether loadPrunable(tx, true) may
	// rehydrate a payload older than MaxPrunableLifetime.
	IncludeExpiredPrunable bool
}

// DefaultChainConfig returns the historical Nxt-family constants.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		ShufflingBlock:                    0,
		MinPrunableLifetime:               14 * 24 * 60 * 60,
		MaxPrunableLifetime:               7 * 24 * 60 * 60 * 4,
		MaxEncryptedMessageLength:         1000,
		MaxPrunableEncryptedMessageLength: 42 * 1024,
		OneSPA:                            OneSPA,
		IncludeExpiredPrunable:            false,
	}
}

// Clock is the epoch-time collaborator (spec §6).
type Clock interface {
	EpochTime() int32
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() int32

func (f ClockFunc) EpochTime() int32 { return f() }
