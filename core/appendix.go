package core

// Appendix is the sum type over the concrete appendix kinds (spec §3, §4.1).
// The teacher's wider codebase reaches for an abstract base class with
// virtual dispatch for this kind of polymorphism; per spec §9 this is
// re-architected as a closed tagged-variant: one Kind per concrete type,
// dispatch by switching on Kind rather than by virtual call.
type Kind int

const (
	KindPlainMessage Kind = iota
	KindPublicKeyAnnouncement
	KindEncryptedMessage
	KindEncryptToSelfMessage
	KindPrunableEncryptedMessage
)

// String names match the JSON key suffix used in "version.<Name>" (spec §3, §4.2).
func (k Kind) String() string {
	switch k {
	case KindPlainMessage:
		return "Message"
	case KindPublicKeyAnnouncement:
		return "PublicKeyAnnouncement"
	case KindEncryptedMessage:
		return "EncryptedMessage"
	case KindEncryptToSelfMessage:
		return "EncryptToSelfMessage"
	case KindPrunableEncryptedMessage:
		return "PrunableEncryptedMessage"
	default:
		return "Unknown"
	}
}

// TxContext is extended here (beyond appendix_context.go's read-only view)
// with the sender id Apply needs for PublicKeyAnnouncement-style mutation
// hooks even though, today, only the recipient side ever mutates.
type TxSenderContext interface {
	TxContext
	SenderID() int64
}

// Context bundles every collaborator an appendix's Validate/Apply/Seal
// needs (spec §6). Passed by value; all fields are interfaces or small
// value types so copying is cheap.
type Context struct {
	Accounts AccountStore
	Prunable PrunableMessageStore
	Chain    ChainConfig
	Clock    Clock
	Crypto   Crypto
	// Metrics is optional; a nil Metrics disables instrumentation entirely.
	Metrics *Metrics
}

// Appendix is the common contract every concrete kind implements (spec §4.1).
type Appendix interface {
	// Kind identifies the concrete variant for dispatch.
	Kind() Kind
	// Version is the appendix's wire version (0 only under a version-0
	// transaction).
	Version() uint8
	// Size is the on-wire byte count excluding any pruned payload.
	Size() int
	// FullSize is the byte count including a pruned payload, for fee
	// purposes.
	FullSize() int
	// WriteBinary writes the version byte (if Version() > 0) followed by
	// the body, onto buf. buf is borrowed for the call and must not be
	// retained.
	WriteBinary(buf *Buffer) error
	// ToJSON returns the appendix's JSON representation, including its
	// "version.<Name>" key.
	ToJSON() map[string]interface{}
	// BaselineFeeHeight is the height at which BaselineFee's schedule took
	// effect.
	BaselineFeeHeight() int32
	// BaselineFee is the currently active fee schedule, parameterized by the
	// chain's configured OneSPA so a deployment can retune the currency
	// multiplier without recompiling.
	BaselineFee(tx TxContext, chain ChainConfig) Fee
	// NextFeeHeight is the height the fee schedule next changes at, or
	// math.MaxInt32 if it never does.
	NextFeeHeight() int32
	// NextFee is the fee schedule that takes effect at NextFeeHeight.
	NextFee(tx TxContext, chain ChainConfig) Fee
	// FeeEffectiveSize is the kind-specific size the active fee schedule
	// is evaluated against (message byte length, dataLen-16, or fullSize;
	// spec §4.3).
	FeeEffectiveSize() int64
	// IsPhased reports whether this appendix participates in phased
	// (deferred) execution. Always false in this subsystem (spec §4.1);
	// kept as a method, not a constant, so a future phased-transaction
	// subsystem can override it per kind.
	IsPhased(tx TxContext) bool
	// Validate checks the appendix against tx and chain state. May be
	// called twice (acceptance and validateAtFinish); side-effect-free.
	Validate(tx TxSenderContext, ctx Context) error
	// Apply performs this appendix's state mutation on block application.
	// PublicKeyAnnouncement sets the recipient's public key (the only
	// account-state change), PrunableEncryptedMessage stores the payload it
	// holds in the prunable store, and every other kind is a no-op.
	Apply(tx TxSenderContext, ctx Context) error
}

const maxFeeHeight = int32(1<<31 - 1)

// defaultFeeSchedule implements the BaselineFeeHeight/NextFeeHeight/NextFee
// trio shared by every kind whose fee never changes by height (spec §4.1:
// "defaults: nextFeeHeight = +∞, nextFee = baselineFee").
type defaultFeeSchedule struct{}

func (defaultFeeSchedule) BaselineFeeHeight() int32 { return 0 }
func (defaultFeeSchedule) NextFeeHeight() int32     { return maxFeeHeight }

// notPhased implements IsPhased for every kind in this subsystem.
type notPhased struct{}

func (notPhased) IsPhased(TxContext) bool { return false }

// writeVersioned writes the version byte (if version > 0) then calls body
// to write the kind-specific payload. Shared by every concrete kind's
// WriteBinary so the "version byte iff version>0" rule (spec §4.1) lives in
// exactly one place.
func writeVersioned(buf *Buffer, version uint8, body func(*Buffer) error) error {
	if version > 0 {
		buf.PutByte(version)
	}
	return body(buf)
}

func versionedSize(version uint8, bodySize int) int {
	if version > 0 {
		return 1 + bodySize
	}
	return bodySize
}

// ComputeFee evaluates an appendix's fee at height, switching from
// BaselineFee to NextFee once height reaches NextFeeHeight (spec §4.3). This
// is the one place the two-schedule contract is actually exercised; today
// every shipped kind's NextFeeHeight is +∞, so the NextFee branch only fires
// for an Appendix implementation whose NextFeeHeight is finite (such as the
// test-local one in appendix_fee_test.go), but the switch itself is part of the
// appendix contract regardless. chain is threaded through to BaselineFee and
// NextFee so the configured OneSPA (spec §4.3) actually reaches the fee
// schedule instead of a compiled-in constant.
func ComputeFee(a Appendix, tx TxContext, chain ChainConfig, height int32) (int64, error) {
	schedule := a.BaselineFee(tx, chain)
	if height >= a.NextFeeHeight() {
		schedule = a.NextFee(tx, chain)
	}
	return schedule.Evaluate(a.FeeEffectiveSize())
}
