package core

import "fmt"

// PublicKeyAnnouncement binds a 32-byte curve25519 public key to the
// transaction's recipient account id (spec §4.7). It is the only appendix
// kind in this subsystem that mutates account state on Apply.
type PublicKeyAnnouncement struct {
	defaultFeeSchedule
	notPhased

	version   uint8
	publicKey [32]byte
}

// NewPublicKeyAnnouncement constructs a sealed announcement. Canonicality
// and the recipient binding are checked at Validate time, not here, since
// those checks need chain-state collaborators this constructor does not
// have.
func NewPublicKeyAnnouncement(version uint8, publicKey [32]byte) *PublicKeyAnnouncement {
	return &PublicKeyAnnouncement{version: version, publicKey: publicKey}
}

func NewPublicKeyAnnouncementFromBinary(buf *Buffer, version uint8) (*PublicKeyAnnouncement, error) {
	raw, err := buf.GetBytes(32)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], raw)
	return NewPublicKeyAnnouncement(version, key), nil
}

func NewPublicKeyAnnouncementFromJSON(root map[string]interface{}, version uint8) (*PublicKeyAnnouncement, error) {
	hexKey, _ := root["recipientPublicKey"].(string)
	raw, err := hexDecode(hexKey)
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: recipientPublicKey must be 32 bytes, got %d", ErrNotValid, len(raw))
	}
	var key [32]byte
	copy(key[:], raw)
	return NewPublicKeyAnnouncement(version, key), nil
}

func (a *PublicKeyAnnouncement) Kind() Kind         { return KindPublicKeyAnnouncement }
func (a *PublicKeyAnnouncement) Version() uint8     { return a.version }
func (a *PublicKeyAnnouncement) PublicKey() [32]byte { return a.publicKey }

func (a *PublicKeyAnnouncement) bodySize() int { return 32 }
func (a *PublicKeyAnnouncement) Size() int     { return versionedSize(a.version, a.bodySize()) }
func (a *PublicKeyAnnouncement) FullSize() int { return a.Size() }

func (a *PublicKeyAnnouncement) WriteBinary(buf *Buffer) error {
	return writeVersioned(buf, a.version, func(buf *Buffer) error {
		buf.PutBytes(a.publicKey[:])
		return nil
	})
}

func (a *PublicKeyAnnouncement) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"version." + a.Kind().String(): a.version,
		"recipientPublicKey":           hexEncode(a.publicKey[:]),
	}
}

func (a *PublicKeyAnnouncement) BaselineFee(TxContext, ChainConfig) Fee { return NoFee }
func (a *PublicKeyAnnouncement) NextFee(TxContext, ChainConfig) Fee    { return NoFee }
func (a *PublicKeyAnnouncement) FeeEffectiveSize() int64   { return 0 }

func (a *PublicKeyAnnouncement) Validate(tx TxSenderContext, ctx Context) error {
	if tx.RecipientID() == 0 {
		return fmt.Errorf("%w: public key announcement requires a recipient", ErrNotValid)
	}
	if !ctx.Crypto.IsCanonicalPublicKey(a.publicKey) {
		return fmt.Errorf("%w: announced public key is not a canonical curve25519 key", ErrNotValid)
	}
	if ctx.Accounts.AccountIDFromKey(a.publicKey) != tx.RecipientID() {
		return fmt.Errorf("%w: announced public key does not match recipient accountId", ErrNotValid)
	}
	if existing, ok := ctx.Accounts.GetPublicKey(tx.RecipientID()); ok && existing != a.publicKey {
		return fmt.Errorf("%w: recipient account already announced a different public key", ErrNotCurrentlyValid)
	}
	return nil
}

func (a *PublicKeyAnnouncement) Apply(tx TxSenderContext, ctx Context) error {
	if _, err := ctx.Accounts.SetOrVerify(tx.RecipientID(), a.publicKey); err != nil {
		return fmt.Errorf("%w: %v", ErrNotCurrentlyValid, err)
	}
	return nil
}
