package core

import (
	"errors"
	"testing"
)

func canonicalKey(t *testing.T) [32]byte {
	t.Helper()
	var key [32]byte
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

// TestPublicKeyAnnouncementMismatch is scenario S4.
func TestPublicKeyAnnouncementMismatch(t *testing.T) {
	ctx := testContext()
	key := canonicalKey(t)
	realAccountID := ctx.Accounts.AccountIDFromKey(key)
	tx := fakeTx{recipientID: realAccountID + 1}

	a := NewPublicKeyAnnouncement(1, key)
	err := a.Validate(tx, ctx)
	if !errors.Is(err, ErrNotValid) {
		t.Fatalf("expected ErrNotValid, got %v", err)
	}
}

// TestPublicKeyAnnouncementConflict is scenario S5.
func TestPublicKeyAnnouncementConflict(t *testing.T) {
	ctx := testContext()
	key := canonicalKey(t)
	accountID := ctx.Accounts.AccountIDFromKey(key)
	other := key
	other[31] ^= 0xFF
	if _, err := ctx.Accounts.SetOrVerify(accountID, other); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	tx := fakeTx{recipientID: accountID}
	a := NewPublicKeyAnnouncement(1, key)
	err := a.Validate(tx, ctx)
	if !errors.Is(err, ErrNotCurrentlyValid) {
		t.Fatalf("expected ErrNotCurrentlyValid, got %v", err)
	}
}

// TestPublicKeyAnnouncementApplyIdempotent is testable property 7.
func TestPublicKeyAnnouncementApplyIdempotent(t *testing.T) {
	ctx := testContext()
	key := canonicalKey(t)
	accountID := ctx.Accounts.AccountIDFromKey(key)
	tx := fakeTx{recipientID: accountID, senderID: 99}
	a := NewPublicKeyAnnouncement(1, key)

	if err := a.Validate(tx, ctx); err != nil {
		t.Fatalf("first validate: %v", err)
	}
	if err := a.Apply(tx, ctx); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	first, _ := ctx.Accounts.GetPublicKey(accountID)

	if err := a.Validate(tx, ctx); err != nil {
		t.Fatalf("second validate: %v", err)
	}
	if err := a.Apply(tx, ctx); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	second, _ := ctx.Accounts.GetPublicKey(accountID)

	if first != second {
		t.Fatalf("account state changed across idempotent applies: %x != %x", first, second)
	}
}
