package core

import (
	"errors"
	"testing"
)

// TestPrunableEncryptedMessageRehydration is scenario S6.
func TestPrunableEncryptedMessageRehydration(t *testing.T) {
	ctx := testContext()
	payload := PrunablePayload{
		IsText:       true,
		IsCompressed: false,
		Data:         append([]byte("ciphertext-placeholder-"), make([]byte, 16)...),
		Nonce:        make([]byte, 32),
		Timestamp:    ctx.Clock.EpochTime() - 100,
		Height:       42,
	}
	hash := prunableHash(ctx.Crypto, payload)

	m := NewPrunableEncryptedMessage(1, hash)
	if m.hasPrunableData() {
		t.Fatal("hash-only appendix must not report prunable data before loading")
	}

	if err := ctx.Prunable.(*KVPrunableStore).Add(7, payload); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	tx := fakeTx{id: 7, recipientID: 5}
	loaded, ok, err := m.loadPrunable(tx, ctx, false)
	if err != nil {
		t.Fatalf("loadPrunable: %v", err)
	}
	if !ok {
		t.Fatal("expected loadPrunable to find the seeded payload")
	}
	if !m.hasPrunableData() {
		t.Fatal("hasPrunableData should be true after a successful load")
	}
	if got := prunableHash(ctx.Crypto, loaded); got != hash {
		t.Fatalf("rehydrated payload hash mismatch: got %x want %x", got, hash)
	}
}

// TestPrunableEncryptedMessagePrematurePrune is scenario S7.
func TestPrunableEncryptedMessagePrematurePrune(t *testing.T) {
	ctx := testContext()
	var hash [32]byte
	m := NewPrunableEncryptedMessage(1, hash)
	tx := fakeTx{id: 99, recipientID: 5, timestamp: ctx.Clock.EpochTime() - 10}

	err := m.Validate(tx, ctx)
	if !errors.Is(err, ErrNotCurrentlyValid) {
		t.Fatalf("expected ErrNotCurrentlyValid for a too-fresh missing payload, got %v", err)
	}
}

// TestPrunableHashStability is testable property 6: two independently built
// copies of the same logical payload hash identically.
func TestPrunableHashStability(t *testing.T) {
	crypto := DefaultCrypto{}
	payload := PrunablePayload{
		IsText:       false,
		IsCompressed: true,
		Data:         []byte{1, 2, 3, 4, 5},
		Nonce:        make([]byte, 32),
	}
	h1 := prunableHash(crypto, payload)
	h2 := prunableHash(crypto, PrunablePayload{
		IsText:       payload.IsText,
		IsCompressed: payload.IsCompressed,
		Data:         append([]byte(nil), payload.Data...),
		Nonce:        append([]byte(nil), payload.Nonce...),
	})
	if h1 != h2 {
		t.Fatalf("hash not stable across equal payloads: %x != %x", h1, h2)
	}
}
