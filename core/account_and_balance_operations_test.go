package core

import "testing"

func TestMemoryAccountStoreSetOrVerify(t *testing.T) {
	store := NewMemoryAccountStore()
	var key [32]byte
	copy(key[:], []byte("a canonical-looking test pubkey"))
	id := store.AccountIDFromKey(key)

	fresh, err := store.SetOrVerify(id, key)
	if err != nil {
		t.Fatalf("SetOrVerify failed: %v", err)
	}
	if !fresh {
		t.Fatalf("expected first SetOrVerify to report freshly set")
	}

	fresh, err = store.SetOrVerify(id, key)
	if err != nil {
		t.Fatalf("re-verify with identical key failed: %v", err)
	}
	if fresh {
		t.Fatalf("expected second SetOrVerify to report not fresh")
	}

	got, ok := store.GetPublicKey(id)
	if !ok || got != key {
		t.Fatalf("GetPublicKey returned (%x, %v), want (%x, true)", got, ok, key)
	}
}

func TestMemoryAccountStoreConflict(t *testing.T) {
	store := NewMemoryAccountStore()
	var key1, key2 [32]byte
	copy(key1[:], []byte("first public key material......"))
	copy(key2[:], []byte("second, different key material.."))
	id := store.AccountIDFromKey(key1)

	if _, err := store.SetOrVerify(id, key1); err != nil {
		t.Fatalf("initial SetOrVerify failed: %v", err)
	}
	if _, err := store.SetOrVerify(id, key2); err == nil {
		t.Fatalf("expected error when verifying a conflicting public key")
	}
}

func TestAccountIDFromKeyDeterministic(t *testing.T) {
	store := NewMemoryAccountStore()
	var key [32]byte
	copy(key[:], []byte("deterministic derivation input.."))
	id1 := store.AccountIDFromKey(key)
	id2 := store.AccountIDFromKey(key)
	if id1 != id2 {
		t.Fatalf("AccountIDFromKey not deterministic: %d != %d", id1, id2)
	}
}
