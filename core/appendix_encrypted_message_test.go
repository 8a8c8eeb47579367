package core

import (
	"bytes"
	"testing"
)

func TestEncryptedMessageDraftSealRoundTrip(t *testing.T) {
	crypto := DefaultCrypto{}
	senderSecret := "sender secret passphrase"
	recipientSecret := "recipient secret passphrase"
	recipientKey := crypto.PublicKeyFromSecret(recipientSecret)
	senderKey := crypto.PublicKeyFromSecret(senderSecret)

	draft, err := NewEncryptedMessageDraft(KindEncryptedMessage, 1, []byte("hello recipient"), recipientKey, true, true)
	if err != nil {
		t.Fatalf("NewEncryptedMessageDraft: %v", err)
	}
	sealed, err := draft.Seal(senderSecret, crypto)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	msg, ok := sealed.(*EncryptedMessage)
	if !ok {
		t.Fatalf("Seal returned %T, want *EncryptedMessage", sealed)
	}

	buf := NewWriteBuffer(msg.Size())
	if err := msg.WriteBinary(buf); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	if buf.Pos() != msg.Size() {
		t.Fatalf("buffer advanced %d, Size() reported %d", buf.Pos(), msg.Size())
	}

	read := NewReadBuffer(buf.Bytes()[1:])
	round, err := NewEncryptedMessageFromBinary(read, 1)
	if err != nil {
		t.Fatalf("round-trip parse: %v", err)
	}
	plaintext, err := crypto.Decrypt(round.Payload(), recipientSecret, senderKey, round.isCompressed())
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(plaintext, []byte("hello recipient")) {
		t.Fatalf("decrypted plaintext mismatch: got %q", plaintext)
	}
}

func TestEncryptedMessageDraftNotYetEncrypted(t *testing.T) {
	draft, err := NewEncryptedMessageDraft(KindEncryptToSelfMessage, 1, []byte("x"), [32]byte{}, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := draft.Size(); err != ErrNotYetEncrypted {
		t.Fatalf("Size: expected ErrNotYetEncrypted, got %v", err)
	}
	if err := draft.WriteBinary(NewWriteBuffer(0)); err != ErrNotYetEncrypted {
		t.Fatalf("WriteBinary: expected ErrNotYetEncrypted, got %v", err)
	}
	if err := draft.Apply(nil, Context{}); err != ErrNotYetEncrypted {
		t.Fatalf("Apply: expected ErrNotYetEncrypted, got %v", err)
	}
}

func TestEncryptToSelfMessageValidateNoRecipientRequired(t *testing.T) {
	ctx := testContext()
	crypto := DefaultCrypto{}
	secret := "self secret"
	selfKey := crypto.PublicKeyFromSecret(secret)
	payload, err := crypto.Encrypt([]byte("note to self"), secret, selfKey, true)
	if err != nil {
		t.Fatal(err)
	}
	m := NewEncryptToSelfMessage(1, payload, true)
	tx := fakeTx{recipientID: 0, height: 0}
	if err := m.Validate(tx, ctx); err != nil {
		t.Fatalf("EncryptToSelfMessage should not require a recipient: %v", err)
	}
}
