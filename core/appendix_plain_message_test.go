package core

import (
	"bytes"
	"errors"
	"testing"
)

// TestPlainMessageTextHi is scenario S1: a 2-byte text message at version 1
// encodes to an exact, literal wire form.
func TestPlainMessageTextHi(t *testing.T) {
	m, err := NewPlainMessage(1, []byte("hi"), true)
	if err != nil {
		t.Fatalf("NewPlainMessage: %v", err)
	}
	buf := NewWriteBuffer(m.Size())
	if err := m.WriteBinary(buf); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	want := []byte{0x01, 0x02, 0x00, 0x00, 0x80, 0x68, 0x69}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire mismatch: got % x want % x", buf.Bytes(), want)
	}
	if buf.Pos() != m.Size() {
		t.Fatalf("buffer advanced %d bytes, Size() reported %d", buf.Pos(), m.Size())
	}

	read := NewReadBuffer(buf.Bytes()[1:])
	round, err := NewPlainMessageFromBinary(read, 1)
	if err != nil {
		t.Fatalf("round-trip parse: %v", err)
	}
	if round.Version() != m.Version() || !bytes.Equal(round.Message(), m.Message()) || round.IsText() != m.IsText() {
		t.Fatalf("round-trip mismatch: got %+v want %+v", round, m)
	}
}

// TestPlainMessageOversize is scenario S2.
func TestPlainMessageOversize(t *testing.T) {
	_, err := NewPlainMessage(1, make([]byte, 1001), false)
	if !errors.Is(err, ErrNotValid) {
		t.Fatalf("expected ErrNotValid, got %v", err)
	}
}

// TestPlainMessageNonUTF8Text is scenario S3.
func TestPlainMessageNonUTF8Text(t *testing.T) {
	_, err := NewPlainMessage(1, []byte{0xC3, 0x28}, true)
	if !errors.Is(err, ErrNotValid) {
		t.Fatalf("expected ErrNotValid, got %v", err)
	}
}

func TestPlainMessageFeeMonotonic(t *testing.T) {
	small, err := NewPlainMessage(1, make([]byte, 10), false)
	if err != nil {
		t.Fatal(err)
	}
	big, err := NewPlainMessage(1, make([]byte, 900), false)
	if err != nil {
		t.Fatal(err)
	}
	chain := DefaultChainConfig()
	feeSmall, err := ComputeFee(small, nil, chain, 0)
	if err != nil {
		t.Fatal(err)
	}
	feeBig, err := ComputeFee(big, nil, chain, 0)
	if err != nil {
		t.Fatal(err)
	}
	if feeSmall > feeBig {
		t.Fatalf("fee not monotonic: fee(10)=%d > fee(900)=%d", feeSmall, feeBig)
	}
}
