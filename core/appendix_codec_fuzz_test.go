package core

import (
	"testing"
)

// FuzzPlainMessageRoundTrip is testable property 1 (binary round-trip) and
// property 3 (size contract) for PlainMessage.
func FuzzPlainMessageRoundTrip(f *testing.F) {
	f.Add([]byte("hi"), false, uint8(1))
	f.Add([]byte{}, false, uint8(0))
	f.Add([]byte("hello world"), true, uint8(2))
	f.Fuzz(func(t *testing.T, message []byte, isText bool, version uint8) {
		if len(message) > maxPlainMessageLength {
			message = message[:maxPlainMessageLength]
		}
		if isText && !isCanonicalUTF8(message) {
			return
		}
		m, err := NewPlainMessage(version, message, isText)
		if err != nil {
			t.Fatalf("NewPlainMessage: %v", err)
		}
		buf := NewWriteBuffer(m.Size())
		if err := m.WriteBinary(buf); err != nil {
			t.Fatalf("WriteBinary: %v", err)
		}
		if buf.Pos() != m.Size() {
			t.Fatalf("size contract violated: advanced %d, Size() %d", buf.Pos(), m.Size())
		}

		read := NewReadBuffer(buf.Bytes())
		gotVersion := version
		body := read
		if version > 0 {
			v, err := read.GetByte()
			if err != nil {
				t.Fatalf("reading version byte: %v", err)
			}
			gotVersion = v
			body = read
		}
		round, err := NewPlainMessageFromBinary(body, gotVersion)
		if err != nil {
			t.Fatalf("round-trip parse: %v", err)
		}
		if round.Version() != m.Version() || round.IsText() != m.IsText() || string(round.Message()) != string(m.Message()) {
			t.Fatalf("round-trip mismatch: got %+v want %+v", round, m)
		}
	})
}

// FuzzIsCanonicalUTF8 is testable property 4: a PlainMessage with
// isText=true round-trips iff the bytes are canonical UTF-8.
func FuzzIsCanonicalUTF8(f *testing.F) {
	f.Add([]byte("hi"))
	f.Add([]byte{0xC3, 0x28})
	f.Add([]byte("世界"))
	f.Fuzz(func(t *testing.T, message []byte) {
		canonical := isCanonicalUTF8(message)
		_, err := NewPlainMessage(1, message, true)
		if len(message) > maxPlainMessageLength {
			return
		}
		if canonical && err != nil {
			t.Fatalf("canonical UTF-8 rejected: %v", err)
		}
		if !canonical && err == nil {
			t.Fatalf("non-canonical bytes accepted as text")
		}
	})
}

// FuzzSizeBasedFeeMonotonic is testable property 5.
func FuzzSizeBasedFeeMonotonic(f *testing.F) {
	f.Add(int64(0), int64(10), int64(100), int64(32))
	f.Fuzz(func(t *testing.T, constantPart, unitFee, sizeA, sizeB int64) {
		if constantPart < 0 || constantPart > 1<<40 {
			return
		}
		if unitFee < 0 || unitFee > 1<<20 {
			return
		}
		if sizeA < 0 || sizeB < 0 || sizeA > 1<<30 || sizeB > 1<<30 {
			return
		}
		if sizeA > sizeB {
			sizeA, sizeB = sizeB, sizeA
		}
		schedule := SizeBasedFee(constantPart, unitFee, 32)
		feeA, err := schedule.Evaluate(sizeA)
		if err != nil {
			return
		}
		feeB, err := schedule.Evaluate(sizeB)
		if err != nil {
			return
		}
		if feeA > feeB {
			t.Fatalf("fee not monotonic: fee(%d)=%d > fee(%d)=%d", sizeA, feeA, sizeB, feeB)
		}
	})
}

// FuzzPrunableHashStability is testable property 6.
func FuzzPrunableHashStability(f *testing.F) {
	f.Add([]byte("ciphertext"), make([]byte, 32), true, false)
	f.Fuzz(func(t *testing.T, data, nonce []byte, isText, isCompressed bool) {
		crypto := DefaultCrypto{}
		payload := PrunablePayload{IsText: isText, IsCompressed: isCompressed, Data: data, Nonce: nonce}
		h1 := prunableHash(crypto, payload)
		h2 := prunableHash(crypto, PrunablePayload{
			IsText:       isText,
			IsCompressed: isCompressed,
			Data:         append([]byte(nil), data...),
			Nonce:        append([]byte(nil), nonce...),
		})
		if h1 != h2 {
			t.Fatalf("hash unstable for identical payload contents")
		}
	})
}
