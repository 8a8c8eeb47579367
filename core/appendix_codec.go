package core

// Positional byte buffer and small encoding helpers shared by every
// appendix kind. Mirrors the style of the teacher's account/ledger helpers:
// plain structs, no reflection, errors returned rather than panicked.

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"unicode/utf8"
)

// Buffer is a little-endian, positional byte buffer. A Buffer is either a
// write buffer (backed by a growing slice) or a read buffer (backed by a
// fixed slice with a cursor); both share the same type so call sites that
// only need Put or only need Get don't have to care which.
type Buffer struct {
	buf []byte
	pos int
}

// NewWriteBuffer returns an empty buffer with capacity pre-reserved.
func NewWriteBuffer(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// NewReadBuffer wraps data for sequential reads. data is not copied; callers
// must not mutate it while the Buffer is in use.
func NewReadBuffer(data []byte) *Buffer {
	return &Buffer{buf: data}
}

// Bytes returns the buffer's full backing slice (the written bytes for a
// write buffer, the original input for a read buffer).
func (b *Buffer) Bytes() []byte { return b.buf }

// Pos returns the current read/write cursor.
func (b *Buffer) Pos() int { return b.pos }

// Remaining returns the number of unread bytes left in a read buffer.
func (b *Buffer) Remaining() int { return len(b.buf) - b.pos }

// PutByte appends a single byte and advances the cursor.
func (b *Buffer) PutByte(v byte) {
	b.buf = append(b.buf, v)
	b.pos++
}

// PutInt32 appends v as 4 little-endian bytes.
func (b *Buffer) PutInt32(v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	b.buf = append(b.buf, tmp[:]...)
	b.pos += 4
}

// PutBytes appends v verbatim.
func (b *Buffer) PutBytes(v []byte) {
	b.buf = append(b.buf, v...)
	b.pos += len(v)
}

// GetByte reads and consumes a single byte.
func (b *Buffer) GetByte() (byte, error) {
	if b.Remaining() < 1 {
		return 0, fmt.Errorf("%w: truncated buffer reading 1 byte, %d remaining", ErrNotValid, b.Remaining())
	}
	v := b.buf[b.pos]
	b.pos++
	return v, nil
}

// GetInt32 reads and consumes 4 little-endian bytes.
func (b *Buffer) GetInt32() (int32, error) {
	if b.Remaining() < 4 {
		return 0, fmt.Errorf("%w: truncated buffer reading int32, %d remaining", ErrNotValid, b.Remaining())
	}
	v := binary.LittleEndian.Uint32(b.buf[b.pos : b.pos+4])
	b.pos += 4
	return int32(v), nil
}

// GetBytes reads and consumes exactly n bytes. The returned slice aliases
// the buffer's backing array and must be copied by the caller before the
// buffer is reused or mutated.
func (b *Buffer) GetBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrNotValid, n)
	}
	if b.Remaining() < n {
		return nil, fmt.Errorf("%w: truncated buffer reading %d bytes, %d remaining", ErrNotValid, n, b.Remaining())
	}
	v := b.buf[b.pos : b.pos+n]
	b.pos += n
	return v, nil
}

// --- sign-bit-in-length helpers (PlainMessage / encrypted message bodies) ---

const lengthSignBit = int32(1) << 31

// packLengthFlag packs a length (<= 0x7FFFFFFF) and a boolean flag into a
// single int32 the way the wire format does: the high bit carries the flag,
// the low 31 bits carry the length.
func packLengthFlag(length int, flag bool) (int32, error) {
	if length < 0 || int64(length) > int64(lengthSignBit-1) {
		return 0, fmt.Errorf("%w: length %d does not fit in 31 bits", ErrNotValid, length)
	}
	v := int32(length)
	if flag {
		v = int32(uint32(v) | uint32(lengthSignBit))
	}
	return v, nil
}

// unpackLengthFlag is the inverse of packLengthFlag.
func unpackLengthFlag(v int32) (length int, flag bool) {
	flag = uint32(v)&uint32(lengthSignBit) != 0
	length = int(uint32(v) &^ uint32(lengthSignBit))
	return length, flag
}

// isCanonicalUTF8 reports whether b is valid UTF-8 that re-encodes to the
// identical byte sequence, rejecting overlong encodings, lone surrogates
// and any other form accepted by a looser decoder. Go's utf8.Valid already
// rejects all of those, but the explicit decode/compare keeps the
// invariant self-evident at the call site and matches the literal
// canonicalization check spec.md asks for.
func isCanonicalUTF8(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], r)
		out = append(out, tmp[:n]...)
		i += size
	}
	return string(out) == string(b)
}

// hexEncode/hexDecode are thin wrappers kept local so every call site in
// this package goes through one place (makes it easy to see the subsystem's
// full hex surface at a glance).
func hexEncode(b []byte) string { return hex.EncodeToString(b) }

func hexDecode(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex: %v", ErrNotValid, err)
	}
	return b, nil
}
