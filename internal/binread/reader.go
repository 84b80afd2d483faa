// Package binread provides bounds-checked fixed-width reads over an
// immutable byte buffer. All parsers in this module go through it so that
// offset arithmetic against hostile input is checked in exactly one place.
package binread

import (
	"encoding/binary"
	"fmt"
)

// ErrOutOfBounds is the sentinel wrapped by every failed read.
var ErrOutOfBounds = fmt.Errorf("binread: out of bounds")

// Buffer is a read-only view over a byte slice with explicit-offset reads.
// It carries no cursor; callers own their positions.
type Buffer struct {
	data []byte
}

// New wraps data without copying. The caller must not mutate data while
// the Buffer is in use.
func New(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the n bytes starting at off.
func (b *Buffer) Bytes(off, n int) ([]byte, error) {
	if n < 0 || off < 0 || off+n > len(b.data) || off+n < off {
		return nil, fmt.Errorf("%w: %d bytes at offset %d (len %d)", ErrOutOfBounds, n, off, len(b.data))
	}
	return b.data[off : off+n], nil
}

// Byte returns the single byte at off.
func (b *Buffer) Byte(off int) (byte, error) {
	if off < 0 || off >= len(b.data) {
		return 0, fmt.Errorf("%w: byte at offset %d (len %d)", ErrOutOfBounds, off, len(b.data))
	}
	return b.data[off], nil
}

// U16BE reads a big-endian uint16 at off.
func (b *Buffer) U16BE(off int) (uint16, error) {
	p, err := b.Bytes(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

// U16LE reads a little-endian uint16 at off.
func (b *Buffer) U16LE(off int) (uint16, error) {
	p, err := b.Bytes(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

// U32BE reads a big-endian uint32 at off.
func (b *Buffer) U32BE(off int) (uint32, error) {
	p, err := b.Bytes(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

// U32LE reads a little-endian uint32 at off.
func (b *Buffer) U32LE(off int) (uint32, error) {
	p, err := b.Bytes(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

// S16BE reads a big-endian int16 at off.
func (b *Buffer) S16BE(off int) (int16, error) {
	v, err := b.U16BE(off)
	return int16(v), err
}

// Match reports whether the bytes at off equal sig. A range past the end
// of the buffer never matches.
func (b *Buffer) Match(off int, sig []byte) bool {
	if off < 0 || off+len(sig) > len(b.data) {
		return false
	}
	for i, c := range sig {
		if b.data[off+i] != c {
			return false
		}
	}
	return true
}

// Find returns the offset of the first occurrence of sig at or after from,
// or -1 if absent.
func (b *Buffer) Find(from int, sig []byte) int {
	if from < 0 {
		from = 0
	}
	for off := from; off+len(sig) <= len(b.data); off++ {
		if b.Match(off, sig) {
			return off
		}
	}
	return -1
}
