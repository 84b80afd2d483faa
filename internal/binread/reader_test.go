package binread

import (
	"bytes"
	"errors"
	"testing"
)

func TestBytes(t *testing.T) {
	b := New([]byte{0x01, 0x02, 0x03, 0x04, 0x05})

	got, err := b.Bytes(1, 3)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x02, 0x03, 0x04}) {
		t.Errorf("Bytes: got %v, want [2 3 4]", got)
	}

	if _, err := b.Bytes(3, 3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := b.Bytes(-1, 2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("negative offset: expected ErrOutOfBounds, got %v", err)
	}
	if _, err := b.Bytes(0, -1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("negative length: expected ErrOutOfBounds, got %v", err)
	}
}

func TestFixedWidthReads(t *testing.T) {
	b := New([]byte{0x12, 0x34, 0x56, 0x78})

	tests := []struct {
		name string
		read func() (uint32, error)
		want uint32
	}{
		{"U16BE", func() (uint32, error) { v, err := b.U16BE(0); return uint32(v), err }, 0x1234},
		{"U16LE", func() (uint32, error) { v, err := b.U16LE(0); return uint32(v), err }, 0x3412},
		{"U32BE", func() (uint32, error) { return b.U32BE(0) }, 0x12345678},
		{"U32LE", func() (uint32, error) { return b.U32LE(0) }, 0x78563412},
	}
	for _, tt := range tests {
		got, err := tt.read()
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got 0x%x, want 0x%x", tt.name, got, tt.want)
		}
	}
}

func TestReadsPastEnd(t *testing.T) {
	b := New([]byte{0x01, 0x02})

	if _, err := b.U32BE(0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("U32BE: expected ErrOutOfBounds, got %v", err)
	}
	if _, err := b.U16BE(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("U16BE: expected ErrOutOfBounds, got %v", err)
	}
	if _, err := b.Byte(2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Byte: expected ErrOutOfBounds, got %v", err)
	}
}

func TestS16BE(t *testing.T) {
	b := New([]byte{0xff, 0xfe})
	v, err := b.S16BE(0)
	if err != nil {
		t.Fatalf("S16BE: %v", err)
	}
	if v != -2 {
		t.Errorf("S16BE: got %d, want -2", v)
	}
}

func TestMatchAndFind(t *testing.T) {
	b := New([]byte("xx8BIMyy8BIM"))

	if !b.Match(2, []byte("8BIM")) {
		t.Error("Match at 2 should succeed")
	}
	if b.Match(3, []byte("8BIM")) {
		t.Error("Match at 3 should fail")
	}
	if b.Match(9, []byte("8BIM")) {
		t.Error("Match past end should fail")
	}

	if off := b.Find(0, []byte("8BIM")); off != 2 {
		t.Errorf("Find from 0: got %d, want 2", off)
	}
	if off := b.Find(3, []byte("8BIM")); off != 8 {
		t.Errorf("Find from 3: got %d, want 8", off)
	}
	if off := b.Find(9, []byte("8BIM")); off != -1 {
		t.Errorf("Find from 9: got %d, want -1", off)
	}
}
