/*
NAME
  bitio_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bitio

import "testing"

// TestWriteReadRoundTrip packs a sequence of odd-width fields summing to a
// whole number of bytes and checks that a Reader recovers them exactly.
func TestWriteReadRoundTrip(t *testing.T) {
	w := NewWriter(nil)
	w.WriteBits(0, 1)     // tag prefix bit for QOY_OP_321
	w.WriteBits(5, 3)     // y0
	w.WriteBits(2, 3)     // y1
	w.WriteBits(7, 3)     // y2
	w.WriteBits(0, 3)     // y3
	w.WriteBits(3, 2)     // cb
	w.WriteBits(1, 1)     // cr
	if !w.Aligned() {
		t.Fatalf("writer not byte-aligned after a whole QOY_OP_321 tag")
	}

	got := w.Bytes()
	if len(got) != 2 {
		t.Fatalf("got %d bytes, want 2", len(got))
	}

	r := NewReader(got)
	wantFields := []struct {
		width int
		want  uint64
	}{
		{1, 0}, {3, 5}, {3, 2}, {3, 7}, {3, 0}, {2, 3}, {1, 1},
	}
	for i, f := range wantFields {
		v, err := r.ReadBits(f.width)
		if err != nil {
			t.Fatalf("field %d: ReadBits(%d): %v", i, f.width, err)
		}
		if v != f.want {
			t.Errorf("field %d: got %d, want %d", i, v, f.want)
		}
	}
	if !r.Aligned() {
		t.Errorf("reader not byte-aligned after consuming a whole tag")
	}
}

// TestReadShortBuffer checks that a read past the end of the buffer reports
// ErrShortBuffer rather than reading garbage.
func TestReadShortBuffer(t *testing.T) {
	r := NewReader([]byte{0xAB})
	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("ReadBits(8): %v", err)
	}
	if _, err := r.ReadBits(1); err != ErrShortBuffer {
		t.Errorf("got err %v, want ErrShortBuffer", err)
	}
}

// TestByteAlignedFastPath checks that bytes written by WriteByte on an
// aligned cursor are read back unchanged by ReadByte.
func TestByteAlignedFastPath(t *testing.T) {
	w := NewWriter(nil)
	if err := w.WriteByte(0x42); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if err := w.WriteByte(0xFE); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	r := NewReader(w.Bytes())
	b, err := r.ReadByte()
	if err != nil || b != 0x42 {
		t.Errorf("got (%v, %v), want (0x42, nil)", b, err)
	}
	b, err = r.ReadByte()
	if err != nil || b != 0xFE {
		t.Errorf("got (%v, %v), want (0xFE, nil)", b, err)
	}
}
