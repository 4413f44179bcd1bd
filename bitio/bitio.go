/*
DESCRIPTION
  bitio.go provides an MSB-first bit cursor used to pack and unpack the
  variable-width, byte-aligned tag fields of the QOY block coder. It is
  adapted from the bit reader in codec/h264/h264dec/bits, generalised with
  a matching writer since QOY fields are written as well as read.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitio provides an MSB-first bit cursor for packing and unpacking
// the variable-width fields used by the QOY tag catalogue. Every QOY tag's
// total field width is a whole number of bytes, so a Writer's buffer is only
// ever inspected at a byte boundary; callers never need to flush a partial
// byte.
package bitio

import "errors"

// ErrShortBuffer is returned by Reader when a read runs past the end of the
// underlying buffer.
var ErrShortBuffer = errors.New("bitio: short buffer")

// Writer accumulates bits MSB-first into a byte buffer.
//
// Field widths need not be byte-aligned individually; WriteBits may be
// called any number of times as long as the cumulative width written since
// the last byte boundary is itself byte-aligned when Bytes is called.
type Writer struct {
	buf   []byte
	acc   uint64
	nbits int
}

// NewWriter returns a Writer with its backing buffer initialised from buf,
// which is typically buf[:0] of a caller-owned slice to avoid allocation.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// WriteBits appends the low n bits of v, MSB-first.
func (w *Writer) WriteBits(v uint64, n int) {
	w.acc = w.acc<<uint(n) | (v & ((1 << uint(n)) - 1))
	w.nbits += n
	for w.nbits >= 8 {
		w.nbits -= 8
		w.buf = append(w.buf, byte(w.acc>>uint(w.nbits)))
	}
}

// WriteByte appends a single literal byte, equivalent to WriteBits(uint64(b), 8)
// but avoiding the shift-accumulate path when the cursor is already
// byte-aligned.
func (w *Writer) WriteByte(b byte) error {
	if w.nbits == 0 {
		w.buf = append(w.buf, b)
		return nil
	}
	w.WriteBits(uint64(b), 8)
	return nil
}

// Aligned reports whether the cursor sits on a byte boundary.
func (w *Writer) Aligned() bool { return w.nbits == 0 }

// Bytes returns the bytes written so far. It must only be called while the
// writer is byte-aligned.
func (w *Writer) Bytes() []byte { return w.buf }

// Reader consumes bits MSB-first from a byte slice.
type Reader struct {
	buf []byte
	pos int // next unread byte in buf

	acc   uint64
	nbits int
}

// NewReader returns a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// ReadBits returns the next n bits, MSB-first, as the low bits of the
// result. It reports an error if the underlying buffer is exhausted before
// n bits are available.
//
// The accumulator layout mirrors bits.BitReader.ReadBits: acc holds nbits
// valid low-order bits, and the requested field is extracted by shifting the
// desired bits into the least-significant position before masking.
func (r *Reader) ReadBits(n int) (uint64, error) {
	for n > r.nbits {
		if r.pos >= len(r.buf) {
			return 0, ErrShortBuffer
		}
		r.acc = r.acc<<8 | uint64(r.buf[r.pos])
		r.pos++
		r.nbits += 8
	}
	v := (r.acc >> uint(r.nbits-n)) & ((1 << uint(n)) - 1)
	r.nbits -= n
	return v, nil
}

// ReadByte returns the next literal byte. It is equivalent to ReadBits(8)
// but avoids the shift-accumulate path when the cursor is byte-aligned.
func (r *Reader) ReadByte() (byte, error) {
	if r.nbits == 0 {
		if r.pos >= len(r.buf) {
			return 0, ErrShortBuffer
		}
		b := r.buf[r.pos]
		r.pos++
		return b, nil
	}
	v, err := r.ReadBits(8)
	return byte(v), err
}

// Aligned reports whether the cursor sits on a byte boundary.
func (r *Reader) Aligned() bool { return r.nbits == 0 }

// Pos returns the offset, in bytes, of the next unread byte boundary-aligned
// position. It is only meaningful when Aligned reports true.
func (r *Reader) Pos() int { return r.pos }

// PeekByte returns the next byte without advancing the cursor. The caller
// must be byte-aligned; QOY tags always begin on a byte boundary, so every
// call site peeks before any bits of the tag have been consumed.
func (r *Reader) PeekByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrShortBuffer
	}
	return r.buf[r.pos], nil
}
