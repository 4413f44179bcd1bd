/*
NAME
  tags.go

DESCRIPTION
  tags.go implements the QOY tag catalogue: the encoder's shortest-match
  classifier and the decoder's mask-ordered dispatcher described in spec
  §4.3. The table-driven shape generalises the hand-unrolled bit shifts of
  the reference C encoder into a single data-driven codec, following
  codec/h264/h264dec/cavlc.go's table-driven approach to variable-length
  fields.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package qoy

import (
	"github.com/ausocean/qoy/bitio"
	"github.com/pkg/errors"
)

// Tag bytes that are matched exactly (mask 0xFF), per spec §4.3.
const (
	tagA18  = 0xF8
	tagA42  = 0xF9
	tagA44  = 0xFA
	tagA48  = 0xFB
	tagRun1 = 0xFC
	tagRunX = 0xFD
	tag888  = 0xFE
	tagEOF  = 0xFF

	// alphaTagMask/alphaTagValue identify the six-bit prefix shared by all
	// four alpha tags, used by the decoder to recognise an alpha tag
	// before it has been dispatched by exact value.
	alphaTagMask  = 0xFC
	alphaTagValue = 0xF8
)

// yccField describes one biased, fixed-width field within a luma/chroma
// tag's payload.
type yccField struct {
	width int
	bias  int
}

// yccTag describes one of the five variable-length luma/chroma tags
// (QOY_OP_321 .. QOY_OP_865). Tags are tried by the encoder in the order
// given by yccTags, smallest first, and are distinguished by the decoder
// via matchYCCTag, which tries their masks longest first.
type yccTag struct {
	prefix     uint64
	prefixBits int
	mask       byte // mask applied to the first byte to recognise this tag
	value      byte // masked value identifying this tag
	bytes      int
	y          yccField
	cb, cr     yccField
}

// yccTags lists the five luma/chroma tags in ascending size order; the
// encoder emits the first one whose fields all fit the observed
// differences. Field widths/biases and prefixes are taken directly from
// spec §4.3's tag catalogue.
var yccTags = []yccTag{
	{prefix: 0x0, prefixBits: 1, mask: 0x80, value: 0x00, bytes: 2,
		y: yccField{3, 4}, cb: yccField{2, 2}, cr: yccField{1, 1}},
	{prefix: 0x2, prefixBits: 2, mask: 0xC0, value: 0x80, bytes: 3,
		y: yccField{4, 8}, cb: yccField{3, 4}, cr: yccField{3, 4}},
	{prefix: 0x6, prefixBits: 3, mask: 0xE0, value: 0xC0, bytes: 4,
		y: yccField{5, 16}, cb: yccField{5, 16}, cr: yccField{4, 8}},
	{prefix: 0xE, prefixBits: 4, mask: 0xF0, value: 0xE0, bytes: 5,
		y: yccField{6, 32}, cb: yccField{6, 32}, cr: yccField{6, 32}},
	{prefix: 0x1E, prefixBits: 5, mask: 0xF8, value: 0xF0, bytes: 6,
		y: yccField{8, 128}, cb: yccField{6, 32}, cr: yccField{5, 16}},
}

// fits reports whether d's luma and chroma differences all lie within t's
// biased field ranges. Per spec §4.3's note, fit is checked directly
// against each tag's asymmetric ranges rather than assumed monotone with
// tag size, since field widths do not grow from one tag to the next
// (QOY_OP_865's cb and cr fields are narrower than QOY_OP_666's).
func (t yccTag) fits(d diff) bool {
	for _, y := range d.y {
		if !fieldFits(y, t.y) {
			return false
		}
	}
	return fieldFits(d.cb, t.cb) && fieldFits(d.cr, t.cr)
}

func fieldFits(v int8, f yccField) bool {
	lo := -f.bias
	hi := (1 << uint(f.width)) - 1 - f.bias
	return int(v) >= lo && int(v) <= hi
}

// encode writes t's tag byte and fields for diff d.
func (t yccTag) encode(w *bitio.Writer, d diff) {
	w.WriteBits(t.prefix, t.prefixBits)
	for _, y := range d.y {
		w.WriteBits(biased(y, t.y.bias), t.y.width)
	}
	w.WriteBits(biased(d.cb, t.cb.bias), t.cb.width)
	w.WriteBits(biased(d.cr, t.cr.bias), t.cr.width)
}

// decode reads t's fields (the prefix bits having already been matched by
// the caller but not yet consumed from r) and returns the reconstructed
// diff.
func (t yccTag) decode(r *bitio.Reader) (diff, error) {
	var d diff
	if _, err := r.ReadBits(t.prefixBits); err != nil {
		return d, err
	}
	for i := range d.y {
		v, err := r.ReadBits(t.y.width)
		if err != nil {
			return d, err
		}
		d.y[i] = unbiased(v, t.y.bias)
	}
	v, err := r.ReadBits(t.cb.width)
	if err != nil {
		return d, err
	}
	d.cb = unbiased(v, t.cb.bias)
	v, err = r.ReadBits(t.cr.width)
	if err != nil {
		return d, err
	}
	d.cr = unbiased(v, t.cr.bias)
	return d, nil
}

func biased(v int8, bias int) uint64   { return uint64(int(v) + bias) }
func unbiased(v uint64, bias int) int8 { return int8(int(v) - bias) }

// alphaRange describes the min/max of a set of four alpha differences.
func alphaRange(da [4]int8) (min, max int8) {
	min, max = da[0], da[0]
	for _, v := range da[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// encodeAlpha writes the alpha portion of a block, returning true if an
// alpha tag was emitted (i.e. alpha changed for this block). No tag is
// written when alpha is unchanged from the running prediction.
func encodeAlpha(w *bitio.Writer, b, p Block) bool {
	if alphaUnchanged(b, p) {
		return false
	}
	if alphaFlat(b) {
		w.WriteByte(tagA18)
		w.WriteByte(b.A[0])
		return true
	}
	da := alphaDiff(b, p)
	min, max := alphaRange(da)
	switch {
	case min >= -2 && max <= 1:
		w.WriteByte(tagA42)
		for _, d := range da {
			w.WriteBits(biased(d, 2), 2)
		}
	case min >= -8 && max <= 7:
		w.WriteByte(tagA44)
		for _, d := range da {
			w.WriteBits(biased(d, 8), 4)
		}
	default:
		w.WriteByte(tagA48)
		for _, v := range b.A {
			w.WriteByte(v)
		}
	}
	return true
}

// decodeAlpha reads the payload of the alpha tag identified by tagByte and
// returns the reconstructed alpha quadruple.
func decodeAlpha(r *bitio.Reader, tagByte byte, p Block) ([4]uint8, error) {
	switch tagByte {
	case tagA18:
		v, err := r.ReadByte()
		if err != nil {
			return [4]uint8{}, err
		}
		return [4]uint8{v, v, v, v}, nil
	case tagA42:
		var da [4]int8
		for i := range da {
			v, err := r.ReadBits(2)
			if err != nil {
				return [4]uint8{}, err
			}
			da[i] = unbiased(v, 2)
		}
		return applyAlpha(p, da), nil
	case tagA44:
		var da [4]int8
		for i := range da {
			v, err := r.ReadBits(4)
			if err != nil {
				return [4]uint8{}, err
			}
			da[i] = unbiased(v, 8)
		}
		return applyAlpha(p, da), nil
	case tagA48:
		var a [4]uint8
		for i := range a {
			v, err := r.ReadByte()
			if err != nil {
				return [4]uint8{}, err
			}
			a[i] = v
		}
		return a, nil
	default:
		return [4]uint8{}, errors.Errorf("qoy: unrecognised alpha tag 0x%02X", tagByte)
	}
}

// encodeLumaChroma writes the shortest matching tag for diff d, falling
// back to QOY_OP_888 literals when no biased tag covers it.
func encodeLumaChroma(w *bitio.Writer, b Block, d diff) {
	for _, t := range yccTags {
		if t.fits(d) {
			t.encode(w, d)
			return
		}
	}
	w.WriteByte(tag888)
	for _, y := range b.Y {
		w.WriteByte(y)
	}
	w.WriteByte(b.Cb)
	w.WriteByte(b.Cr)
}

// decodeLumaChroma888 reads a QOY_OP_888 literal block (the tag byte
// having already been consumed).
func decodeLumaChroma888(r *bitio.Reader) (y [4]uint8, cb, cr uint8, err error) {
	for i := range y {
		v, err := r.ReadByte()
		if err != nil {
			return y, cb, cr, err
		}
		y[i] = v
	}
	if cb, err = r.ReadByte(); err != nil {
		return y, cb, cr, err
	}
	cr, err = r.ReadByte()
	return y, cb, cr, err
}

// matchYCCTag returns the yccTag whose mask matches b, tried in the order
// required by spec §4.3 (longest mask first; the five yccTags are already
// ordered from shortest prefix/smallest mask to longest since ascending
// tag size corresponds to ascending mask specificity in reverse -- the
// caller is responsible for testing the fixed-value tags, RUN/888/EOF,
// ahead of this table, matching the overall 0xFF,0xF8,0xF0,0xE0,0xC0,0x80
// ordering).
func matchYCCTag(b byte) (yccTag, bool) {
	// Test from the most specific (longest) mask to the least, per spec.
	for i := len(yccTags) - 1; i >= 0; i-- {
		t := yccTags[i]
		if b&t.mask == t.value {
			return t, true
		}
	}
	return yccTag{}, false
}

// errUnknownTag reports a tag byte that matched no mask in the catalogue:
// an alpha tag byte (0xF8-0xFB) appearing where none was expected, which
// can only mean the stream is corrupt or the caller mis-declared the
// image's alpha channel.
func errUnknownTag(b byte) error {
	return errors.Wrapf(ErrTruncated, "unrecognised tag byte 0x%02X", b)
}
