/*
NAME
  run.go

DESCRIPTION
  run.go implements the QOY run coder: detecting sequences of
  identically-predicted blocks, and the in-place rewrite of the trailing
  QOY_OP_RUN_1/QOY_OP_RUN_X bytes as a run grows, per spec §4.4. It also
  drives the per-block encode/decode sequencing, since whether a tag is
  read or written for a given block depends on whether a run is open.

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
)

// runSplit is one past the longest run length representable by a single
// QOY_OP_RUN_X tag (130 + 0x7FFF == 32897, per spec §4.3's long-form field
// widths). Reaching it forces the encoder to close the current run and
// open a new one starting at count 1, matching the boundary spelled out by
// spec §8's testable property 7. The reference C encoder instead resets at
// 32770; see DESIGN.md for why this implementation follows the spec's
// explicit worked example rather than that apparent off-by quirk.
const runSplit = 32898

// appendRun extends the run accumulated so far by one block, writing or
// rewriting the trailing run-tag bytes of w in place. interrupted is true
// when the block's alpha classification emitted a tag, which always forces
// the run to restart at count 1 even though the luma/chroma diff was zero.
// It returns the new run count.
func appendRun(w *bitio.Writer, run int, interrupted bool) int {
	run++
	if interrupted || run == runSplit {
		run = 1
	}
	switch {
	case run == 1:
		w.WriteByte(tagRun1)
	case run == 2:
		w.Bytes()[len(w.Bytes())-1] = tagRunX
		w.WriteByte(0)
	case run < 130:
		w.Bytes()[len(w.Bytes())-1] = byte(run - 2)
	default:
		if run == 130 {
			w.WriteByte(0)
		}
		buf := w.Bytes()
		buf[len(buf)-2] = 0x80 | byte((run-130)>>8)
		buf[len(buf)-1] = byte((run - 130) & 0xFF)
	}
	return run
}

// decodeRunCount reads the trailing count byte(s) of a QOY_OP_RUN_X tag
// (the tag byte itself already consumed) and returns the number of
// additional blocks remaining in the run after the current one.
func decodeRunCount(r *bitio.Reader) (int, error) {
	b2, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b2 < 128 {
		return int(b2) + 2 - 1, nil
	}
	b3, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return (int(b2&0x7F)<<8|int(b3))+130-1, nil
}

// encodeBlock writes one block, given the previous block p, the image's
// current run length, and whether the image carries alpha. It returns the
// updated run length.
func encodeBlock(w *bitio.Writer, b, p Block, run int, hasAlpha bool) int {
	var alphaWritten bool
	if hasAlpha {
		alphaWritten = encodeAlpha(w, b, p)
	}
	d := lumaChromaDiff(b, p)
	if d.isZero() {
		return appendRun(w, run, alphaWritten)
	}
	encodeLumaChroma(w, b, d)
	return 0
}

// decodeBlock reads and reconstructs one block, given the previous block
// p, the number of blocks remaining to be skipped in an open run, and
// whether the image carries alpha. It returns the reconstructed block and
// the updated number of blocks remaining to be skipped.
func decodeBlock(r *bitio.Reader, p Block, run int, hasAlpha bool) (Block, int, error) {
	if run > 0 {
		return runContinuation(p, hasAlpha), run - 1, nil
	}

	b := p
	if hasAlpha {
		peeked, err := r.PeekByte()
		if err != nil {
			return b, 0, err
		}
		if peeked&alphaTagMask == alphaTagValue {
			tagByte, err := r.ReadByte()
			if err != nil {
				return b, 0, err
			}
			a, err := decodeAlpha(r, tagByte, p)
			if err != nil {
				return b, 0, err
			}
			b.A = a
		} else {
			b.A = collapseAlpha(p)
		}
	}

	// The remaining byte identifies a run/888/EOF tag by exact value, or a
	// luma/chroma tag by mask. Peek it first: exact-match tags are consumed
	// outright, but a luma/chroma tag's prefix bits are only the high bits
	// of this byte, so it must still be in the reader when yccTag.decode
	// pulls its prefix and fields out bit by bit.
	peeked, err := r.PeekByte()
	if err != nil {
		return b, 0, err
	}

	switch peeked {
	case tagEOF:
		return b, 0, ErrUnexpectedEOFTag
	case tagRun1:
		r.ReadByte()
		b.Y[0], b.Y[1] = p.Y[2], p.Y[3]
		b.Y[2], b.Y[3], b.Cb, b.Cr = p.Y[2], p.Y[3], p.Cb, p.Cr
		return b, 0, nil
	case tagRunX:
		r.ReadByte()
		b.Y[0], b.Y[1] = p.Y[2], p.Y[3]
		b.Y[2], b.Y[3], b.Cb, b.Cr = p.Y[2], p.Y[3], p.Cb, p.Cr
		remaining, err := decodeRunCount(r)
		if err != nil {
			return b, 0, err
		}
		return b, remaining, nil
	case tag888:
		r.ReadByte()
		y, cb, cr, err := decodeLumaChroma888(r)
		if err != nil {
			return b, 0, err
		}
		b.Y, b.Cb, b.Cr = y, cb, cr
		return b, 0, nil
	default:
		t, ok := matchYCCTag(peeked)
		if !ok {
			return b, 0, errUnknownTag(peeked)
		}
		d, err := t.decode(r)
		if err != nil {
			return b, 0, err
		}
		y, cb, cr := applyLumaChroma(p, d)
		b.Y, b.Cb, b.Cr = y, cb, cr
		return b, 0, nil
	}
}
