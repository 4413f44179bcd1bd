/*
NAME
  block.go

DESCRIPTION
  block.go defines the 2x2 YCbCrA block, the rolling prediction state, and
  the per-field signed differencing described for the QOY block coder. The
  delta/state-carrying shape mirrors codec/adpcm/adpcm.go's Encoder/Decoder,
  which likewise predicts a sample from running state and reconstructs it
  from a signed delta.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package qoy

// Block is a 2x2 pixel tile, the unit of QOY encode/decode. Y holds the
// four luma samples in column order within the block (top-left,
// bottom-left, top-right, bottom-right); Cb and Cr are shared by the whole
// block; A holds the four alpha samples and is meaningful only when the
// image carries an alpha channel.
type Block struct {
	Y      [4]uint8
	Cb, Cr uint8
	A      [4]uint8
}

// initialBlock returns the prediction base used before any block has been
// coded: zero luma and chroma, fully opaque alpha.
func initialBlock() Block {
	return Block{A: [4]uint8{255, 255, 255, 255}}
}

// diff holds the signed per-field differences between a block and its
// prediction base.
type diff struct {
	y      [4]int8
	cb, cr int8
}

// lumaChromaDiff computes the luma and chroma differences of b against the
// previous block p, following the chaining rule in spec §4.2: y[2] and
// y[3] are predicted from the block's own y[0] and y[1] rather than from p,
// since horizontal correlation within a block is stronger than diagonal
// correlation across blocks.
func lumaChromaDiff(b, p Block) diff {
	return diff{
		y: [4]int8{
			wrapSub(b.Y[0], p.Y[2]),
			wrapSub(b.Y[1], p.Y[3]),
			wrapSub(b.Y[2], b.Y[0]),
			wrapSub(b.Y[3], b.Y[1]),
		},
		cb: wrapSub(b.Cb, p.Cb),
		cr: wrapSub(b.Cr, p.Cr),
	}
}

// isZero reports whether every luma and chroma field differs from the
// prediction base by zero, the trigger for run coding. The zero test is
// over d.y[0..3] as resolved in spec §9's open question.
func (d diff) isZero() bool {
	return d.y[0] == 0 && d.y[1] == 0 && d.y[2] == 0 && d.y[3] == 0 && d.cb == 0 && d.cr == 0
}

// alphaDiff computes the alpha differences of b against p, using the same
// intra-block chaining pattern as luma.
func alphaDiff(b, p Block) [4]int8 {
	return [4]int8{
		wrapSub(b.A[0], p.A[2]),
		wrapSub(b.A[1], p.A[3]),
		wrapSub(b.A[2], b.A[0]),
		wrapSub(b.A[3], b.A[1]),
	}
}

// alphaUnchanged reports whether b's alpha samples are flat and match p's
// running a[2] prediction, the condition under which no alpha tag is
// emitted at all.
func alphaUnchanged(b, p Block) bool {
	return b.A[0] == b.A[1] && b.A[0] == b.A[2] && b.A[0] == b.A[3] && b.A[0] == p.A[2]
}

// alphaFlat reports whether b's alpha samples are all equal, regardless of
// whether they match the prediction.
func alphaFlat(b Block) bool {
	return b.A[0] == b.A[1] && b.A[0] == b.A[2] && b.A[0] == b.A[3]
}

// wrapSub returns the signed 8-bit wrap-around difference a-b, computed as
// unsigned byte subtraction and reinterpreted as a signed byte. This is
// bit-exact regardless of the implementing language's native integer
// representation.
func wrapSub(a, b uint8) int8 {
	return int8(a - b)
}

// wrapAdd reverses wrapSub: given a base sample and a signed difference, it
// reconstructs the original unsigned byte via the symmetric modular
// addition.
func wrapAdd(base uint8, d int8) uint8 {
	return base + uint8(d)
}

// applyLumaChroma reconstructs B's luma and chroma samples from prediction
// base p and differences d, following the same base-then-chain order used
// by the encoder: y[0]/y[1] are predicted from p's y[2]/y[3], then
// y[2]/y[3] are predicted from the just-reconstructed y[0]/y[1].
func applyLumaChroma(p Block, d diff) (y [4]uint8, cb, cr uint8) {
	y[0] = wrapAdd(p.Y[2], d.y[0])
	y[1] = wrapAdd(p.Y[3], d.y[1])
	y[2] = wrapAdd(y[0], d.y[2])
	y[3] = wrapAdd(y[1], d.y[3])
	cb = wrapAdd(p.Cb, d.cb)
	cr = wrapAdd(p.Cr, d.cr)
	return y, cb, cr
}

// applyAlpha reconstructs B's alpha samples from prediction base p and
// differences da, using the same chaining order as applyLumaChroma.
func applyAlpha(p Block, da [4]int8) (a [4]uint8) {
	a[0] = wrapAdd(p.A[2], da[0])
	a[1] = wrapAdd(p.A[3], da[1])
	a[2] = wrapAdd(a[0], da[2])
	a[3] = wrapAdd(a[1], da[3])
	return a
}

// collapseAlpha returns the alpha quadruple produced when no alpha tag is
// read for a block: every sample takes on the running a[2] prediction, per
// spec §4.4's run recurrence (which applies identically to a block whose
// alpha is simply unchanged, run or not).
func collapseAlpha(p Block) [4]uint8 {
	return [4]uint8{p.A[2], p.A[2], p.A[2], p.A[2]}
}

// runContinuation returns the block produced by extending a run: luma and
// chroma are carried forward unchanged by the run recurrence and alpha (if
// present) collapses onto the running a[2] prediction.
func runContinuation(p Block, hasAlpha bool) Block {
	b := p
	b.Y[0] = p.Y[2]
	b.Y[1] = p.Y[3]
	if hasAlpha {
		b.A = collapseAlpha(p)
	}
	return b
}
