/*
NAME
  qoy.go

DESCRIPTION
  qoy.go is the top-level QOY driver: it validates descriptors, walks an
  image's blocks in raster order driving the per-block encoder/decoder in
  run.go, and wraps the result with the header and end-of-stream padding
  from header.go. Its Encode/Decode shape and nil-Logger-is-valid
  convention follow revid/revid.go's Logger-carrying API.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package qoy implements the QOY lossless codec: a block-based, predictive
// YCbCr 4:2:0 image format with per-pixel alpha.
package qoy

import (
	"github.com/ausocean/qoy/bitio"
	"github.com/ausocean/utils/logging"
)

// Format selects the in-memory pixel layout accepted by Encode or produced
// by Decode.
type Format int

const (
	// RGBA is interleaved 8-bit R, G, B, (A) samples, one pixel per group.
	RGBA Format = iota
	// YCbCr420A is the codec's own internal block layout; callers that
	// already hold YCbCrA data (e.g. from a prior Decode) can round-trip it
	// without paying for a colour conversion.
	YCbCr420A
)

// maxPixels bounds internal_width*internal_height to keep size computations
// free of overflow, following QOY_PIXELS_MAX.
const maxPixels = 600000000

// Logger is satisfied by github.com/ausocean/utils/logging's Logger, and by
// any type that forwards to it. A nil Logger is valid and disables logging.
type Logger interface {
	SetLevel(int8)
	Log(level int8, message string, params ...interface{})
}

// Stats counts per-tag emission, for diagnostic use only; it plays no part
// in the bit-stream semantics.
type Stats struct {
	Runs           int
	Literals888    int
	AlphaUnchanged int
	AlphaTags      int
	YCCTagCounts   [5]int // indexed as yccTags.
}

func logf(l Logger, level int8, msg string, params ...interface{}) {
	if l == nil {
		return
	}
	l.Log(level, msg, params...)
}

// maxEncodedSize returns the maximum number of bytes Encode can produce for
// an image of the given internal (already rounded to even) dimensions and
// channel count, per spec §5's a priori bound.
func maxEncodedSize(internalWidth, internalHeight int, channels uint8) int {
	maxBlockBytes := 7
	if channels == 4 {
		maxBlockBytes = 12
	}
	blocks := (internalWidth*internalHeight + 3) >> 2
	return headerSize + blocks*maxBlockBytes + paddingLen
}

// YCbCrABufferSize returns the number of bytes needed to hold an image of
// the given width, height and channel count in the internal YCbCrA 4:2:0
// layout, per spec §6's ycbcra_buffer_size. It returns ErrAllocationFailed
// when that size would exceed maxPixels bytes, which also keeps the
// multiplication itself far from overflowing an int.
func YCbCrABufferSize(width, height int, channels uint8) (int, error) {
	if width <= 0 || height <= 0 || (channels != 3 && channels != 4) {
		return 0, ErrInvalidArgument
	}
	rowBytes := 3
	if channels == 4 {
		rowBytes = 5
	}
	rows := (height + 1) / 2
	iw := roundUpToEven(width)
	if rows > (maxPixels/rowBytes)/iw {
		return 0, ErrAllocationFailed
	}
	return rows * iw * rowBytes, nil
}

func validateDescriptor(desc Descriptor, inChannels uint8) error {
	if desc.Width == 0 || desc.Height == 0 {
		return ErrInvalidArgument
	}
	if desc.Channels != 3 && desc.Channels != 4 {
		return ErrInvalidArgument
	}
	if inChannels != 3 && inChannels != 4 {
		return ErrInvalidArgument
	}
	if desc.Colorspace > 1 {
		return ErrInvalidArgument
	}
	iw, ih := roundUpToEven(int(desc.Width)), roundUpToEven(int(desc.Height))
	if ih >= maxPixels/iw {
		return ErrInvalidArgument
	}
	return nil
}

// Encode produces the QOY byte stream for pixels, which is interpreted
// according to format and inChannels. desc.Channels determines whether the
// encoded stream itself carries alpha; desc.Width/Height/Colorspace are
// written verbatim into the header.
func Encode(pixels []byte, desc Descriptor, inChannels uint8, format Format, l Logger) ([]byte, *Stats, error) {
	if len(pixels) == 0 || (format != RGBA && format != YCbCr420A) {
		return nil, nil, ErrInvalidArgument
	}
	if err := validateDescriptor(desc, inChannels); err != nil {
		return nil, nil, err
	}

	var blocks []Block
	if format == YCbCr420A {
		var err error
		blocks, err = unpackYCbCrA(pixels, int(desc.Width), int(desc.Height), desc.Channels)
		if err != nil {
			return nil, nil, err
		}
	} else {
		blocks = rgbaToYCbCrA(pixels, int(desc.Width), int(desc.Height), int(inChannels), int(desc.Channels))
	}

	iw, ih := roundUpToEven(int(desc.Width)), roundUpToEven(int(desc.Height))
	out := make([]byte, 0, maxEncodedSize(iw, ih, desc.Channels))
	out = writeHeader(out, desc)

	w := bitio.NewWriter(out)
	stats := &Stats{}
	hasAlpha := desc.Channels == 4
	prev := initialBlock()
	run := 0
	for _, b := range blocks {
		run = encodeBlockCounting(w, b, prev, run, hasAlpha, stats)
		prev = b
	}

	out = append(w.Bytes(), padding[:]...)

	logf(l, logging.Debug, "qoy encode complete", "blocks", len(blocks), "bytes", len(out))
	return out, stats, nil
}

// Decode parses a QOY byte stream, filling the returned Descriptor from the
// header, and reconstructs pixels in the requested output format/channels.
func Decode(data []byte, outChannels uint8, format Format, l Logger) ([]byte, Descriptor, error) {
	if format != RGBA && format != YCbCr420A {
		return nil, Descriptor{}, ErrInvalidArgument
	}
	desc, err := readHeader(data)
	if err != nil {
		return nil, Descriptor{}, err
	}
	if err := validateDescriptor(desc, outChannels); err != nil {
		return nil, Descriptor{}, err
	}

	iw, ih := roundUpToEven(int(desc.Width)), roundUpToEven(int(desc.Height))
	nblocks := (iw / 2) * (ih / 2)
	hasAlpha := desc.Channels == 4

	r := bitio.NewReader(data[headerSize:])
	blocks := make([]Block, 0, nblocks)
	prev := initialBlock()
	run := 0
	for i := 0; i < nblocks; i++ {
		var b Block
		b, run, err = decodeBlock(r, prev, run, hasAlpha)
		if err != nil {
			if err == bitio.ErrShortBuffer {
				return nil, Descriptor{}, ErrTruncated
			}
			return nil, Descriptor{}, err
		}
		blocks = append(blocks, b)
		prev = b
	}

	consumed := headerSize + r.Pos()
	if len(data)-consumed < paddingLen {
		return nil, Descriptor{}, ErrTruncated
	}
	for i := 0; i < paddingLen; i++ {
		if data[consumed+i] != tagEOF {
			return nil, Descriptor{}, ErrUnexpectedEOFTag
		}
	}

	logf(l, logging.Debug, "qoy decode complete", "blocks", len(blocks))

	if format == YCbCr420A {
		return packYCbCrA(blocks, desc.Channels), desc, nil
	}
	return ycbcraToRGBA(blocks, int(desc.Width), int(desc.Height), int(outChannels)), desc, nil
}

// encodeBlockCounting mirrors encodeBlock in run.go, additionally tallying
// which tag class was emitted into stats.
func encodeBlockCounting(w *bitio.Writer, b, p Block, run int, hasAlpha bool, stats *Stats) int {
	var alphaWritten bool
	if hasAlpha {
		alphaWritten = encodeAlpha(w, b, p)
		if alphaWritten {
			stats.AlphaTags++
		} else {
			stats.AlphaUnchanged++
		}
	}
	d := lumaChromaDiff(b, p)
	if d.isZero() {
		run = appendRun(w, run, alphaWritten)
		if run == 1 {
			stats.Runs++
		}
		return run
	}
	for i, t := range yccTags {
		if t.fits(d) {
			t.encode(w, d)
			stats.YCCTagCounts[i]++
			return 0
		}
	}
	w.WriteByte(tag888)
	for _, y := range b.Y {
		w.WriteByte(y)
	}
	w.WriteByte(b.Cb)
	w.WriteByte(b.Cr)
	stats.Literals888++
	return 0
}
