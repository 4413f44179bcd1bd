/*
NAME
  color.go

DESCRIPTION
  color.go implements the RGBA <-> YCbCrA boundary conversion (spec §6): a
  lossy integer approximation of full-range JPEG YCbCr, applied per 2x2
  block to match the block's own 4:2:0 chroma subsampling. Odd width/height
  is handled by repeating the last column/row during encode and dropping it
  on decode, following the edge-padding convention used throughout
  codec/h264/h264dec for macroblock-aligned frame dimensions.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package qoy

// rgbaPixel is one external RGBA sample.
type rgbaPixel struct{ r, g, b, a uint8 }

// unpackYCbCrA parses a caller-supplied buffer already in the internal
// YCbCrA 4:2:0 layout (as produced by packYCbCrA) into the block sequence
// Encode operates on.
func unpackYCbCrA(buf []byte, width, height int, channels uint8) ([]Block, error) {
	size, err := YCbCrABufferSize(width, height, channels)
	if err != nil {
		return nil, err
	}
	if len(buf) < size {
		return nil, ErrInvalidArgument
	}
	iw, ih := roundUpToEven(width), roundUpToEven(height)
	blockBytes := 6
	if channels == 4 {
		blockBytes = 10
	}
	blocks := make([]Block, 0, (iw/2)*(ih/2))
	p := 0
	for i := 0; i < (iw/2)*(ih/2); i++ {
		var b Block
		b.Y = [4]uint8{buf[p], buf[p+1], buf[p+2], buf[p+3]}
		b.Cb, b.Cr = buf[p+4], buf[p+5]
		if channels == 4 {
			b.A = [4]uint8{buf[p+6], buf[p+7], buf[p+8], buf[p+9]}
		} else {
			b.A = [4]uint8{255, 255, 255, 255}
		}
		p += blockBytes
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// packYCbCrA serialises a decoded block sequence into the internal YCbCrA
// 4:2:0 byte layout: four Y samples, then Cb, Cr, then (if channels == 4)
// four A samples, per block in raster order.
func packYCbCrA(blocks []Block, channels uint8) []byte {
	blockBytes := 6
	if channels == 4 {
		blockBytes = 10
	}
	out := make([]byte, 0, len(blocks)*blockBytes)
	for _, b := range blocks {
		out = append(out, b.Y[0], b.Y[1], b.Y[2], b.Y[3], b.Cb, b.Cr)
		if channels == 4 {
			out = append(out, b.A[0], b.A[1], b.A[2], b.A[3])
		}
	}
	return out
}

// clamp8 saturates i to the range of an unsigned byte.
func clamp8(i int32) uint8 {
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return uint8(i)
}

// lumaOf returns the Y sample for a single RGB triple, per spec §6.
func lumaOf(p rgbaPixel) uint8 {
	y := (1254097*int32(p.r) + 2462056*int32(p.g) + 478151*int32(p.b)) >> 22
	return clamp8(y)
}

// chromaOf returns the shared Cb/Cr pair for a 2x2 block of RGB inputs,
// averaging by summing first per spec §6 (R4/G4/B4 are sums, not means;
// the division by four is folded into the fixed-point constants).
func chromaOf(p0, p1, p2, p3 rgbaPixel) (cb, cr uint8) {
	r4 := int32(p0.r) + int32(p1.r) + int32(p2.r) + int32(p3.r)
	g4 := int32(p0.g) + int32(p1.g) + int32(p2.g) + int32(p3.g)
	b4 := int32(p0.b) + int32(p1.b) + int32(p2.b) + int32(p3.b)
	cb = clamp8((134217728 - 44233*r4 - 86839*g4 + (b4 << 17) + (1 << 19)) >> 20)
	cr = clamp8((134217728 + (r4 << 17) - 109757*g4 - 21315*b4 + (1 << 19)) >> 20)
	return cb, cr
}

// rgbFromYCbCr reconstructs one RGB triple from a luma sample and a
// block's shared chroma pair, per spec §6.
func rgbFromYCbCr(y, cb, cr uint8) (r, g, b uint8) {
	rDiff := (11760828 * (int32(cr) - 128)) >> 23
	gDiff := (2886822*(int32(cb)-128) + 5990607*(int32(cr)-128)) >> 23
	bDiff := (14864613 * (int32(cb) - 128)) >> 23
	return clamp8(int32(y) + rDiff), clamp8(int32(y) - gDiff), clamp8(int32(y) + bDiff)
}

// roundUpToEven returns n rounded up to the nearest even number.
func roundUpToEven(n int) int {
	return (n + 1) &^ 1
}

// pixelAt returns the RGBA pixel at (x, y) in a width x height buffer with
// the given number of channels per pixel, replicating the last column/row when x or y
// falls past the declared (possibly odd) dimensions. alpha is forced opaque
// when the source has no alpha channel.
func pixelAt(buf []byte, x, y, width, height, channels int) rgbaPixel {
	if x >= width {
		x = width - 1
	}
	if y >= height {
		y = height - 1
	}
	i := (y*width + x) * channels
	p := rgbaPixel{r: buf[i], g: buf[i+1], b: buf[i+2], a: 255}
	if channels == 4 {
		p.a = buf[i+3]
	}
	return p
}

// rgbaToYCbCrA converts an RGBA (or RGB) raster of the given declared
// width/height into the internal YCbCrA block sequence, in raster block
// order. outChannels selects whether alpha is carried (4) or discarded (3).
func rgbaToYCbCrA(buf []byte, width, height, inChannels, outChannels int) []Block {
	iw, ih := roundUpToEven(width), roundUpToEven(height)
	blocks := make([]Block, 0, (iw/2)*(ih/2))
	for by := 0; by < ih; by += 2 {
		for bx := 0; bx < iw; bx += 2 {
			p0 := pixelAt(buf, bx, by, width, height, inChannels)
			p1 := pixelAt(buf, bx, by+1, width, height, inChannels)
			p2 := pixelAt(buf, bx+1, by, width, height, inChannels)
			p3 := pixelAt(buf, bx+1, by+1, width, height, inChannels)
			var blk Block
			blk.Y[0], blk.Y[1], blk.Y[2], blk.Y[3] = lumaOf(p0), lumaOf(p1), lumaOf(p2), lumaOf(p3)
			blk.Cb, blk.Cr = chromaOf(p0, p1, p2, p3)
			if outChannels == 4 {
				blk.A = [4]uint8{p0.a, p1.a, p2.a, p3.a}
			} else {
				blk.A = [4]uint8{255, 255, 255, 255}
			}
			blocks = append(blocks, blk)
		}
	}
	return blocks
}

// ycbcraToRGBA converts the internal YCbCrA block sequence of an image with
// the given declared width/height back to an RGBA (or RGB) raster,
// dropping any repeated edge column/row introduced by odd dimensions.
func ycbcraToRGBA(blocks []Block, width, height, outChannels int) []byte {
	iw := roundUpToEven(width)
	blocksPerRow := iw / 2
	out := make([]byte, width*height*outChannels)
	writePixel := func(x, y int, r, g, b, a uint8) {
		if x >= width || y >= height {
			return
		}
		i := (y*width + x) * outChannels
		out[i], out[i+1], out[i+2] = r, g, b
		if outChannels == 4 {
			out[i+3] = a
		}
	}
	for by := 0; by < roundUpToEven(height); by += 2 {
		for bx := 0; bx < iw; bx += 2 {
			blk := blocks[(by/2)*blocksPerRow+bx/2]
			r0, g0, b0 := rgbFromYCbCr(blk.Y[0], blk.Cb, blk.Cr)
			r1, g1, b1 := rgbFromYCbCr(blk.Y[1], blk.Cb, blk.Cr)
			r2, g2, b2 := rgbFromYCbCr(blk.Y[2], blk.Cb, blk.Cr)
			r3, g3, b3 := rgbFromYCbCr(blk.Y[3], blk.Cb, blk.Cr)
			writePixel(bx, by, r0, g0, b0, blk.A[0])
			writePixel(bx, by+1, r1, g1, b1, blk.A[1])
			writePixel(bx+1, by, r2, g2, b2, blk.A[2])
			writePixel(bx+1, by+1, r3, g3, b3, blk.A[3])
		}
	}
	return out
}
