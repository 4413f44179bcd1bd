/*
NAME
  header.go

DESCRIPTION
  header.go reads and writes the 14-byte QOY header and the 8-byte
  end-of-stream padding, following the fixed-layout header style of
  codec/wav/wav.go (magic + big-endian fields written directly into a byte
  slice).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package qoy

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	magic      = "qoyf"
	headerSize = 14
	paddingLen = 8
)

// padding is the eight-byte end-of-stream marker: QOY_OP_EOF repeated.
// No tag byte the encoder emits is 0xFF, so the longest run of 0xFF bytes
// inside a block stream is six (the literal bytes of a QOY_OP_888, whose tag
// byte is 0xFE), which is shorter than this eight-byte marker.
var padding = [paddingLen]byte{tagEOF, tagEOF, tagEOF, tagEOF, tagEOF, tagEOF, tagEOF, tagEOF}

// Descriptor carries the header fields of a QOY image.
type Descriptor struct {
	Width, Height uint32
	Channels      uint8 // 3 (no alpha) or 4 (alpha).
	Colorspace    uint8 // 0 sRGB-with-linear-alpha, 1 all-linear; informative only.
}

// writeHeader appends the 14-byte header for desc to buf.
func writeHeader(buf []byte, desc Descriptor) []byte {
	buf = append(buf, magic...)
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], desc.Width)
	buf = append(buf, tmp[:]...)
	binary.BigEndian.PutUint32(tmp[:], desc.Height)
	buf = append(buf, tmp[:]...)
	buf = append(buf, desc.Channels, desc.Colorspace)
	return buf
}

// readHeader parses the 14-byte header at the start of buf.
func readHeader(buf []byte) (Descriptor, error) {
	if len(buf) < headerSize+paddingLen {
		return Descriptor{}, errors.Wrap(ErrTruncated, "input shorter than header + padding")
	}
	if string(buf[0:4]) != magic {
		return Descriptor{}, ErrBadMagic
	}
	return Descriptor{
		Width:      binary.BigEndian.Uint32(buf[4:8]),
		Height:     binary.BigEndian.Uint32(buf[8:12]),
		Channels:   buf[12],
		Colorspace: buf[13],
	}, nil
}
