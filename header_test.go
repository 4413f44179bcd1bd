/*
NAME
  header_test.go

DESCRIPTION
  header_test.go contains tests for header.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package qoy

import (
	"errors"
	"testing"
)

func TestWriteReadHeaderRoundTrip(t *testing.T) {
	desc := Descriptor{Width: 1920, Height: 1080, Channels: 4, Colorspace: 1}
	buf := writeHeader(nil, desc)
	if len(buf) != headerSize {
		t.Fatalf("writeHeader produced %d bytes, want %d", len(buf), headerSize)
	}
	buf = append(buf, padding[:]...)

	got, err := readHeader(buf)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if got != desc {
		t.Errorf("readHeader round trip = %+v, want %+v", got, desc)
	}
}

func TestReadHeaderBadMagic(t *testing.T) {
	desc := Descriptor{Width: 4, Height: 4, Channels: 3}
	buf := writeHeader(nil, desc)
	buf[0] = 'x'
	buf = append(buf, padding[:]...)

	_, err := readHeader(buf)
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("readHeader with corrupt magic = %v, want ErrBadMagic", err)
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	desc := Descriptor{Width: 4, Height: 4, Channels: 3}
	buf := writeHeader(nil, desc)
	// Missing the 8-byte padding (and thus shorter than headerSize+paddingLen).
	_, err := readHeader(buf)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("readHeader on truncated input = %v, want ErrTruncated", err)
	}
}
