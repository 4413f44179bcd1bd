/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel errors returned by the QOY codec, following
  the var Err... convention used by container/mts/mpegts.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package qoy

import "github.com/pkg/errors"

// Sentinel errors returned by Encode and Decode. Use errors.Is to test for
// a specific kind; wrapped context (offending offset, field, etc.) is added
// with errors.Wrap/errors.Wrapf and preserved under errors.Is/errors.Cause.
var (
	// ErrInvalidArgument covers a nil or empty pixel buffer given to
	// Encode, zero dimensions, a
	// channel count outside {3,4}, a colorspace hint above 1, an unknown
	// pixel format, and a pixel count above maxPixels.
	ErrInvalidArgument = errors.New("qoy: invalid argument")

	// ErrBadMagic is returned when the first four bytes of an encoded
	// buffer are not "qoyf".
	ErrBadMagic = errors.New("qoy: bad magic")

	// ErrTruncated is returned when the input is exhausted before all
	// blocks declared by the header have been decoded. It is also
	// returned, wrapped, for an alpha tag byte (0xF8-0xFB) found where no
	// alpha tag can occur.
	ErrTruncated = errors.New("qoy: truncated stream")

	// ErrUnexpectedEOFTag is returned when a QOY_OP_EOF tag byte (0xFF)
	// is encountered while still expecting block tags, rather than as
	// part of the 8-byte end-of-stream padding, and when a byte of that
	// padding is not 0xFF.
	ErrUnexpectedEOFTag = errors.New("qoy: unexpected EOF tag in block stream")

	// ErrAllocationFailed is returned when a buffer size computation
	// exceeds the maxPixels bound, before any allocation is attempted.
	ErrAllocationFailed = errors.New("qoy: allocation failed")
)
