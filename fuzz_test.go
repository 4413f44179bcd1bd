/*
NAME
  fuzz_test.go

DESCRIPTION
  fuzz_test.go fuzzes Decode with arbitrary byte streams, checking that
  malformed input never makes it panic. The corpus-driven shape follows
  codec/h264/h264dec/fuzz/fuzzParseLevelPrefix/fuzz.go's approach of
  feeding a decoder raw bytes and judging it only on whether it misbehaves,
  adapted to the standard library's native fuzzing support.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package qoy

import "testing"

func FuzzDecode(f *testing.F) {
	seed := make([]byte, 0, headerSize+paddingLen)
	seed = writeHeader(seed, Descriptor{Width: 2, Height: 2, Channels: 4})
	seed = append(seed, tagA18, 0, tag888, 0, 0, 0, 0, 0, 0)
	seed = append(seed, padding[:]...)
	f.Add(seed)
	f.Add([]byte("qoyf"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Decode panicked on input % x: %v", data, r)
			}
		}()
		Decode(data, 4, RGBA, nil)
	})
}
