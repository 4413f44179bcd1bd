/*
NAME
  run_test.go

DESCRIPTION
  run_test.go contains tests for run.go: the run coder's in-place byte
  rewriting and the block encode/decode driver.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package qoy

import (
	"testing"

	"github.com/ausocean/qoy/bitio"
)

// runLength extends a run n times with appendRun, starting from no run, and
// returns the emitted bytes, used to check the short-form/long-form
// boundaries.
func runLength(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, 0, 64)
	w := bitio.NewWriter(buf)
	run := 0
	for i := 0; i < n; i++ {
		run = appendRun(w, run, false)
	}
	return w.Bytes()
}

func TestRunShortFormBoundaries(t *testing.T) {
	tests := []struct {
		count    int
		wantLen  int
		wantTail []byte
	}{
		{1, 1, []byte{tagRun1}},
		{2, 2, []byte{tagRunX, 0}},
		{3, 2, []byte{tagRunX, 1}},
		{129, 2, []byte{tagRunX, 127}},
	}
	for _, test := range tests {
		got := runLength(t, test.count)
		if len(got) != test.wantLen {
			t.Errorf("runLength(%d) has length %d, want %d (% x)", test.count, len(got), test.wantLen, got)
			continue
		}
		for i, b := range test.wantTail {
			if got[len(got)-len(test.wantTail)+i] != b {
				t.Errorf("runLength(%d) = % x, want tail % x", test.count, got, test.wantTail)
				break
			}
		}
	}
}

func TestRunLongFormBoundary(t *testing.T) {
	got := runLength(t, 130)
	want := []byte{tagRunX, 0x80, 0x00}
	if len(got) != len(want) {
		t.Fatalf("runLength(130) = % x, want % x", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("runLength(130)[%d] = 0x%02X, want 0x%02X", i, got[i], want[i])
		}
	}
}

func TestRunSplitsAtMaximum(t *testing.T) {
	got := runLength(t, runSplit-1) // 32897 blocks: exactly one long-form tag.
	if got[0] != tagRunX {
		t.Fatalf("runLength(runSplit-1)[0] = 0x%02X, want tagRunX", got[0])
	}
	count := (int(got[1]&0x7F) << 8) | int(got[2])
	if count+130 != runSplit-1 {
		t.Errorf("decoded run count = %d, want %d", count+130, runSplit-1)
	}

	got = runLength(t, runSplit)
	// One past the maximum splits into two tags: a closed long-form run
	// followed by a fresh QOY_OP_RUN_1.
	if got[len(got)-1] != tagRun1 {
		t.Errorf("runLength(runSplit) tail = 0x%02X, want tagRun1", got[len(got)-1])
	}
}

func TestDecodeRunCountRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 129, 130, 131, 1000, 32897} {
		buf := make([]byte, 0, 8)
		w := bitio.NewWriter(buf)
		run := 0
		for i := 0; i < n; i++ {
			run = appendRun(w, run, false)
		}
		bytes := w.Bytes()
		if bytes[0] != tagRunX && n > 1 {
			t.Fatalf("runLength(%d) doesn't start with tagRunX: % x", n, bytes)
		}
		if n == 1 {
			continue // QOY_OP_RUN_1 carries no count bytes to decode.
		}
		r := bitio.NewReader(bytes[1:])
		remaining, err := decodeRunCount(r)
		if err != nil {
			t.Fatalf("decodeRunCount: %v", err)
		}
		if remaining != n-1 {
			t.Errorf("decodeRunCount after appendRun x%d = %d remaining, want %d", n, remaining, n-1)
		}
	}
}

func TestEncodeDecodeBlockRunRoundTrip(t *testing.T) {
	p := initialBlock()
	repeated := runContinuation(p, true)

	buf := make([]byte, 0, 32)
	w := bitio.NewWriter(buf)
	run := 0
	const n = 5
	prev := p
	for i := 0; i < n; i++ {
		run = encodeBlock(w, repeated, prev, run, true)
		prev = repeated
	}

	r := bitio.NewReader(w.Bytes())
	decodedRun := 0
	prev = p
	for i := 0; i < n; i++ {
		var b Block
		var err error
		b, decodedRun, err = decodeBlock(r, prev, decodedRun, true)
		if err != nil {
			t.Fatalf("decodeBlock[%d]: %v", i, err)
		}
		if b != repeated {
			t.Errorf("decodeBlock[%d] = %+v, want %+v", i, b, repeated)
		}
		prev = b
	}
}

func TestEncodeDecodeBlockLiteralRoundTrip(t *testing.T) {
	p := initialBlock()
	b := Block{Y: [4]uint8{1, 2, 3, 4}, Cb: 5, Cr: 6, A: [4]uint8{7, 8, 9, 10}}

	buf := make([]byte, 0, 32)
	w := bitio.NewWriter(buf)
	encodeBlock(w, b, p, 0, true)

	r := bitio.NewReader(w.Bytes())
	got, run, err := decodeBlock(r, p, 0, true)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	if run != 0 {
		t.Errorf("decodeBlock run = %d, want 0", run)
	}
	if got != b {
		t.Errorf("decodeBlock = %+v, want %+v", got, b)
	}
}
