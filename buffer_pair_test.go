// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import "testing"

func TestBufferPairZeroValue(t *testing.T) {
	var bp BufferPair
	if bp.Current() != 0 || bp.Target() != 1 {
		t.Errorf("zero value: current=%d target=%d, want 0/1", bp.Current(), bp.Target())
	}
}

func TestBufferPairParity(t *testing.T) {
	var bp BufferPair
	for n := 0; n < 10; n++ {
		wantCurrent := n % 2
		if bp.Current() != wantCurrent {
			t.Errorf("after %d swaps: Current() = %d, want %d", n, bp.Current(), wantCurrent)
		}
		if bp.Target() == bp.Current() {
			t.Fatalf("after %d swaps: read and write slot are both %d", n, bp.Current())
		}
		if bp.Steps() != uint64(n) {
			t.Errorf("Steps() = %d, want %d", bp.Steps(), n)
		}
		bp.Swap()
	}
}

func TestBufferPairReset(t *testing.T) {
	var bp BufferPair
	bp.Swap()
	bp.Swap()
	bp.Swap()
	bp.Reset()
	if bp.Current() != 0 || bp.Steps() != 0 {
		t.Errorf("after Reset: current=%d steps=%d", bp.Current(), bp.Steps())
	}
}
