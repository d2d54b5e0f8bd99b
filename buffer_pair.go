// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

// BufferPair tracks the roles of two equally sized particle buffers.
//
// Slot Current() holds the authoritative particle state and is read by the
// next simulation step; slot Target() receives that step's output. Swap
// exchanges the roles once the step has been rendered. Backends own the
// actual storage and index their two buffers with these slots, so the read
// and write buffers of a step are always distinct.
//
// The zero value is ready to use with slot 0 current.
type BufferPair struct {
	current int
	steps   uint64
}

// Current returns the slot holding the authoritative particle state.
func (bp *BufferPair) Current() int { return bp.current }

// Target returns the slot the next simulation step writes to.
func (bp *BufferPair) Target() int { return bp.current ^ 1 }

// Swap exchanges the current and target roles.
func (bp *BufferPair) Swap() {
	bp.current ^= 1
	bp.steps++
}

// Steps returns how many times the roles have been swapped.
func (bp *BufferPair) Steps() uint64 { return bp.steps }

// Reset restores slot 0 as current and clears the step count.
func (bp *BufferPair) Reset() {
	bp.current = 0
	bp.steps = 0
}
