/*
DESCRIPTION
  lbsp.go provides Local Binary Similarity Pattern (LBSP) descriptors. An
  LBSP descriptor is a 16 bit pattern where each bit records whether one pixel
  of a 5x5 patch differs from a reference intensity by more than a threshold.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lbsp computes 16 bit LBSP texture descriptors over 8 bit, 1 or 3
// channel interleaved pixel buffers.
package lbsp

import "math/bits"

const (
	// Bits is the width of a descriptor.
	Bits = 16

	// PatchSize is the side length of the square patch sampled around a pixel.
	PatchSize = 5
)

// pattern holds the patch offsets {dx, dy}, most significant bit first.
var pattern = [Bits][2]int{
	{-1, 1}, {1, -1}, {1, 1}, {-1, -1},
	{1, 0}, {0, -1}, {-1, 0}, {0, 1},
	{-2, -2}, {2, 2}, {2, -2}, {-2, 2},
	{0, 2}, {0, -2}, {2, 0}, {-2, 0},
}

// Compute returns the descriptor of channel c of the pixel at (x, y) in pix,
// an interleaved buffer of w*h pixels with ch channels each. Every patch pixel
// is compared with ref; bits are set where the absolute difference exceeds t.
// Patch pixels falling outside the image are replicated from the border.
func Compute(pix []byte, w, h, ch, x, y, c int, ref, t byte) uint16 {
	var d uint16
	for i, o := range pattern {
		px := clamp(x+o[0], w-1)
		py := clamp(y+o[1], h-1)
		if absDiff(pix[(py*w+px)*ch+c], ref) > t {
			d |= 1 << (Bits - 1 - i)
		}
	}
	return d
}

// Distance returns the Hamming distance between two descriptors.
func Distance(a, b uint16) int { return bits.OnesCount16(a ^ b) }

// ThresholdLUT returns the per intensity comparison thresholds for a relative
// similarity threshold rel, scaled by mod (1 for colour input; single channel
// input uses a reduced modulation). Entries saturate at 255.
func ThresholdLUT(rel, mod float64) [256]byte {
	var lut [256]byte
	for i := range lut {
		t := int(float64(i) * rel * mod)
		if t > 255 {
			t = 255
		}
		lut[i] = byte(t)
	}
	return lut
}

func clamp(v, hi int) int {
	switch {
	case v < 0:
		return 0
	case v > hi:
		return hi
	}
	return v
}

func absDiff(a, b byte) byte {
	if a > b {
		return a - b
	}
	return b - a
}
