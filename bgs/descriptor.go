/*
DESCRIPTION
  descriptor.go provides the Descriptor interface through which the model
  computes texture descriptors, and its default LBSP implementation.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import "github.com/ausocean/bgseg/bgs/lbsp"

// Descriptor computes binary texture descriptors.
type Descriptor interface {
	// Describe returns the descriptor of channel c at (x, y) of f, computed
	// against the reference intensity ref with the given comparison threshold.
	Describe(f *Frame, x, y, c int, ref, threshold byte) uint16

	// Distance returns the distance between two descriptors, at most Bits().
	Distance(a, b uint16) int

	// Bits returns the descriptor width.
	Bits() int
}

// LBSP is the default Descriptor, computing 16 bit LBSP descriptors.
type LBSP struct{}

func (LBSP) Describe(f *Frame, x, y, c int, ref, threshold byte) uint16 {
	return lbsp.Compute(f.Pix, f.Width, f.Height, f.Channels, x, y, c, ref, threshold)
}

func (LBSP) Distance(a, b uint16) int { return lbsp.Distance(a, b) }

func (LBSP) Bits() int { return lbsp.Bits }
