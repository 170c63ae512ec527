//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  gift.go provides a pure Go morphology backend built on
  github.com/disintegration/gift, used when gocv is unavailable.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package morph

import (
	"image"

	"github.com/disintegration/gift"
)

const kernelSize = 3

// Ops performs morphological operations on binary masks.
type Ops struct {
	closing *gift.GIFT
	dilate  *gift.GIFT
	median  map[int]*gift.GIFT
}

// New returns a new Ops.
func New() (*Ops, error) {
	return &Ops{
		closing: gift.New(gift.Maximum(kernelSize, false), gift.Minimum(kernelSize, false)),
		dilate:  gift.New(gift.Maximum(kernelSize, false)),
		median:  make(map[int]*gift.GIFT),
	}, nil
}

// Closing writes the morphological closing of src to dst.
func (o *Ops) Closing(dst, src *image.Gray) { o.closing.Draw(dst, src) }

// Dilate writes the dilation of src to dst.
func (o *Ops) Dilate(dst, src *image.Gray) { o.dilate.Draw(dst, src) }

// Median writes the ksize x ksize median filtering of src to dst.
func (o *Ops) Median(dst, src *image.Gray, ksize int) {
	g, ok := o.median[ksize]
	if !ok {
		g = gift.New(gift.Median(ksize, false))
		o.median[ksize] = g
	}
	g.Draw(dst, src)
}

// FloodFill fills the 4-connected region containing seed with v.
func (o *Ops) FloodFill(m *image.Gray, seed image.Point, v uint8) { FloodFill(m, seed, v) }

// Close is a no-op for the gift backend.
func (o *Ops) Close() error { return nil }
