/*
DESCRIPTION
  blink.go provides the post-processing stage that tracks blinking pixels
  and turns the raw decision mask into the stabilised output mask.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import (
	"image"

	"github.com/ausocean/bgseg/bgs/morph"
)

// Morphology provides the morphological primitives used by the
// post-processing stage. Masks are 8 bit and hold 0 or 255; dst and src
// never alias.
type Morphology interface {
	Closing(dst, src *image.Gray)
	FloodFill(m *image.Gray, seed image.Point, v uint8)
	Median(dst, src *image.Gray, ksize int)
	Dilate(dst, src *image.Gray)
	Close() error
}

// blinkStage holds the masks carried between frames by post-processing.
type blinkStage struct {
	morph  Morphology
	median int

	pureLast      *image.Gray // Raw mask of the previous frame.
	pureBlink     *image.Gray // Raw mask XOR pureLast.
	pureBlinkLast *image.Gray // pureBlink of the previous frame.
	blinks        *image.Gray // Pixels flagged as blinking.
	stable        *image.Gray // Last output mask.
	dilated       *image.Gray // Dilation of stable.
	tmp, out      *image.Gray
}

func newBlinkStage(w, h int, mo Morphology, median int) *blinkStage {
	r := image.Rect(0, 0, w, h)
	return &blinkStage{
		morph:         mo,
		median:        median,
		pureLast:      image.NewGray(r),
		pureBlink:     image.NewGray(r),
		pureBlinkLast: image.NewGray(r),
		blinks:        image.NewGray(r),
		stable:        image.NewGray(r),
		dilated:       image.NewGray(r),
		tmp:           image.NewGray(r),
		out:           image.NewGray(r),
	}
}

// apply updates the blink mask from raw and returns the stabilised mask.
// The returned mask is owned by the stage and overwritten by the next call.
func (b *blinkStage) apply(raw *image.Gray) *image.Gray {
	// Pixels that changed label this frame or the last, excluding those
	// near stable foreground.
	morph.Xor(b.pureBlink, raw, b.pureLast)
	morph.Or(b.blinks, b.pureBlink, b.pureBlinkLast)
	morph.AndNot(b.blinks, b.blinks, b.dilated)
	copy(b.pureBlinkLast.Pix, b.pureBlink.Pix)
	copy(b.pureLast.Pix, raw.Pix)

	// Fill holes: close the mask, flood the background from the corner and
	// add every pixel the flood could not reach.
	b.morph.Closing(b.tmp, raw)
	b.morph.FloodFill(b.tmp, image.Point{}, 255)
	morph.Not(b.tmp, b.tmp)
	morph.Or(b.out, raw, b.tmp)

	b.morph.Median(b.stable, b.out, b.median)
	b.morph.Dilate(b.dilated, b.stable)
	morph.AndNot(b.blinks, b.blinks, b.dilated)
	return b.stable
}

// blinking reports whether pixel i is flagged as blinking.
func (b *blinkStage) blinking(i int) bool { return b.blinks.Pix[i] != 0 }
