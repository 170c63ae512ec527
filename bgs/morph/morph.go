/*
DESCRIPTION
  morph.go provides the backend independent parts of the morphology package:
  flood filling and bitwise mask operations.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package morph provides the morphological primitives used to clean up
// binary foreground masks. Masks are 8 bit grayscale images holding 0 or 255.
//
// The Ops type is backed by gocv when built with the withcv tag and by
// github.com/disintegration/gift otherwise. All structuring elements are 3x3
// rectangles.
package morph

import "image"

// FloodFill replaces the 4-connected region of pixels sharing the value at
// seed with v. A seed outside the image is ignored.
func FloodFill(m *image.Gray, seed image.Point, v uint8) {
	if !seed.In(m.Rect) {
		return
	}
	old := m.GrayAt(seed.X, seed.Y).Y
	if old == v {
		return
	}

	// Scanline fill; each stack entry is a seed for a horizontal run.
	r := m.Rect
	stack := []image.Point{seed}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if m.GrayAt(p.X, p.Y).Y != old {
			continue
		}

		l := p.X
		for l > r.Min.X && m.Pix[m.PixOffset(l-1, p.Y)] == old {
			l--
		}
		rt := p.X
		for rt < r.Max.X-1 && m.Pix[m.PixOffset(rt+1, p.Y)] == old {
			rt++
		}

		for x := l; x <= rt; x++ {
			m.Pix[m.PixOffset(x, p.Y)] = v
			if p.Y > r.Min.Y && m.Pix[m.PixOffset(x, p.Y-1)] == old {
				stack = append(stack, image.Pt(x, p.Y-1))
			}
			if p.Y < r.Max.Y-1 && m.Pix[m.PixOffset(x, p.Y+1)] == old {
				stack = append(stack, image.Pt(x, p.Y+1))
			}
		}
	}
}

// Not sets dst to the bitwise complement of src.
func Not(dst, src *image.Gray) {
	forEach(dst, src, src, func(a, _ uint8) uint8 { return ^a })
}

// Or sets dst to a | b.
func Or(dst, a, b *image.Gray) {
	forEach(dst, a, b, func(a, b uint8) uint8 { return a | b })
}

// And sets dst to a & b.
func And(dst, a, b *image.Gray) {
	forEach(dst, a, b, func(a, b uint8) uint8 { return a & b })
}

// AndNot sets dst to a &^ b.
func AndNot(dst, a, b *image.Gray) {
	forEach(dst, a, b, func(a, b uint8) uint8 { return a &^ b })
}

// Xor sets dst to a ^ b.
func Xor(dst, a, b *image.Gray) {
	forEach(dst, a, b, func(a, b uint8) uint8 { return a ^ b })
}

// Count returns the number of non-zero pixels in m.
func Count(m *image.Gray) int {
	var n int
	r := m.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Pix[m.PixOffset(r.Min.X, y):m.PixOffset(r.Max.X, y)]
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// forEach applies fn over a and b pixel by pixel, writing to dst. All three
// images must share the same bounds.
func forEach(dst, a, b *image.Gray, fn func(a, b uint8) uint8) {
	r := dst.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := dst.Pix[dst.PixOffset(r.Min.X, y):dst.PixOffset(r.Max.X, y)]
		ra := a.Pix[a.PixOffset(r.Min.X, y):a.PixOffset(r.Max.X, y)]
		rb := b.Pix[b.PixOffset(r.Min.X, y):b.PixOffset(r.Max.X, y)]
		for x := range d {
			d[x] = fn(ra[x], rb[x])
		}
	}
}
