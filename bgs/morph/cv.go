//go:build withcv
// +build withcv

/*
DESCRIPTION
  cv.go provides a gocv backed morphology backend.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package morph

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Ops performs morphological operations on binary masks.
type Ops struct {
	knl gocv.Mat // 3x3 rectangular structuring element.
	src gocv.Mat
	dst gocv.Mat
}

// New returns a new Ops. Close must be called to release gocv resources.
func New() (*Ops, error) {
	return &Ops{
		knl: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
		src: gocv.NewMat(),
		dst: gocv.NewMat(),
	}, nil
}

// Closing writes the morphological closing of src to dst.
func (o *Ops) Closing(dst, src *image.Gray) {
	o.apply(dst, src, func() { gocv.MorphologyEx(o.src, &o.dst, gocv.MorphClose, o.knl) })
}

// Dilate writes the dilation of src to dst.
func (o *Ops) Dilate(dst, src *image.Gray) {
	o.apply(dst, src, func() { gocv.Dilate(o.src, &o.dst, o.knl) })
}

// Median writes the ksize x ksize median filtering of src to dst.
func (o *Ops) Median(dst, src *image.Gray, ksize int) {
	o.apply(dst, src, func() { gocv.MedianBlur(o.src, &o.dst, ksize) })
}

// FloodFill fills the 4-connected region containing seed with v.
func (o *Ops) FloodFill(m *image.Gray, seed image.Point, v uint8) { FloodFill(m, seed, v) }

// Close frees resources used by gocv. It has to be done manually,
// due to gocv using c-go.
func (o *Ops) Close() error {
	o.knl.Close()
	o.src.Close()
	o.dst.Close()
	return nil
}

// apply loads src into a gocv matrix, runs op and copies the result to dst.
func (o *Ops) apply(dst, src *image.Gray, op func()) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, packed(src))
	if err != nil {
		panic(fmt.Sprintf("could not load mask into matrix: %v", err))
	}
	m.CopyTo(&o.src)
	m.Close()

	op()

	b := o.dst.ToBytes()
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], b[y*w:(y+1)*w])
	}
}

// packed returns the pixels of m with no row padding.
func packed(m *image.Gray) []byte {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if m.Stride == w {
		return m.Pix[:w*h]
	}
	b := make([]byte, 0, w*h)
	for y := 0; y < h; y++ {
		b = append(b, m.Pix[y*m.Stride:y*m.Stride+w]...)
	}
	return b
}
