/*
DESCRIPTION
  frame.go provides the Frame type, an 8 bit interleaved pixel buffer, and
  conversions to and from the image package types.

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
	"image/color"

	"github.com/pkg/errors"
)

// Frame is an image with 1 or 3 interleaved 8 bit channels. Pixel (x, y)
// channel c is held at Pix[(y*Width+x)*Channels+c].
type Frame struct {
	Width, Height int
	Channels      int
	Pix           []byte
}

// NewFrame returns a zeroed frame of the given geometry.
func NewFrame(w, h, channels int) *Frame {
	return &Frame{Width: w, Height: h, Channels: channels, Pix: make([]byte, w*h*channels)}
}

// FrameFromImage converts img to a frame with the given number of channels.
// Single channel frames hold luma; three channel frames hold RGB.
func FrameFromImage(img image.Image, channels int) (*Frame, error) {
	if channels != 1 && channels != 3 {
		return nil, errors.Wrapf(ErrBadChannels, "got %d", channels)
	}
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy(), channels)

	if g, ok := img.(*image.Gray); ok && channels == 1 {
		for y := 0; y < f.Height; y++ {
			o := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(f.Pix[y*f.Width:(y+1)*f.Width], g.Pix[o:o+f.Width])
		}
		return f, nil
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			if channels == 1 {
				f.Pix[i] = color.GrayModel.Convert(c).(color.Gray).Y
				i++
				continue
			}
			r, g, bl, _ := c.RGBA()
			f.Pix[i] = uint8(r >> 8)
			f.Pix[i+1] = uint8(g >> 8)
			f.Pix[i+2] = uint8(bl >> 8)
			i += 3
		}
	}
	return f, nil
}

// Image returns f as an *image.Gray or *image.RGBA.
func (f *Frame) Image() image.Image {
	r := image.Rect(0, 0, f.Width, f.Height)
	if f.Channels == 1 {
		g := image.NewGray(r)
		copy(g.Pix, f.Pix)
		return g
	}
	img := image.NewRGBA(r)
	for i := 0; i < f.Width*f.Height; i++ {
		copy(img.Pix[i*4:i*4+3], f.Pix[i*3:i*3+3])
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// Bounds returns the frame rectangle.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// check returns an error if f is malformed.
func (f *Frame) check() error {
	if f == nil {
		return errors.Wrap(ErrBadFrame, "nil frame")
	}
	if f.Channels != 1 && f.Channels != 3 {
		return errors.Wrapf(ErrBadChannels, "got %d", f.Channels)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return errors.Wrapf(ErrBadFrame, "bad dimensions %dx%d", f.Width, f.Height)
	}
	if len(f.Pix) != f.Width*f.Height*f.Channels {
		return errors.Wrapf(ErrBadFrame, "pixel buffer length %d does not match %dx%dx%d", len(f.Pix), f.Width, f.Height, f.Channels)
	}
	return nil
}
