/*
DESCRIPTION
  A filter that detects motion and discards frames without motion. This
  filter can use different algorithms for motion detection.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/gift"

	"github.com/ausocean/bgseg/config"
)

const (
	defaultMotionDownscaling = 1
	defaultMotionInterval    = 5
	defaultMotionPadding     = 10
)

// MotionAlgorithm is the interface the motion filter expects for
// motion detection algorithms.
type MotionAlgorithm interface {
	Detect(img image.Image) bool
	Close() error
}

// Motion is a filter that performs motion detection using a supplied
// motion detection algorithm.
type Motion struct {
	dst       io.WriteCloser  // Destination to which motion containing frames go.
	algorithm MotionAlgorithm // Algorithm to use for motion detection.
	scale     int             // The factor that frames will be downscaled by for motion detection.
	sample    uint            // Interval that motion detection is performed at.
	padding   uint            // The amount of frames before and after motion that will be kept.

	t    uint // Frame counter.
	send uint // Amount of frames to send.

	frames [][]byte // Frames held back so those preceding motion can be sent.
}

// NewMotion returns a pointer to a new Motion filter struct.
func NewMotion(dst io.WriteCloser, alg MotionAlgorithm, c config.Config) *Motion {

	// Validate parameters.
	if c.MotionPadding == 0 {
		c.LogInvalidField("MotionPadding", defaultMotionPadding)
		c.MotionPadding = defaultMotionPadding
	}
	if c.MotionDownscaling <= 0 {
		c.LogInvalidField("MotionDownscaling", defaultMotionDownscaling)
		c.MotionDownscaling = defaultMotionDownscaling
	}
	if c.MotionInterval <= 0 {
		c.LogInvalidField("MotionInterval", defaultMotionInterval)
		c.MotionInterval = defaultMotionInterval
	}

	return &Motion{
		dst:       dst,
		algorithm: alg,
		scale:     int(c.MotionDownscaling),
		sample:    c.MotionInterval,
		padding:   c.MotionPadding,
		frames:    make([][]byte, 0, c.MotionPadding+1),
	}
}

// Implements io.Closer.
// Close writes the held back frames still due to be sent, then releases the
// resources of the motion detection algorithm.
func (m *Motion) Close() error {
	var werr error
	for _, f := range m.frames {
		if m.send == 0 {
			break
		}
		m.send--
		_, werr = m.dst.Write(f)
		if werr != nil {
			break
		}
	}
	m.frames = m.frames[:0]

	err := m.algorithm.Close()
	if werr != nil {
		return fmt.Errorf("could not flush held frames: %w", werr)
	}
	return err
}

// Write applies the motion filter to the video stream. Only frames with motion
// are written to the destination, frames without are discarded.
func (m *Motion) Write(f []byte) (int, error) {
	img, err := jpeg.Decode(bytes.NewReader(f))
	if err != nil {
		return 0, fmt.Errorf("image can't be decoded: %w", err)
	}

	// Downsize image to speed up calculations.
	img = m.downscale(img)

	// Filter on an interval.
	if m.t == m.sample/2 {
		if m.algorithm.Detect(img) {
			m.send = m.sample + 2*m.padding
		}
	}
	m.t = (m.t + 1) % m.sample // Increment counter.

	// Hold the frame back until padding frames have followed it.
	m.frames = append(m.frames, f)
	if uint(len(m.frames)) <= m.padding {
		return len(f), nil
	}
	toSend := m.frames[0]
	copy(m.frames, m.frames[1:])
	m.frames = m.frames[:len(m.frames)-1]

	if m.send > 0 {
		m.send--
		_, err := m.dst.Write(toSend)
		if err != nil {
			return 0, err
		}
	}
	return len(f), nil
}

// downscale returns img reduced by the filter's downscaling factor.
func (m *Motion) downscale(img image.Image) image.Image {
	if m.scale <= 1 {
		return img
	}
	b := img.Bounds()
	g := gift.New(gift.Resize(b.Dx()/m.scale, b.Dy()/m.scale, gift.NearestNeighborResampling))
	if _, ok := img.(*image.Gray); ok {
		dst := image.NewGray(g.Bounds(b))
		g.Draw(dst, img)
		return dst
	}
	dst := image.NewRGBA(g.Bounds(b))
	g.Draw(dst, img)
	return dst
}
