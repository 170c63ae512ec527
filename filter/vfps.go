/*
DESCRIPTION
  A motion filter that has a variable frame rate. When motion is detected,
  the filter sends all frames and when it is not, the filter sends frames
  at a reduced rate, as set by a parameter.

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
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/bgseg/config"
)

const (
	defaultVFPSFrameRate = 25
	defaultVFPSMinFPS    = 1
)

// VariableFPS is a filter that has a variable frame rate. Every period'th
// frame bypasses the motion filter and is sent directly, guaranteeing a
// minimum frame rate; all other frames are sent only if the motion filter
// passes them.
type VariableFPS struct {
	motion Filter
	dst    io.WriteCloser
	log    logging.Logger
	period uint // Frames between guaranteed sends.
	n      uint // Frames written since the last guaranteed send.
	direct uint // Frames sent directly.
}

// NewVariableFPS returns a VariableFPS sending at least c.MinFPS of the
// c.FrameRate frames per second to dst, and the rest through motion.
func NewVariableFPS(dst io.WriteCloser, c config.Config, motion Filter) *VariableFPS {
	if c.FrameRate == 0 {
		c.LogInvalidField("FrameRate", defaultVFPSFrameRate)
		c.FrameRate = defaultVFPSFrameRate
	}
	if c.MinFPS == 0 || c.MinFPS > c.FrameRate {
		c.LogInvalidField("MinFPS", defaultVFPSMinFPS)
		c.MinFPS = defaultVFPSMinFPS
	}

	return &VariableFPS{
		motion: motion,
		dst:    dst,
		log:    c.Logger,
		period: c.FrameRate / c.MinFPS,
	}
}

// Write sends f directly if a guaranteed frame is due, and otherwise to the
// motion filter.
func (v *VariableFPS) Write(f []byte) (int, error) {
	v.n++
	if v.n < v.period {
		return v.motion.Write(f)
	}
	v.n = 0
	v.direct++
	return v.dst.Write(f)
}

// Close closes the motion filter.
func (v *VariableFPS) Close() error {
	v.log.Debug("closing variable FPS filter", "direct", v.direct)
	return v.motion.Close()
}
