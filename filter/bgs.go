/*
DESCRIPTION
  A filter that detects motion and discards frames without motion. The
  algorithm keeps an adaptive per-pixel background model of colour and LBSP
  texture samples to determine what is background and what is foreground.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/bgseg/bgs"
	"github.com/ausocean/bgseg/bgs/morph"
	"github.com/ausocean/bgseg/config"
)

const (
	defaultBGSPixels   = 100
	defaultBGSInterval = 1
)

// MaskFunc receives the foreground mask of every frame segmented by a BGS
// algorithm together with the model statistics. The mask must not be
// retained after the call returns.
type MaskFunc func(mask *image.Gray, st bgs.Stats)

// NewBGS returns a pointer to a new BGS motion filter and the algorithm it
// uses.
func NewBGS(dst io.WriteCloser, c config.Config, onMask MaskFunc) (*Motion, *BGS) {

	// Validate parameters.
	if c.MotionPixels <= 0 {
		c.LogInvalidField("MotionPixels", defaultBGSPixels)
		c.MotionPixels = defaultBGSPixels
	}

	// The model must see consecutive frames to adapt.
	if c.MotionInterval == 0 {
		c.MotionInterval = defaultBGSInterval
	}

	channels := int(c.BGChannels)
	if channels == 0 {
		channels = 1
	}

	alg := &BGS{
		log:       c.Logger,
		params:    c.BGParams(),
		channels:  channels,
		seed:      c.BGSeed,
		pix:       int(c.MotionPixels),
		rate:      c.BGLearningRate,
		onMask:    onMask,
		debugging: newWindows("BGS"),
	}

	return NewMotion(dst, alg, c), alg
}

// BGS is a motion detection algorithm backed by an adaptive background model.
// A frame is considered to contain motion when at least a set number of its
// pixels are foreground.
type BGS struct {
	debugging debugWindows
	log       logging.Logger
	params    bgs.Params
	channels  int      // Channels used for segmentation.
	seed      int64    // Seed of the model's random source.
	pix       int      // Foreground pixels needed for motion.
	onMask    MaskFunc // Optional mask observer.

	mu   sync.Mutex
	rate float64 // Learning rate override; adaptive when <= 0.

	model *bgs.Model
}

// SetLearningRate sets the learning rate override applied to subsequent
// frames. Values <= 0 restore the model's adaptive rates. It is safe to call
// concurrently with Detect.
func (b *BGS) SetLearningRate(v float64) {
	b.mu.Lock()
	b.rate = v
	b.mu.Unlock()
}

func (b *BGS) learningRate() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rate
}

// Detect segments img against the background model and returns true if
// enough foreground is found. The first frame, and the first frame after a
// change of frame size, initialises the model and is never motion.
func (b *BGS) Detect(img image.Image) bool {
	f, err := bgs.FrameFromImage(img, b.channels)
	if err != nil {
		b.log.Error("could not convert frame", "error", err.Error())
		return false
	}

	if b.model == nil {
		b.model, err = bgs.New(b.params, bgs.WithLogger(b.log), bgs.WithSeed(b.seed))
		if err != nil {
			b.log.Error("could not create background model", "error", err.Error())
			return false
		}
	}

	mask, err := b.model.Apply(f, b.learningRate())
	if errors.Is(err, bgs.ErrNotInitialized) || errors.Is(err, bgs.ErrFrameMismatch) {
		err = b.model.Initialize(f, nil)
		if err != nil {
			b.log.Error("could not initialize background model", "error", err.Error())
		}
		return false
	}
	if err != nil {
		b.log.Error("could not apply frame to background model", "error", err.Error())
		return false
	}

	n := morph.Count(mask)
	motion := n >= b.pix
	st := b.model.Stats()
	if b.onMask != nil {
		b.onMask(mask, st)
	}
	b.debugging.show(img, mask, motion, fmt.Sprintf("fg: %d", n), fmt.Sprintf("T: %.1f", st.MeanT))
	return motion
}

// Close releases the background model and debugging windows.
func (b *BGS) Close() error {
	err := b.debugging.close()
	if err != nil {
		return err
	}
	if b.model != nil {
		return b.model.Close()
	}
	return nil
}
