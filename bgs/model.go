/*
DESCRIPTION
  model.go provides Model, an adaptive per-pixel background model combining
  colour and LBSP texture samples with feedback controlled thresholds and
  update rates.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bgs implements background subtraction using a sample based,
// self-adapting per-pixel model.
//
// Every monitored pixel keeps N background samples, each a colour and an LBSP
// texture descriptor. An observation is background when at least
// RequiredMatches samples lie within both a colour and a descriptor distance
// threshold. The thresholds and the sample update probability of each pixel
// are adapted over time from running averages of how well, and how
// consistently, the pixel matches its samples. Background observations are
// written into the pixel's own samples and diffused into a neighbour's.
//
// The raw decisions are post-processed with hole filling and median
// filtering; pixels whose label flips from frame to frame away from stable
// foreground are flagged as blinking and made harder to label foreground.
//
// A Model is not safe for concurrent use.
package bgs

import (
	"fmt"
	"image"
	"io"
	"sort"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/bgseg/bgs/lbsp"
	"github.com/ausocean/bgseg/bgs/morph"
)

// Model is an adaptive background model. A Model must be initialized with a
// reference frame before frames are applied.
type Model struct {
	p        Params
	log      logging.Logger
	rnd      Rand
	seed     int64
	desc     Descriptor
	morph    Morphology
	ownMorph bool // The model created morph and must close it.

	w, h, ch int
	points   []int     // Monitored pixel indices in raster order.
	lut      [256]byte // LBSP threshold per reference intensity.
	store    *SampleStore

	r, r2, t       []float64
	dMin, dLast, s []float64
	lastColor      []byte
	lastDesc       []uint16
	intra          []uint16 // Scratch descriptors of the current pixel.

	raw         *image.Gray
	blink       *blinkStage
	frames      uint64
	initialized bool
}

// Option configures a Model.
type Option func(*Model) error

// WithLogger sets the logger used by the model. By default nothing is logged.
func WithLogger(l logging.Logger) Option {
	return func(m *Model) error {
		if l == nil {
			return errors.New("nil logger")
		}
		m.log = l
		return nil
	}
}

// WithRand sets the random source used for initialisation and updates.
func WithRand(r Rand) Option {
	return func(m *Model) error {
		if r == nil {
			return errors.New("nil random source")
		}
		m.rnd = r
		return nil
	}
}

// WithSeed seeds the default random source. A zero seed selects a time based
// seed.
func WithSeed(seed int64) Option {
	return func(m *Model) error {
		m.seed = seed
		m.rnd = nil
		return nil
	}
}

// WithDescriptor sets the texture descriptor. The default is LBSP.
func WithDescriptor(d Descriptor) Option {
	return func(m *Model) error {
		if d == nil {
			return errors.New("nil descriptor")
		}
		if d.Bits() <= 0 || d.Bits() > 16 {
			return errors.Errorf("descriptor width %d outside (0, 16]", d.Bits())
		}
		m.desc = d
		return nil
	}
}

// WithMorphology sets the morphology backend used for post-processing. The
// caller remains responsible for closing it.
func WithMorphology(mo Morphology) Option {
	return func(m *Model) error {
		if mo == nil {
			return errors.New("nil morphology backend")
		}
		m.morph = mo
		return nil
	}
}

// New returns a new, uninitialized Model.
func New(p Params, opts ...Option) (*Model, error) {
	err := p.Validate()
	if err != nil {
		return nil, err
	}

	m := &Model{p: p, desc: LBSP{}}
	for i, opt := range opts {
		err := opt(m)
		if err != nil {
			return nil, fmt.Errorf("could not apply option %d: %w", i, err)
		}
	}

	if m.log == nil {
		m.log = logging.New(logging.Fatal, io.Discard, true)
	}
	if m.rnd == nil {
		m.rnd = newRand(m.seed)
	}
	if m.morph == nil {
		ops, err := morph.New()
		if err != nil {
			return nil, fmt.Errorf("could not create morphology backend: %w", err)
		}
		m.morph = ops
		m.ownMorph = true
	}
	return m, nil
}

// Params returns the model parameters.
func (m *Model) Params() Params { return m.p }

// Initialize (re)builds the model from ref. points lists the pixels to
// monitor; when empty every pixel is monitored. Points are visited in raster
// order regardless of the order given. All previous state is discarded.
func (m *Model) Initialize(ref *Frame, points []image.Point) error {
	err := ref.check()
	if err != nil {
		return err
	}

	w, h, ch := ref.Width, ref.Height, ref.Channels
	idx, err := pointIndices(points, w, h)
	if err != nil {
		return err
	}

	m.initialized = false
	m.w, m.h, m.ch = w, h, ch
	m.points = idx
	m.frames = 0

	mod := 1.0
	if ch == 1 {
		mod = SingleChannelModulation
	}
	m.lut = lbsp.ThresholdLUT(m.p.LBSPThreshold, mod)

	n := w * h
	m.r = fill(make([]float64, n), 1)
	m.r2 = fill(make([]float64, n), 1)
	m.t = fill(make([]float64, n), TLower)
	m.dMin = make([]float64, n)
	m.dLast = make([]float64, n)
	m.s = make([]float64, n)
	m.intra = make([]uint16, ch)
	m.raw = image.NewGray(image.Rect(0, 0, w, h))
	m.blink = newBlinkStage(w, h, m.morph, m.p.MedianSize)

	// The last observation starts as the reference frame; samples are drawn
	// from it.
	m.lastColor = append(m.lastColor[:0], ref.Pix...)
	m.lastDesc = make([]uint16, n*ch)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := (y*w + x) * ch
			for c := 0; c < ch; c++ {
				v := ref.Pix[o+c]
				m.lastDesc[o+c] = m.desc.Describe(ref, x, y, c, v, m.lut[v])
			}
		}
	}
	m.store = newSampleStore(w, h, ch, m.p.Samples)
	m.store.initialize(m.lastColor, m.lastDesc, m.p.InitRadius, m.rnd)

	m.initialized = true
	m.log.Info("background model initialized", "width", w, "height", h, "channels", ch, "points", len(idx), "samples", m.p.Samples)
	return nil
}

// Apply classifies every monitored pixel of f, updates the model and returns
// the post-processed foreground mask, 255 marking foreground. A positive
// learningRateOverride replaces every pixel's update threshold for this frame.
// The returned mask is a copy owned by the caller.
func (m *Model) Apply(f *Frame, learningRateOverride float64) (*image.Gray, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	err := f.check()
	if err != nil {
		return nil, err
	}
	if f.Width != m.w || f.Height != m.h || f.Channels != m.ch {
		return nil, errors.Wrapf(ErrFrameMismatch, "got %dx%dx%d, want %dx%dx%d", f.Width, f.Height, f.Channels, m.w, m.h, m.ch)
	}

	for i := range m.raw.Pix {
		m.raw.Pix[i] = 0
	}

	var fg int
	for _, i := range m.points {
		x, y := i%m.w, i/m.w
		o := i * m.ch
		curr := f.Pix[o : o+m.ch]
		for c, v := range curr {
			m.intra[c] = m.desc.Describe(f, x, y, c, v, m.lut[v])
		}

		res := m.classify(f, x, y, i, curr, m.intra)
		m.updateDistances(i, res, curr, m.intra)

		isFG := res.count < m.p.RequiredMatches
		m.label(i, isFG)
		if isFG {
			m.raw.Pix[i] = 255
			fg++
		} else {
			m.update(x, y, i, curr, m.intra, learningRateOverride)
		}
		m.adapt(i, m.blink.blinking(i))

		copy(m.lastColor[o:o+m.ch], curr)
		copy(m.lastDesc[o:o+m.ch], m.intra)
	}

	out := m.blink.apply(m.raw)
	m.frames++
	m.log.Debug("applied frame", "frame", m.frames, "foreground", fg, "points", len(m.points))
	return cloneGray(out), nil
}

// RawMask returns the foreground decisions of the last frame before
// post-processing. The mask is owned by the model.
func (m *Model) RawMask() *image.Gray { return m.raw }

// BlinkMask returns the pixels flagged as blinking by the last frame. The
// mask is owned by the model.
func (m *Model) BlinkMask() *image.Gray {
	if m.blink == nil {
		return nil
	}
	return m.blink.blinks
}

// Store returns the model's sample store.
func (m *Model) Store() *SampleStore { return m.store }

// State returns the adaptive state of pixel (x, y). It panics if the model is
// not initialized or (x, y) lies outside the frame.
func (m *Model) State(x, y int) PixelState {
	if !m.initialized || x < 0 || x >= m.w || y < 0 || y >= m.h {
		panic(fmt.Sprintf("no state for pixel (%d, %d)", x, y))
	}
	i := y*m.w + x
	return PixelState{R: m.r[i], R2: m.r2[i], T: m.t[i], DMin: m.dMin[i], DLast: m.dLast[i], S: m.s[i]}
}

// Frames returns the number of frames applied since initialisation.
func (m *Model) Frames() uint64 { return m.frames }

// Background returns an estimate of the background: the mean colour of each
// pixel's samples.
func (m *Model) Background() (*Frame, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	f := NewFrame(m.w, m.h, m.ch)
	n := m.store.Samples()
	sum := make([]int, len(f.Pix))
	for slot := 0; slot < n; slot++ {
		for i, v := range m.store.color[slot] {
			sum[i] += int(v)
		}
	}
	for i, v := range sum {
		f.Pix[i] = byte((v + n/2) / n)
	}
	return f, nil
}

// Close releases the morphology backend if the model created it.
func (m *Model) Close() error {
	if m.ownMorph {
		return m.morph.Close()
	}
	return nil
}

// pointIndices returns the pixel indices of points sorted into raster order
// with duplicates removed, or every pixel if points is empty.
func pointIndices(points []image.Point, w, h int) ([]int, error) {
	if len(points) == 0 {
		idx := make([]int, w*h)
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	}

	r := image.Rect(0, 0, w, h)
	idx := make([]int, 0, len(points))
	for _, p := range points {
		if !p.In(r) {
			return nil, errors.Wrapf(ErrBadPoint, "%v not in %v", p, r)
		}
		idx = append(idx, p.Y*w+p.X)
	}
	sort.Ints(idx)

	uniq := idx[:1]
	for _, i := range idx[1:] {
		if i != uniq[len(uniq)-1] {
			uniq = append(uniq, i)
		}
	}
	return uniq, nil
}

func fill(s []float64, v float64) []float64 {
	for i := range s {
		s[i] = v
	}
	return s
}

func cloneGray(g *image.Gray) *image.Gray {
	c := image.NewGray(g.Rect)
	copy(c.Pix, g.Pix)
	return c
}
