/*
DESCRIPTION
  model_test.go provides testing for the background model.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import (
	"errors"
	"image"
	"math/rand"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/bgseg/bgs/morph"
)

// uniform returns a frame with every channel of every pixel set to v.
func uniform(w, h, ch int, v byte) *Frame {
	f := NewFrame(w, h, ch)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

// gradient returns a single channel frame increasing by one per column from
// base.
func gradient(w, h int, base byte) *Frame {
	f := NewFrame(w, h, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Pix[y*w+x] = base + byte(x)
		}
	}
	return f
}

func noise(rnd *rand.Rand, w, h, ch int) *Frame {
	f := NewFrame(w, h, ch)
	rnd.Read(f.Pix)
	return f
}

func clone(f *Frame) *Frame {
	return &Frame{Width: f.Width, Height: f.Height, Channels: f.Channels, Pix: append([]byte(nil), f.Pix...)}
}

// square returns a copy of f with the square [min, max) set to v.
func square(f *Frame, min, max int, v byte) *Frame {
	g := clone(f)
	for y := min; y < max; y++ {
		for x := min; x < max; x++ {
			for c := 0; c < f.Channels; c++ {
				g.Pix[(y*f.Width+x)*f.Channels+c] = v
			}
		}
	}
	return g
}

func newModel(t *testing.T, seed int64) *Model {
	m, err := New(DefaultParams(), WithSeed(seed), WithLogger((*logging.TestLogger)(t)))
	if err != nil {
		t.Fatalf("could not create model: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestNewBadParams(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Params)
	}{
		{"zero samples", func(p *Params) { p.Samples = 0 }},
		{"zero required", func(p *Params) { p.RequiredMatches = 0 }},
		{"required exceeds samples", func(p *Params) { p.Samples = 2; p.RequiredMatches = 3 }},
		{"negative colour threshold", func(p *Params) { p.ColorThreshold = -1 }},
		{"zero descriptor threshold", func(p *Params) { p.DescThreshold = 0 }},
		{"zero LBSP threshold", func(p *Params) { p.LBSPThreshold = 0 }},
		{"zero radius", func(p *Params) { p.InitRadius = 0 }},
		{"even median", func(p *Params) { p.MedianSize = 8 }},
	}

	for _, test := range tests {
		p := DefaultParams()
		test.mod(&p)
		_, err := New(p)
		if !errors.Is(err, ErrBadParams) {
			t.Errorf("%s: did not get expected error, got: %v", test.name, err)
		}
	}
}

func TestPreconditions(t *testing.T) {
	m := newModel(t, 1)

	_, err := m.Apply(uniform(8, 8, 1, 0), 0)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Apply before Initialize: got %v, want %v", err, ErrNotInitialized)
	}
	_, err = m.Background()
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Background before Initialize: got %v, want %v", err, ErrNotInitialized)
	}

	err = m.Initialize(uniform(8, 8, 2, 0), nil)
	if !errors.Is(err, ErrBadChannels) {
		t.Errorf("two channel reference: got %v, want %v", err, ErrBadChannels)
	}
	err = m.Initialize(uniform(8, 8, 1, 0), []image.Point{{1, 1}, {8, 0}})
	if !errors.Is(err, ErrBadPoint) {
		t.Errorf("out of bounds point: got %v, want %v", err, ErrBadPoint)
	}
	err = m.Initialize(&Frame{Width: 8, Height: 8, Channels: 1, Pix: make([]byte, 10)}, nil)
	if !errors.Is(err, ErrBadFrame) {
		t.Errorf("short pixel buffer: got %v, want %v", err, ErrBadFrame)
	}

	err = m.Initialize(uniform(8, 8, 1, 0), nil)
	if err != nil {
		t.Fatalf("could not initialize model: %v", err)
	}
	for _, f := range []*Frame{uniform(8, 9, 1, 0), uniform(9, 8, 1, 0), uniform(8, 8, 3, 0)} {
		_, err = m.Apply(f, 0)
		if !errors.Is(err, ErrFrameMismatch) {
			t.Errorf("mismatched %dx%dx%d frame: got %v, want %v", f.Width, f.Height, f.Channels, err, ErrFrameMismatch)
		}
	}
}

func TestStaticInputIsBackground(t *testing.T) {
	tests := []struct {
		name string
		ref  *Frame
	}{
		{"uniform gray", uniform(16, 16, 1, 120)},
		{"uniform colour", uniform(16, 16, 3, 80)},
		{"gradient", gradient(16, 12, 40)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := newModel(t, 7)
			err := m.Initialize(test.ref, nil)
			if err != nil {
				t.Fatalf("could not initialize model: %v", err)
			}

			n := m.Params().Samples
			for i := 0; i < n+5; i++ {
				mask, err := m.Apply(test.ref, 0)
				if err != nil {
					t.Fatalf("could not apply frame %d: %v", i, err)
				}
				if i < n {
					continue
				}
				for j, v := range mask.Pix {
					if v != 0 || m.RawMask().Pix[j] != 0 {
						t.Fatalf("frame %d: pixel %d labelled foreground", i, j)
					}
				}
			}

			st := m.Stats()
			if st.Foreground != 0 {
				t.Errorf("unexpected foreground fraction: %v", st.Foreground)
			}
			if st.MeanT != TLower {
				t.Errorf("update threshold did not settle: got %v want %v", st.MeanT, TLower)
			}
			if st.Frames != uint64(n+5) || st.Points != test.ref.Width*test.ref.Height {
				t.Errorf("unexpected counts: %d frames, %d points", st.Frames, st.Points)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	const w, h, frames = 16, 16, 20
	run := func() ([][]byte, []PixelState) {
		m := newModel(t, 42)
		rnd := rand.New(rand.NewSource(3))
		err := m.Initialize(noise(rnd, w, h, 3), nil)
		if err != nil {
			t.Fatalf("could not initialize model: %v", err)
		}
		var masks [][]byte
		for i := 0; i < frames; i++ {
			mask, err := m.Apply(noise(rnd, w, h, 3), 0)
			if err != nil {
				t.Fatalf("could not apply frame %d: %v", i, err)
			}
			masks = append(masks, mask.Pix)
		}
		var states []PixelState
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				states = append(states, m.State(x, y))
			}
		}
		return masks, states
	}

	masks1, states1 := run()
	masks2, states2 := run()
	if !cmp.Equal(masks1, masks2) {
		t.Error("masks differ between identically seeded runs")
	}
	if !cmp.Equal(states1, states2) {
		t.Errorf("states differ between identically seeded runs:\n%v", cmp.Diff(states1, states2))
	}
}

func TestStateBounds(t *testing.T) {
	for _, ch := range []int{1, 3} {
		m := newModel(t, 5)
		rnd := rand.New(rand.NewSource(int64(ch)))
		const w, h = 16, 16
		err := m.Initialize(noise(rnd, w, h, ch), nil)
		if err != nil {
			t.Fatalf("could not initialize model: %v", err)
		}

		for i := 0; i < 50; i++ {
			_, err := m.Apply(noise(rnd, w, h, ch), float64(i%3))
			if err != nil {
				t.Fatalf("could not apply frame %d: %v", i, err)
			}
			if got := m.Store().Samples(); got != m.Params().Samples {
				t.Fatalf("sample count changed: got %d want %d", got, m.Params().Samples)
			}
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					s := m.State(x, y)
					switch {
					case s.R < RLower || s.R > RUpper:
						t.Fatalf("R out of bounds at (%d, %d): %v", x, y, s.R)
					case s.T < TLower || s.T > TUpper:
						t.Fatalf("T out of bounds at (%d, %d): %v", x, y, s.T)
					case s.R2 < R2Floor:
						t.Fatalf("R2 below floor at (%d, %d): %v", x, y, s.R2)
					case s.DMin < DMinFloor || s.DMin > 1:
						t.Fatalf("DMin out of bounds at (%d, %d): %v", x, y, s.DMin)
					case s.DLast < 0 || s.DLast > 1, s.S < 0 || s.S > 1:
						t.Fatalf("average out of bounds at (%d, %d): %+v", x, y, s)
					}
				}
			}
		}
	}
}

func TestForegroundNeverTeaches(t *testing.T) {
	const w, h = 20, 20
	m := newModel(t, 11)
	ref := uniform(w, h, 1, 50)
	err := m.Initialize(ref, nil)
	if err != nil {
		t.Fatalf("could not initialize model: %v", err)
	}

	// Pixels of the interior of the square only neighbour other square pixels,
	// so no background pixel can diffuse into them.
	snapshot := func() [][]byte {
		var s [][]byte
		for y := 6; y < 14; y++ {
			for x := 6; x < 14; x++ {
				for slot := 0; slot < m.Store().Samples(); slot++ {
					c, _ := m.Store().Get(y*w+x, slot)
					s = append(s, append([]byte(nil), c...))
				}
			}
		}
		return s
	}
	before := snapshot()

	f := square(ref, 5, 15, 250)
	var mask *image.Gray
	for i := 0; i < 20; i++ {
		mask, err = m.Apply(f, 1)
		if err != nil {
			t.Fatalf("could not apply frame %d: %v", i, err)
		}
	}

	if !cmp.Equal(before, snapshot()) {
		t.Error("foreground pixel samples were modified")
	}
	if mask.GrayAt(10, 10).Y != 255 {
		t.Error("square centre not labelled foreground")
	}
	if mask.GrayAt(1, 1).Y != 0 {
		t.Error("background labelled foreground")
	}
}

func TestGhostDecays(t *testing.T) {
	const w, h = 12, 12
	m := newModel(t, 3)
	ref := uniform(w, h, 1, 100)
	err := m.Initialize(ref, nil)
	if err != nil {
		t.Fatalf("could not initialize model: %v", err)
	}

	// Plant a ghost: the model believes the centre is brighter than it is.
	for y := 4; y < 7; y++ {
		for x := 4; x < 7; x++ {
			for slot := 0; slot < m.Store().Samples(); slot++ {
				m.Store().Set(y*w+x, slot, []byte{200}, []uint16{0})
			}
		}
	}

	// A huge learning rate override all but disables ordinary updates, so
	// only diffusion into neighbours that look like ghosts can erase it.
	const rate = 1e6
	mask, err := m.Apply(ref, rate)
	if err != nil {
		t.Fatalf("could not apply first frame: %v", err)
	}
	if m.RawMask().GrayAt(5, 5).Y != 255 {
		t.Fatal("ghost not detected on first frame")
	}

	// Until the segmentation average saturates the ghost stays.
	for i := 0; i < 100; i++ {
		_, err = m.Apply(ref, rate)
		if err != nil {
			t.Fatalf("could not apply frame %d: %v", i, err)
		}
	}
	if m.RawMask().GrayAt(5, 5).Y != 255 {
		t.Fatal("ghost erased before it was recognised")
	}

	for i := 0; i < 1000; i++ {
		mask, err = m.Apply(ref, rate)
		if err != nil {
			t.Fatalf("could not apply frame %d: %v", i, err)
		}
	}

	for y := 4; y < 7; y++ {
		for x := 4; x < 7; x++ {
			if mask.GrayAt(x, y).Y != 0 || m.RawMask().GrayAt(x, y).Y != 0 {
				t.Errorf("ghost persists at (%d, %d)", x, y)
			}
			if s := m.State(x, y).S; s >= 0.1 {
				t.Errorf("segmentation average did not decay at (%d, %d): %v", x, y, s)
			}
		}
	}
}

func TestBlinkSuppression(t *testing.T) {
	const w, h = 40, 40
	m := newModel(t, 9)
	ref := uniform(w, h, 1, 50)
	err := m.Initialize(ref, nil)
	if err != nil {
		t.Fatalf("could not initialize model: %v", err)
	}

	blob := square(ref, 5, 15, 250)
	for i := 0; i < 8; i++ {
		f := clone(blob)
		v := byte(50)
		if i%2 == 0 {
			v = 250
		}
		f.Pix[9*w+9] = v
		f.Pix[30*w+30] = v
		_, err = m.Apply(f, 0)
		if err != nil {
			t.Fatalf("could not apply frame %d: %v", i, err)
		}
	}

	blinks := m.BlinkMask()
	if blinks.GrayAt(30, 30).Y != 255 {
		t.Error("isolated toggling pixel not flagged as blinking")
	}
	if blinks.GrayAt(9, 9).Y != 0 {
		t.Error("toggling pixel inside foreground flagged as blinking")
	}
	if blinks.GrayAt(25, 25).Y != 0 {
		t.Error("static background flagged as blinking")
	}
}

func TestMonitoredPoints(t *testing.T) {
	const w, h = 8, 8
	m := newModel(t, 1)
	pts := []image.Point{{3, 2}, {1, 1}, {3, 2}, {6, 6}}
	err := m.Initialize(uniform(w, h, 1, 30), pts)
	if err != nil {
		t.Fatalf("could not initialize model: %v", err)
	}
	want := []int{1*w + 1, 2*w + 3, 6*w + 6}
	if !cmp.Equal(m.points, want) {
		t.Errorf("unexpected monitored points: got %v want %v", m.points, want)
	}

	_, err = m.Apply(uniform(w, h, 1, 230), 0)
	if err != nil {
		t.Fatalf("could not apply frame: %v", err)
	}
	for i, v := range m.RawMask().Pix {
		monitored := i == want[0] || i == want[1] || i == want[2]
		if monitored != (v == 255) {
			t.Errorf("pixel %d: monitored %v, raw mask %d", i, monitored, v)
		}
	}
	if st := m.Stats(); st.Points != 3 || st.Foreground != 1 {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestStatsSinglePoint(t *testing.T) {
	m := newModel(t, 1)
	err := m.Initialize(uniform(8, 8, 1, 30), []image.Point{{4, 4}})
	if err != nil {
		t.Fatalf("could not initialize model: %v", err)
	}
	_, err = m.Apply(uniform(8, 8, 1, 230), 0)
	if err != nil {
		t.Fatalf("could not apply frame: %v", err)
	}

	st := m.Stats()
	ps := m.State(4, 4)
	if st.MeanR != ps.R || st.MeanT != ps.T || st.MeanDMin != ps.DMin {
		t.Errorf("means do not match the only point: stats %+v, state %+v", st, ps)
	}
	if st.StdR != 0 || st.StdR2 != 0 || st.StdT != 0 || st.StdDMin != 0 {
		t.Errorf("standard deviations of a single point not zero: %+v", st)
	}
}

func TestCornerForeground(t *testing.T) {
	const w, h = 12, 12
	ops, err := morph.New()
	if err != nil {
		t.Fatalf("could not create morphology backend: %v", err)
	}
	defer ops.Close()
	b := newBlinkStage(w, h, ops, DefaultMedianSize)

	// With foreground in the corner the flood fill does nothing, so all
	// background outside the closing is inverted into foreground.
	raw := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			raw.Pix[y*w+x] = 255
		}
	}
	out := b.apply(raw)
	if n := morph.Count(out); n != w*h {
		t.Errorf("unexpected foreground count: got %d want %d", n, w*h)
	}
}

func TestBackground(t *testing.T) {
	for _, ch := range []int{1, 3} {
		m := newModel(t, 1)
		ref := uniform(10, 6, ch, 77)
		err := m.Initialize(ref, nil)
		if err != nil {
			t.Fatalf("could not initialize model: %v", err)
		}
		bg, err := m.Background()
		if err != nil {
			t.Fatalf("could not get background: %v", err)
		}
		if !cmp.Equal(bg, ref) {
			t.Errorf("unexpected %d channel background:\n%v", ch, cmp.Diff(ref, bg))
		}
	}
}

func TestReinitialize(t *testing.T) {
	m := newModel(t, 1)
	err := m.Initialize(uniform(8, 8, 1, 10), nil)
	if err != nil {
		t.Fatalf("could not initialize model: %v", err)
	}
	_, err = m.Apply(uniform(8, 8, 1, 200), 0)
	if err != nil {
		t.Fatalf("could not apply frame: %v", err)
	}

	err = m.Initialize(uniform(4, 6, 3, 10), nil)
	if err != nil {
		t.Fatalf("could not reinitialize model: %v", err)
	}
	want := PixelState{R: 1, R2: 1, T: TLower}
	if got := m.State(3, 5); got != want {
		t.Errorf("state not reset: got %+v want %+v", got, want)
	}
	if m.Frames() != 0 {
		t.Errorf("frame count not reset: %d", m.Frames())
	}
	_, err = m.Apply(uniform(4, 6, 3, 10), 0)
	if err != nil {
		t.Errorf("could not apply frame after reinitialisation: %v", err)
	}
}
