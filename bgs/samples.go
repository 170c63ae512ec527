/*
DESCRIPTION
  samples.go provides the background sample store: N colour and descriptor
  samples for every pixel, held as one plane per sample slot.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import "fmt"

// SampleStore holds the background samples of every pixel. A sample is a
// colour (one byte per channel) and a descriptor (one per channel). Samples
// are only ever replaced, so every pixel always has exactly Samples() of them.
type SampleStore struct {
	w, h, ch int
	color    [][]byte   // Colour plane per slot.
	desc     [][]uint16 // Descriptor plane per slot.
}

func newSampleStore(w, h, ch, n int) *SampleStore {
	s := &SampleStore{
		w:     w,
		h:     h,
		ch:    ch,
		color: make([][]byte, n),
		desc:  make([][]uint16, n),
	}
	for i := 0; i < n; i++ {
		s.color[i] = make([]byte, w*h*ch)
		s.desc[i] = make([]uint16, w*h*ch)
	}
	return s
}

// Samples returns the number of samples held per pixel.
func (s *SampleStore) Samples() int { return len(s.color) }

// Channels returns the number of colour channels per sample.
func (s *SampleStore) Channels() int { return s.ch }

// Get returns sample slot of pixel i, where i = y*width+x. The returned
// slices alias the store and must not be modified.
func (s *SampleStore) Get(i, slot int) (color []byte, desc []uint16) {
	s.mustIndex(i, slot)
	o := i * s.ch
	return s.color[slot][o : o+s.ch], s.desc[slot][o : o+s.ch]
}

// Set replaces sample slot of pixel i with a copy of color and desc.
func (s *SampleStore) Set(i, slot int, color []byte, desc []uint16) {
	s.mustIndex(i, slot)
	if len(color) != s.ch || len(desc) != s.ch {
		panic(fmt.Sprintf("sample has %d colour and %d descriptor channels, store has %d", len(color), len(desc), s.ch))
	}
	o := i * s.ch
	copy(s.color[slot][o:o+s.ch], color)
	copy(s.desc[slot][o:o+s.ch], desc)
}

// initialize fills every slot of every pixel with the colour and descriptor
// of a random position within radius of the pixel, excluding the pixel
// itself. Positions falling outside the frame are clamped to it.
func (s *SampleStore) initialize(color []byte, desc []uint16, radius int, rnd Rand) {
	span := 2*radius + 1
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			i := y*s.w + x
			for slot := range s.color {
				var dx, dy int
				for dx == 0 && dy == 0 {
					dx = rnd.Intn(span) - radius
					dy = rnd.Intn(span) - radius
				}
				j := clamp(y+dy, 0, s.h-1)*s.w + clamp(x+dx, 0, s.w-1)
				s.Set(i, slot, color[j*s.ch:(j+1)*s.ch], desc[j*s.ch:(j+1)*s.ch])
			}
		}
	}
}

func (s *SampleStore) mustIndex(i, slot int) {
	if i < 0 || i >= s.w*s.h {
		panic(fmt.Sprintf("pixel index %d out of range [0, %d)", i, s.w*s.h))
	}
	if slot < 0 || slot >= len(s.color) {
		panic(fmt.Sprintf("sample slot %d out of range [0, %d)", slot, len(s.color)))
	}
}

func clamp(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
