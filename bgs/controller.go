/*
DESCRIPTION
  controller.go provides the per-pixel feedback controllers that adapt the
  distance threshold factor (R), its variation factor (R2) and the update
  threshold (T) from running distance and segmentation averages.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import "math"

// PixelState holds the adaptive state of a single pixel.
type PixelState struct {
	R     float64 // Distance threshold factor.
	R2    float64 // Threshold variation factor.
	T     float64 // Update threshold; the inverse of the update probability.
	DMin  float64 // Average normalised minimal distance to the samples.
	DLast float64 // Average normalised distance to the previous observation.
	S     float64 // Average segmentation result, 1 being foreground.
}

// ema folds x into the running average v over a window of n observations.
func ema(v, x float64, n int) float64 {
	return (v*float64(n-1) + x) / float64(n)
}

// updateDistances folds the minimal sample distances of res and the
// distance between curr and the previous observation into DMin and DLast.
func (m *Model) updateDistances(i int, res match, curr []byte, intra []uint16) {
	n := m.p.Samples
	colorRange := float64(maxColor * m.ch)
	descRange := float64(m.desc.Bits() * m.ch)

	d := (float64(res.minSum)/colorRange + float64(res.minDesc)/descRange) / 2
	m.dMin[i] = math.Max(ema(m.dMin[i], d, n), DMinFloor)

	o := i * m.ch
	var color, desc int
	for c := range curr {
		color += absDiff(m.lastColor[o+c], curr[c])
		desc += m.desc.Distance(m.lastDesc[o+c], intra[c])
	}
	d = (float64(color)/colorRange + float64(desc)/descRange) / 2
	m.dLast[i] = ema(m.dLast[i], d, n)
}

// label updates the segmentation average and update threshold of pixel i
// for a foreground or background decision.
func (m *Model) label(i int, fg bool) {
	n := m.p.Samples
	if fg {
		m.s[i] = ema(m.s[i], 1, n)
		m.t[i] = math.Min(m.t[i]+TIncr/m.dMin[i], TUpper)
		return
	}
	m.s[i] = ema(m.s[i], 0, n)
	m.t[i] = math.Max(m.t[i]-TDecr/m.dMin[i], TLower)
}

// adapt updates the threshold variation factor and distance threshold factor
// of pixel i. blink reports whether the pixel was flagged as blinking by the
// previous frame.
func (m *Model) adapt(i int, blink bool) {
	s, dLast := m.s[i], m.dLast[i]
	switch {
	case m.dMin[i] > R2Offset && blink,
		s > HighVarSMin && dLast > HighVarDMin,
		s > HighVarSMin2 && dLast > HighVarDMin2:
		m.r2[i] += R2Incr
	default:
		m.r2[i] = math.Max(m.r2[i]-R2Decr, R2Floor)
	}

	if m.r[i] < RLower+m.dMin[i]*RScale {
		m.r[i] = math.Min(m.r[i]+RIncr*m.r2[i], RUpper)
		return
	}
	m.r[i] = math.Max(m.r[i]-RDecr/m.r2[i], RLower)
}
