/*
DESCRIPTION
  classify.go provides the per-pixel classification test, comparing an
  observation against a pixel's background samples using colour and LBSP
  descriptor distances.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

// maxColor is the largest per channel colour distance.
const maxColor = 255

// match is the outcome of comparing an observation with a pixel's samples.
type match struct {
	count   int // Matching samples found, at most RequiredMatches.
	minSum  int // Smallest summed distance over matching samples.
	minDesc int // Smallest descriptor distance over matching samples.
}

// thresholds returns the effective colour and descriptor distance thresholds
// for a distance threshold factor r, and the weight given to descriptor
// distances in the summed distance.
func (m *Model) thresholds(r float64) (color, desc int, grad float64) {
	w := (r - RLower) / (RUpper - RLower)
	grad = (1 - w*w) * 0.5
	if m.ch == 1 {
		return int(r * float64(m.p.ColorThreshold) * SingleChannelModulation),
			int(r * float64(m.p.DescThreshold)),
			grad * SingleChannelModulation
	}
	return int(r * float64(m.p.ColorThreshold) * float64(m.ch)),
		int(r * float64(m.p.DescThreshold) * float64(m.ch)),
		grad
}

// classify compares the observation curr, with intra descriptors intra, at
// pixel i = (x, y) of f against the pixel's samples. Samples are visited in
// slot order and the search stops once RequiredMatches are found.
func (m *Model) classify(f *Frame, x, y, i int, curr []byte, intra []uint16) match {
	bits := m.desc.Bits()
	res := match{minSum: maxColor * m.ch, minDesc: bits * m.ch}
	colorThr, descThr, grad := m.thresholds(m.r[i])
	scale := maxColor / bits

	for slot := 0; slot < m.p.Samples && res.count < m.p.RequiredMatches; slot++ {
		bgColor, bgDesc := m.store.Get(i, slot)

		// The summed distance is never less than the colour distance, so
		// samples failing on colour alone are rejected before computing
		// descriptors.
		var l1 int
		for c := range curr {
			l1 += absDiff(curr[c], bgColor[c])
		}
		if l1 > colorThr {
			continue
		}

		var descDist, sumDist int
		for c := range curr {
			inter := m.desc.Describe(f, x, y, c, bgColor[c], m.lut[bgColor[c]])
			d := (m.desc.Distance(inter, bgDesc[c]) + m.desc.Distance(intra[c], bgDesc[c])) / 2
			descDist += d
			sumDist += min(int(grad*float64(d))*scale+absDiff(curr[c], bgColor[c]), maxColor)
		}
		if descDist > descThr || sumDist > colorThr {
			continue
		}

		res.minDesc = min(res.minDesc, descDist)
		res.minSum = min(res.minSum, sumDist)
		res.count++
	}
	return res
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
