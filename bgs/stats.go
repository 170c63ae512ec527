/*
DESCRIPTION
  stats.go provides summary statistics of the model's per-pixel state.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import "gonum.org/v1/gonum/stat"

// Stats summarises the state of the monitored pixels after the last frame.
type Stats struct {
	Frames     uint64
	Points     int
	Foreground float64 // Fraction of monitored pixels labelled foreground before post-processing.
	Blinking   float64 // Fraction of monitored pixels flagged as blinking.

	MeanR, StdR       float64
	MeanR2, StdR2     float64
	MeanT, StdT       float64
	MeanDMin, StdDMin float64
	MeanDLast         float64
	MeanS             float64
}

// Stats returns summary statistics of the monitored pixels. The zero Stats is
// returned for an uninitialized model.
func (m *Model) Stats() Stats {
	if !m.initialized {
		return Stats{}
	}

	n := len(m.points)
	gather := func(src []float64) []float64 {
		v := make([]float64, n)
		for k, i := range m.points {
			v[k] = src[i]
		}
		return v
	}

	var fg, blink int
	for _, i := range m.points {
		if m.raw.Pix[i] != 0 {
			fg++
		}
		if m.blink.blinking(i) {
			blink++
		}
	}

	st := Stats{
		Frames:     m.frames,
		Points:     n,
		Foreground: float64(fg) / float64(n),
		Blinking:   float64(blink) / float64(n),
		MeanDLast:  stat.Mean(gather(m.dLast), nil),
		MeanS:      stat.Mean(gather(m.s), nil),
	}
	st.MeanR, st.StdR = meanStdDev(gather(m.r))
	st.MeanR2, st.StdR2 = meanStdDev(gather(m.r2))
	st.MeanT, st.StdT = meanStdDev(gather(m.t))
	st.MeanDMin, st.StdDMin = meanStdDev(gather(m.dMin))
	return st
}

// meanStdDev returns the mean and sample standard deviation of v. The
// standard deviation of fewer than two values is 0.
func meanStdDev(v []float64) (mean, std float64) {
	if len(v) < 2 {
		return stat.Mean(v, nil), 0
	}
	return stat.MeanStdDev(v, nil)
}
