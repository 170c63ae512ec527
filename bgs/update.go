/*
DESCRIPTION
  update.go provides the conservative, stochastic sample update policy:
  background observations replace random samples of the pixel and of a
  random neighbour.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import "math"

// neighbours holds the 8-connected neighbour offsets {dx, dy}.
var neighbours = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// ghostOdds is the inverse probability of diffusing into a neighbour that
// looks like a ghost, i.e. persistent foreground that no longer changes.
const ghostOdds = 4

// learningRate returns the inverse update probability for update threshold
// t, or for override when it is positive.
func learningRate(override, t float64) int {
	if override > 0 {
		return int(math.Ceil(override))
	}
	return int(math.Ceil(t))
}

// update applies the sample update policy for the background observation
// curr at pixel i = (x, y). Writes are applied immediately.
func (m *Model) update(x, y, i int, curr []byte, intra []uint16, override float64) {
	lr := learningRate(override, m.t[i])
	n := m.p.Samples

	if m.rnd.Intn(lr) == 0 {
		m.store.Set(i, m.rnd.Intn(n), curr, intra)
	}

	o := neighbours[m.rnd.Intn(len(neighbours))]
	j := clamp(y+o[1], 0, m.h-1)*m.w + clamp(x+o[0], 0, m.w-1)
	ok := m.rnd.Intn(lr) == 0
	if !ok && m.s[j] > GhostSMin && m.dLast[j] < GhostDMax {
		ok = m.rnd.Intn(ghostOdds) == 0
	}
	if ok {
		m.store.Set(j, m.rnd.Intn(n), curr, intra)
	}
}
