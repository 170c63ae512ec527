/*
DESCRIPTION
  rand.go provides the random source abstraction used for sample
  initialisation and model updates.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import (
	"math/rand"
	"time"
)

// Rand is a source of uniformly distributed integers. Intn returns a value
// in [0, n). A *rand.Rand satisfies Rand.
type Rand interface {
	Intn(n int) int
}

func newRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
