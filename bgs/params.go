/*
DESCRIPTION
  params.go provides the tunable parameters of the background model and the
  fixed constants that govern its per-pixel controllers.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import "github.com/pkg/errors"

// Distance threshold factor (R) bounds and update rates.
const (
	RLower = 0.8
	RUpper = 2.5
	RScale = 3.5
	RIncr  = 0.085
	RDecr  = 0.030
)

// Threshold variation factor (R2) update rates. R2 never drops below R2Floor
// since R is decremented by RDecr/R2.
const (
	R2Offset = 0.1
	R2Incr   = 0.8
	R2Decr   = 0.1
	R2Floor  = 0.01
)

// Update threshold (T) bounds and update rates.
const (
	TLower = 2.0
	TUpper = 256.0
	TIncr  = 0.5
	TDecr  = 0.025
)

// Ghost and high variance detection thresholds, applied to the segmentation
// (S) and last distance (DLast) averages.
const (
	GhostSMin    = 0.995
	GhostDMax    = 0.010
	HighVarSMin  = 0.85
	HighVarDMin  = 0.175
	HighVarSMin2 = 0.10
	HighVarDMin2 = 0.225
)

const (
	// SingleChannelModulation scales colour thresholds and the gradient
	// weight for single channel input.
	SingleChannelModulation = 0.35

	// DMinFloor bounds the minimal distance average away from zero since T
	// is updated by TIncr/DMin and TDecr/DMin.
	DMinFloor = 0.001
)

// Default parameter values.
const (
	DefaultSamples         = 35
	DefaultRequiredMatches = 2
	DefaultColorThreshold  = 30
	DefaultDescThreshold   = 3
	DefaultLBSPThreshold   = 0.333
	DefaultInitRadius      = 2
	DefaultMedianSize      = 9
)

// Params holds the parameters of a Model.
type Params struct {
	Samples         int     // Number of background samples per pixel, N.
	RequiredMatches int     // Matching samples needed to label a pixel background.
	ColorThreshold  int     // Base colour distance threshold.
	DescThreshold   int     // Base descriptor (Hamming) distance threshold.
	LBSPThreshold   float64 // Relative LBSP comparison threshold.
	InitRadius      int     // Radius of the neighbourhood samples are drawn from at initialisation.
	MedianSize      int     // Aperture of the post-processing median filter; odd.
}

// DefaultParams returns the default model parameters.
func DefaultParams() Params {
	return Params{
		Samples:         DefaultSamples,
		RequiredMatches: DefaultRequiredMatches,
		ColorThreshold:  DefaultColorThreshold,
		DescThreshold:   DefaultDescThreshold,
		LBSPThreshold:   DefaultLBSPThreshold,
		InitRadius:      DefaultInitRadius,
		MedianSize:      DefaultMedianSize,
	}
}

// Validate checks that p describes a usable model. Unlike configuration
// validation, no defaults are substituted.
func (p Params) Validate() error {
	switch {
	case p.Samples <= 0:
		return errors.Wrapf(ErrBadParams, "samples must be positive, got %d", p.Samples)
	case p.RequiredMatches <= 0:
		return errors.Wrapf(ErrBadParams, "required matches must be positive, got %d", p.RequiredMatches)
	case p.RequiredMatches > p.Samples:
		return errors.Wrapf(ErrBadParams, "required matches (%d) exceeds samples (%d)", p.RequiredMatches, p.Samples)
	case p.ColorThreshold <= 0:
		return errors.Wrapf(ErrBadParams, "colour threshold must be positive, got %d", p.ColorThreshold)
	case p.DescThreshold <= 0:
		return errors.Wrapf(ErrBadParams, "descriptor threshold must be positive, got %d", p.DescThreshold)
	case p.LBSPThreshold <= 0:
		return errors.Wrapf(ErrBadParams, "LBSP threshold must be positive, got %v", p.LBSPThreshold)
	case p.InitRadius <= 0:
		return errors.Wrapf(ErrBadParams, "init radius must be positive, got %d", p.InitRadius)
	case p.MedianSize <= 0 || p.MedianSize%2 == 0:
		return errors.Wrapf(ErrBadParams, "median size must be positive and odd, got %d", p.MedianSize)
	}
	return nil
}
