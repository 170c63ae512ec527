/*
DESCRIPTION
  errors.go defines the errors returned by the background model.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bgs

import "github.com/pkg/errors"

// Errors returned by the model. Returned errors may wrap these with context;
// use errors.Is or errors.Cause to test for them.
var (
	ErrNotInitialized = errors.New("model not initialized")
	ErrFrameMismatch  = errors.New("frame does not match model geometry")
	ErrBadChannels    = errors.New("unsupported channel count")
	ErrBadParams      = errors.New("invalid model parameters")
	ErrBadPoint       = errors.New("monitored point out of frame bounds")
	ErrBadFrame       = errors.New("malformed frame")
)
