//go:build profile
// +build profile

/*
DESCRIPTION
  profile.go provides CPU profiling of a bgseg run when built with the
  profile tag.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"os"
	"runtime/pprof"

	"github.com/pkg/errors"
)

// startProfile starts a CPU profile written to path. The returned func
// stops the profile and closes the file.
func startProfile(path string) (stop func(), err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not create profile file")
	}
	err = pprof.StartCPUProfile(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "could not start CPU profile")
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}
