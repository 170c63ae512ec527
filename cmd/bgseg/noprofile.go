//go:build !profile
// +build !profile

/*
DESCRIPTION
  noprofile.go provides a no-op startProfile for builds without the profile
  tag.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

func startProfile(string) (func(), error) { return func() {}, nil }
