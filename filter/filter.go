/*
NAME
  filter.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter provides the interface and implementations of the filters
// to be used on JPEG frames that have been lexed from a video stream.
package filter

import (
	"fmt"
	"io"

	"github.com/ausocean/bgseg/config"
)

// Interface for all filters.
type Filter interface {
	io.WriteCloser
	//NB: Filter interface may evolve with more methods as required.
}

// The NoOp filter will perform no operation on the data that is being recieved,
// it will pass it on to the destination with no changes.
type NoOp struct {
	dst io.Writer
}

func NewNoOp(dst io.Writer) *NoOp { return &NoOp{dst: dst} }

func (n *NoOp) Write(p []byte) (int, error) { return n.dst.Write(p) }

func (n *NoOp) Close() error { return nil }

// Chain is a sequence of filters, each writing to the next, with the last
// writing to the chain's destination.
type Chain struct {
	filters []Filter
	bgs     []*BGS
}

// NewChain builds the filters named by c.Filters in front of dst. Masks and
// statistics of every background segmentation filter are passed to onMask if
// it is not nil. With no filters the chain passes frames through untouched.
func NewChain(dst io.WriteCloser, c config.Config, onMask MaskFunc) (*Chain, error) {
	if len(c.Filters) == 0 {
		c.Filters = []uint{config.FilterNoOp}
	}

	ch := &Chain{filters: make([]Filter, len(c.Filters))}
	var next io.WriteCloser = dst
	for i := len(c.Filters) - 1; i >= 0; i-- {
		switch c.Filters[i] {
		case config.FilterNoOp:
			c.Logger.Debug("using NoOp filter")
			ch.filters[i] = NewNoOp(next)
		case config.FilterBGS:
			c.Logger.Debug("using BGS filter")
			m, alg := NewBGS(next, c, onMask)
			ch.bgs = append(ch.bgs, alg)
			ch.filters[i] = m
		case config.FilterVariableFPS:
			c.Logger.Debug("using Variable FPS BGS filter")
			m, alg := NewBGS(next, c, onMask)
			ch.bgs = append(ch.bgs, alg)
			ch.filters[i] = NewVariableFPS(next, c, m)
		default:
			return nil, fmt.Errorf("unknown filter: %d", c.Filters[i])
		}
		next = ch.filters[i]
	}
	c.Logger.Info("filters set up", "filters", len(ch.filters))
	return ch, nil
}

// Write passes a frame to the first filter of the chain.
func (ch *Chain) Write(p []byte) (int, error) { return ch.filters[0].Write(p) }

// SetLearningRate sets the learning rate override of every background
// segmentation filter in the chain. Values <= 0 restore adaptive rates.
func (ch *Chain) SetLearningRate(v float64) {
	for _, b := range ch.bgs {
		b.SetLearningRate(v)
	}
}

// Close closes every filter of the chain, returning the first error.
func (ch *Chain) Close() error {
	var first error
	for _, f := range ch.filters {
		err := f.Close()
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}
