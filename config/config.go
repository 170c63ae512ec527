/*
NAME
  config.go

DESCRIPTION
  config.go provides the configuration settings for background segmentation
  pipelines.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for bgseg.
package config

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/bgseg/bgs"
)

// The different media filters.
const (
	FilterNoOp = iota
	FilterBGS
	FilterVariableFPS
)

// Config provides parameters relevant to a segmentation pipeline. Default
// values for these fields are defined as consts in variables.go.
type Config struct {
	// Logger holds an implementation of the Logger interface.
	// This must be set for the pipeline to work correctly.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	Suppress bool // Holds logger suppression state.

	Filters []uint // Defines the methods of filtering to be applied to lexed frames, first to last.

	// FrameRate defines the frame rate of the input, used to derive the
	// reduced frame rate of the VariableFPS filter.
	FrameRate uint

	// InputPath defines the MJPEG input file location. Standard input is read
	// if this is empty or "-".
	InputPath string

	// OutputPath defines the location frames passing the filters are written
	// to. Frames are discarded if this is empty.
	OutputPath string

	// MaskPath is a directory to which the foreground mask of every processed
	// frame is written as a PNG. No masks are written if this is empty.
	MaskPath string

	// PlotPath is a file to which a plot of the model statistics is written
	// when input ends. No plot is written if this is empty.
	PlotPath string

	Loop   bool // If true will restart reading of input after an io.EOF.
	MinFPS uint // The reduced framerate of the video when there is no motion.

	MotionDownscaling uint // Downscaling factor of frames used for motion detection.
	MotionInterval    uint // Sets the number of frames that are held before the filter is used (on the nth frame).
	MotionPadding     uint // Number of frames to keep before and after motion detected.
	MotionPixels      uint // Number of foreground pixels needed for a whole frame to be considered as moving.

	BGSamples         uint    // Background samples kept per pixel.
	BGRequiredMatches uint    // Matching samples needed to label a pixel background.
	BGColorThreshold  uint    // Base colour distance threshold.
	BGDescThreshold   uint    // Base LBSP descriptor distance threshold.
	BGLBSPThreshold   float64 // Relative LBSP comparison threshold.
	BGInitRadius      uint    // Neighbourhood radius samples are drawn from at initialisation.
	BGMedianSize      uint    // Aperture of the mask median filter.
	BGChannels        uint    // Channels used for segmentation, 1 (luma) or 3 (RGB).

	// BGLearningRate overrides the adaptive update threshold of every pixel
	// when positive.
	BGLearningRate float64

	// BGSeed seeds the model's random source. Zero selects a time based seed.
	BGSeed int64
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// BGParams returns the background model parameters held by c.
func (c *Config) BGParams() bgs.Params {
	return bgs.Params{
		Samples:         int(c.BGSamples),
		RequiredMatches: int(c.BGRequiredMatches),
		ColorThreshold:  int(c.BGColorThreshold),
		DescThreshold:   int(c.BGDescThreshold),
		LBSPThreshold:   c.BGLBSPThreshold,
		InitRadius:      int(c.BGInitRadius),
		MedianSize:      int(c.BGMedianSize),
	}
}
