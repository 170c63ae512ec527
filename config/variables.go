/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/bgseg/bgs"
)

// Config map Keys.
const (
	KeyBGChannels        = "BGChannels"
	KeyBGColorThreshold  = "BGColorThreshold"
	KeyBGDescThreshold   = "BGDescThreshold"
	KeyBGInitRadius      = "BGInitRadius"
	KeyBGLBSPThreshold   = "BGLBSPThreshold"
	KeyBGLearningRate    = "BGLearningRate"
	KeyBGMedianSize      = "BGMedianSize"
	KeyBGRequiredMatches = "BGRequiredMatches"
	KeyBGSamples         = "BGSamples"
	KeyBGSeed            = "BGSeed"
	KeyFilters           = "Filters"
	KeyFrameRate         = "FrameRate"
	KeyInputPath         = "InputPath"
	KeyLogging           = "logging"
	KeyLoop              = "Loop"
	KeyMaskPath          = "MaskPath"
	KeyMinFPS            = "MinFPS"
	KeyMotionDownscaling = "MotionDownscaling"
	KeyMotionInterval    = "MotionInterval"
	KeyMotionPadding     = "MotionPadding"
	KeyMotionPixels      = "MotionPixels"
	KeyOutputPath        = "OutputPath"
	KeyPlotPath          = "PlotPath"
	KeySuppress          = "Suppress"
)

// Config map parameter types.
const (
	typeString = "string"
	typeInt    = "int"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

// Default variable values.
const (
	// General defaults.
	defaultVerbosity = logging.Error
	defaultFrameRate = 25

	// Motion filter parameter defaults.
	defaultMinFPS = 1.0

	// Background model defaults.
	defaultBGSamples         = bgs.DefaultSamples
	defaultBGRequiredMatches = bgs.DefaultRequiredMatches
	defaultBGColorThreshold  = bgs.DefaultColorThreshold
	defaultBGDescThreshold   = bgs.DefaultDescThreshold
	defaultBGLBSPThreshold   = bgs.DefaultLBSPThreshold
	defaultBGInitRadius      = bgs.DefaultInitRadius
	defaultBGMedianSize      = bgs.DefaultMedianSize
	defaultBGChannels        = 1
	defaultBGLearningRate    = 0
)

// Variables describes the variables that can be used for pipeline control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyBGChannels,
		Type:   "enum:1,3",
		Update: func(c *Config, v string) { c.BGChannels = parseUint(KeyBGChannels, v, c) },
		Validate: func(c *Config) {
			if c.BGChannels != 1 && c.BGChannels != 3 {
				c.LogInvalidField(KeyBGChannels, defaultBGChannels)
				c.BGChannels = defaultBGChannels
			}
		},
	},
	{
		Name:     KeyBGColorThreshold,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.BGColorThreshold = parseUint(KeyBGColorThreshold, v, c) },
		Validate: func(c *Config) { c.BGColorThreshold = lessThanOrEqual(KeyBGColorThreshold, c.BGColorThreshold, 0, c, defaultBGColorThreshold) },
	},
	{
		Name:     KeyBGDescThreshold,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.BGDescThreshold = parseUint(KeyBGDescThreshold, v, c) },
		Validate: func(c *Config) { c.BGDescThreshold = lessThanOrEqual(KeyBGDescThreshold, c.BGDescThreshold, 0, c, defaultBGDescThreshold) },
	},
	{
		Name:     KeyBGInitRadius,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.BGInitRadius = parseUint(KeyBGInitRadius, v, c) },
		Validate: func(c *Config) { c.BGInitRadius = lessThanOrEqual(KeyBGInitRadius, c.BGInitRadius, 0, c, defaultBGInitRadius) },
	},
	{
		Name:   KeyBGLBSPThreshold,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.BGLBSPThreshold = parseFloat(KeyBGLBSPThreshold, v, c) },
		Validate: func(c *Config) {
			if c.BGLBSPThreshold <= 0 {
				c.LogInvalidField(KeyBGLBSPThreshold, defaultBGLBSPThreshold)
				c.BGLBSPThreshold = defaultBGLBSPThreshold
			}
		},
	},
	{
		Name:   KeyBGLearningRate,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.BGLearningRate = parseFloat(KeyBGLearningRate, v, c) },
		Validate: func(c *Config) {
			if c.BGLearningRate < 0 {
				c.LogInvalidField(KeyBGLearningRate, defaultBGLearningRate)
				c.BGLearningRate = defaultBGLearningRate
			}
		},
	},
	{
		Name:   KeyBGMedianSize,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.BGMedianSize = parseUint(KeyBGMedianSize, v, c) },
		Validate: func(c *Config) {
			if c.BGMedianSize == 0 || c.BGMedianSize%2 == 0 {
				c.LogInvalidField(KeyBGMedianSize, defaultBGMedianSize)
				c.BGMedianSize = defaultBGMedianSize
			}
		},
	},
	// Samples must be validated before the matches that depend on them.
	{
		Name:     KeyBGSamples,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.BGSamples = parseUint(KeyBGSamples, v, c) },
		Validate: func(c *Config) { c.BGSamples = lessThanOrEqual(KeyBGSamples, c.BGSamples, 0, c, defaultBGSamples) },
	},
	{
		Name:   KeyBGRequiredMatches,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.BGRequiredMatches = parseUint(KeyBGRequiredMatches, v, c) },
		Validate: func(c *Config) {
			if c.BGRequiredMatches == 0 || c.BGRequiredMatches > c.BGSamples {
				c.LogInvalidField(KeyBGRequiredMatches, defaultBGRequiredMatches)
				c.BGRequiredMatches = defaultBGRequiredMatches
			}
		},
	},
	{
		Name: KeyBGSeed,
		Type: typeInt,
		Update: func(c *Config, v string) {
			s, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.Logger.Warning("invalid BGSeed param", "value", v)
			}
			c.BGSeed = s
		},
	},
	{
		Name: KeyFilters,
		Type: "enums:NoOp,BGS,VariableFPS",
		Update: func(c *Config, v string) {
			filters := strings.Split(v, ",")
			m := map[string]uint{"NoOp": FilterNoOp, "BGS": FilterBGS, "VariableFPS": FilterVariableFPS}
			c.Filters = make([]uint, 0, len(filters))
			for _, filter := range filters {
				f, ok := m[strings.TrimSpace(filter)]
				if !ok {
					c.Logger.Warning("invalid Filters param", "value", filter)
					continue
				}
				c.Filters = append(c.Filters, f)
			}
		},
	},
	{
		Name:   KeyFrameRate,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FrameRate = parseUint(KeyFrameRate, v, c) },
		Validate: func(c *Config) {
			if c.FrameRate <= 0 || c.FrameRate > 60 {
				c.LogInvalidField(KeyFrameRate, defaultFrameRate)
				c.FrameRate = defaultFrameRate
			}
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyLoop,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Loop = parseBool(KeyLoop, v, c) },
	},
	{
		Name:   KeyMaskPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.MaskPath = v },
	},
	{
		Name:   KeyMinFPS,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MinFPS = parseUint(KeyMinFPS, v, c) },
		Validate: func(c *Config) {
			c.MinFPS = lessThanOrEqual(KeyMinFPS, c.MinFPS, 0, c, defaultMinFPS)
			if c.FrameRate != 0 && c.MinFPS > c.FrameRate {
				c.LogInvalidField(KeyMinFPS, c.FrameRate)
				c.MinFPS = c.FrameRate
			}
		},
	},
	{
		Name:   KeyMotionDownscaling,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MotionDownscaling = parseUint(KeyMotionDownscaling, v, c) },
	},
	{
		Name:   KeyMotionInterval,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MotionInterval = parseUint(KeyMotionInterval, v, c) },
	},
	{
		Name:   KeyMotionPadding,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MotionPadding = parseUint(KeyMotionPadding, v, c) },
	},
	{
		Name:   KeyMotionPixels,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MotionPixels = parseUint(KeyMotionPixels, v, c) },
	},
	{
		Name:   KeyOutputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OutputPath = v },
	},
	{
		Name:   KeyPlotPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.PlotPath = v },
	},
	{
		Name: KeySuppress,
		Type: typeBool,
		Update: func(c *Config, v string) {
			c.Suppress = parseBool(KeySuppress, v, c)
			if l, ok := c.Logger.(*logging.JSONLogger); ok {
				l.SetSuppress(c.Suppress)
			}
		},
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseFloat(n, v string, c *Config) float64 {
	_v, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
	}
	return _v
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
