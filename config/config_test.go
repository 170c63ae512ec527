/*
DESCRIPTION
  config_test.go provides testing for the Config struct methods (Validate and Update).

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
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/bgseg/bgs"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := Config{
		Logger:            dl,
		FrameRate:         defaultFrameRate,
		MinFPS:            defaultMinFPS,
		BGSamples:         defaultBGSamples,
		BGRequiredMatches: defaultBGRequiredMatches,
		BGColorThreshold:  defaultBGColorThreshold,
		BGDescThreshold:   defaultBGDescThreshold,
		BGLBSPThreshold:   defaultBGLBSPThreshold,
		BGInitRadius:      defaultBGInitRadius,
		BGMedianSize:      defaultBGMedianSize,
		BGChannels:        defaultBGChannels,
	}

	got := Config{Logger: dl}
	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}

	if !cmp.Equal(got.BGParams(), bgs.DefaultParams()) {
		t.Errorf("unexpected model params\nwant: %+v\ngot: %+v", bgs.DefaultParams(), got.BGParams())
	}
}

func TestValidateCorrections(t *testing.T) {
	dl := &dumbLogger{}

	tests := []struct {
		name string
		in   Config
		want func(c *Config) bool
	}{
		{
			name: "even median size",
			in:   Config{BGMedianSize: 4},
			want: func(c *Config) bool { return c.BGMedianSize == defaultBGMedianSize },
		},
		{
			name: "odd median size kept",
			in:   Config{BGMedianSize: 5},
			want: func(c *Config) bool { return c.BGMedianSize == 5 },
		},
		{
			name: "matches exceed samples",
			in:   Config{BGSamples: 8, BGRequiredMatches: 9},
			want: func(c *Config) bool { return c.BGSamples == 8 && c.BGRequiredMatches == defaultBGRequiredMatches },
		},
		{
			name: "single sample",
			in:   Config{BGSamples: 1, BGRequiredMatches: 1},
			want: func(c *Config) bool { return c.BGSamples == 1 && c.BGRequiredMatches == 1 },
		},
		{
			name: "bad channels",
			in:   Config{BGChannels: 2},
			want: func(c *Config) bool { return c.BGChannels == defaultBGChannels },
		},
		{
			name: "colour channels",
			in:   Config{BGChannels: 3},
			want: func(c *Config) bool { return c.BGChannels == 3 },
		},
		{
			name: "negative learning rate",
			in:   Config{BGLearningRate: -2},
			want: func(c *Config) bool { return c.BGLearningRate == 0 },
		},
		{
			name: "min fps above frame rate",
			in:   Config{FrameRate: 10, MinFPS: 20},
			want: func(c *Config) bool { return c.MinFPS == 10 },
		},
		{
			name: "frame rate out of range",
			in:   Config{FrameRate: 100},
			want: func(c *Config) bool { return c.FrameRate == defaultFrameRate },
		},
		{
			name: "bad log level",
			in:   Config{LogLevel: 10},
			want: func(c *Config) bool { return c.LogLevel == defaultVerbosity },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := test.in
			c.Logger = dl
			err := c.Validate()
			if err != nil {
				t.Fatalf("did not expect error: %v", err)
			}
			if !test.want(&c) {
				t.Errorf("unexpected config after validation: %+v", c)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	updateMap := map[string]string{
		"BGChannels":        "3",
		"BGColorThreshold":  "20",
		"BGDescThreshold":   "4",
		"BGInitRadius":      "1",
		"BGLBSPThreshold":   "0.25",
		"BGLearningRate":    "16",
		"BGMedianSize":      "5",
		"BGRequiredMatches": "3",
		"BGSamples":         "20",
		"BGSeed":            "-7",
		"Filters":           "BGS, VariableFPS",
		"FrameRate":         "30",
		"InputPath":         "/inputpath",
		"logging":           "Error",
		"Loop":              "true",
		"MaskPath":          "/maskpath",
		"MinFPS":            "5",
		"MotionDownscaling": "3",
		"MotionInterval":    "6",
		"MotionPadding":     "8",
		"MotionPixels":      "100",
		"OutputPath":        "/outputpath",
		"PlotPath":          "/plot.png",
		"Unknown":           "ignored",
	}

	dl := &dumbLogger{}

	want := Config{
		Logger:            dl,
		BGChannels:        3,
		BGColorThreshold:  20,
		BGDescThreshold:   4,
		BGInitRadius:      1,
		BGLBSPThreshold:   0.25,
		BGLearningRate:    16,
		BGMedianSize:      5,
		BGRequiredMatches: 3,
		BGSamples:         20,
		BGSeed:            -7,
		Filters:           []uint{FilterBGS, FilterVariableFPS},
		FrameRate:         30,
		InputPath:         "/inputpath",
		LogLevel:          logging.Error,
		Loop:              true,
		MaskPath:          "/maskpath",
		MinFPS:            5,
		MotionDownscaling: 3,
		MotionInterval:    6,
		MotionPadding:     8,
		MotionPixels:      100,
		OutputPath:        "/outputpath",
		PlotPath:          "/plot.png",
	}

	got := Config{Logger: dl}
	got.Update(updateMap)
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestUpdateBadFilter(t *testing.T) {
	got := Config{Logger: &dumbLogger{}}
	got.Update(map[string]string{"Filters": "NoOp,KNN"})
	want := []uint{FilterNoOp}
	if !cmp.Equal(got.Filters, want) {
		t.Errorf("unexpected filters: got %v want %v", got.Filters, want)
	}
}
