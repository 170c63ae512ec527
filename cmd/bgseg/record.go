/*
DESCRIPTION
  record.go provides the recording of foreground masks and background model
  statistics, and the plotting of the statistics when input ends.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/bgseg/bgs"
	"github.com/ausocean/utils/logging"
)

// recorder writes the masks it observes to a directory and keeps the model
// statistics of every frame.
type recorder struct {
	dir   string
	log   logging.Logger
	n     int
	stats []bgs.Stats
}

// newRecorder returns a recorder writing masks to dir. No masks are written
// if dir is empty.
func newRecorder(dir string, log logging.Logger) (*recorder, error) {
	if dir != "" {
		err := os.MkdirAll(dir, 0o755)
		if err != nil {
			return nil, fmt.Errorf("could not create mask directory: %w", err)
		}
	}
	return &recorder{dir: dir, log: log}, nil
}

// observe records a mask and the statistics of the model that produced it.
func (r *recorder) observe(mask *image.Gray, st bgs.Stats) {
	r.stats = append(r.stats, st)
	r.n++
	if r.dir == "" {
		return
	}
	err := writeMask(filepath.Join(r.dir, fmt.Sprintf("mask_%06d.png", r.n)), mask)
	if err != nil {
		r.log.Warning(pkg+"could not write mask", "error", err.Error())
	}
}

func (r *recorder) frames() int { return r.n }

func writeMask(path string, mask *image.Gray) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = png.Encode(f, mask)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// plot saves a plot of the recorded statistics to path. The image format is
// chosen by the file extension.
func (r *recorder) plot(path string) error {
	p := plot.New()
	p.Title.Text = "Background model"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Value"

	series := []struct {
		name string
		val  func(st bgs.Stats) float64
	}{
		{"foreground", func(st bgs.Stats) float64 { return st.Foreground }},
		{"blinking", func(st bgs.Stats) float64 { return st.Blinking }},
		{"mean R", func(st bgs.Stats) float64 { return st.MeanR }},
		{"mean R2", func(st bgs.Stats) float64 { return st.MeanR2 }},
		{"mean DMin", func(st bgs.Stats) float64 { return st.MeanDMin }},
		{"mean S", func(st bgs.Stats) float64 { return st.MeanS }},
	}
	for i, s := range series {
		pts := make(plotter.XYs, len(r.stats))
		for j, st := range r.stats {
			pts[j] = plotter.XY{X: float64(j + 1), Y: s.val(st)}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1)
		p.Add(l)
		p.Legend.Add(s.name, l)
	}
	p.Legend.Top = true

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}
