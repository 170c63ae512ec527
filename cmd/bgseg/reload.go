/*
DESCRIPTION
  reload.go provides reading of the configuration file and the reloading of
  configuration variables that may change while bgseg runs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ausocean/bgseg/config"
	"github.com/ausocean/utils/logging"
)

// learningRateSetter is implemented by filter chains whose learning rate can
// be changed while running.
type learningRateSetter interface {
	SetLearningRate(v float64)
}

// readVars reads a JSON object of configuration variable names to string
// values from the file at path.
func readVars(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vars := map[string]string{}
	err = json.Unmarshal(b, &vars)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	return vars, nil
}

// reload applies the variables that can change while running: the logging
// level and the learning rate override. Other variables are ignored until
// restart. cfg holds the values currently in effect and is updated.
func reload(cfg *config.Config, s learningRateSetter, vars map[string]string) {
	var live config.Config
	live.Logger = cfg.Logger
	live.LogLevel = cfg.LogLevel
	live.BGLearningRate = cfg.BGLearningRate
	changes := map[string]string{}
	for _, k := range []string{config.KeyLogging, config.KeyBGLearningRate} {
		if v, ok := vars[k]; ok {
			changes[k] = v
		}
	}
	live.Update(changes)

	if live.LogLevel != cfg.LogLevel {
		cfg.LogLevel = live.LogLevel
		cfg.Logger.SetLevel(cfg.LogLevel)
		cfg.Logger.Info("log level changed", "level", cfg.LogLevel)
	}
	if live.BGLearningRate < 0 {
		live.BGLearningRate = 0
	}
	if live.BGLearningRate != cfg.BGLearningRate {
		cfg.BGLearningRate = live.BGLearningRate
		s.SetLearningRate(cfg.BGLearningRate)
		cfg.Logger.Info("learning rate changed", "rate", cfg.BGLearningRate)
	}
}

// watch calls fn with the variables of the config file at path every time it
// is written, until ctx is cancelled or the returned watcher is closed.
func watch(ctx context.Context, path string, log logging.Logger, fn func(map[string]string)) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create watcher: %w", err)
	}

	// Editors often replace files, so the directory is watched.
	err = w.Add(filepath.Dir(path))
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("could not watch %s: %w", path, err)
	}

	name := filepath.Clean(path)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				vars, err := readVars(path)
				if err != nil {
					log.Warning(pkg+"could not reload config", "error", err.Error())
					continue
				}
				log.Debug("config file changed", "path", path)
				fn(vars)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warning(pkg+"config watcher error", "error", err.Error())
			}
		}
	}()
	return w, nil
}
