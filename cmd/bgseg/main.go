/*
DESCRIPTION
  bgseg reads an MJPEG stream, segments the foreground of every frame with an
  adaptive background model and writes the frames containing motion.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// bgseg is a command line background segmentation tool for MJPEG streams.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/bgseg/codec/jpeg"
	"github.com/ausocean/bgseg/config"
	"github.com/ausocean/bgseg/filter"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

// Misc constants.
const (
	profilePath = "bgseg.prof"
	pkg         = "bgseg: "
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version")
		logPath     = flag.String("log", "", "rotating log file; logs to standard error if empty")
		cfgPath     = flag.String("config", "", "JSON file of configuration variables, watched for changes")
		set         = flag.String("set", "", "comma separated Name=Value configuration variables, applied after the config file")
		inPath      = flag.String("in", "", "MJPEG input file (overrides InputPath)")
		outPath     = flag.String("out", "", "motion frame output file (overrides OutputPath)")
	)
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var w io.Writer = os.Stderr
	if *logPath != "" {
		// Create lumberjack logger to handle logging to file.
		fileLog := &lumberjack.Logger{
			Filename:   *logPath,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		defer fileLog.Close()
		w = fileLog
	}
	log := logging.New(logVerbosity, w, logSuppress)
	log.Info("starting bgseg", "version", version)

	stop, err := startProfile(profilePath)
	if err != nil {
		log.Fatal(pkg+"could not start CPU profile", "error", err.Error())
	}
	defer stop()

	vars := map[string]string{}
	if *cfgPath != "" {
		vars, err = readVars(*cfgPath)
		if err != nil {
			log.Fatal(pkg+"could not read config file", "error", err.Error())
		}
	}
	for k, v := range parseSet(*set) {
		vars[k] = v
	}
	if *inPath != "" {
		vars[config.KeyInputPath] = *inPath
	}
	if *outPath != "" {
		vars[config.KeyOutputPath] = *outPath
	}

	cfg := config.Config{Logger: log, LogLevel: logVerbosity}
	cfg.Update(vars)
	err = cfg.Validate()
	if err != nil {
		log.Fatal(pkg+"bad config", "error", err.Error())
	}
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = run(ctx, cfg, *cfgPath)
	if err != nil {
		log.Fatal(pkg+"run failed", "error", err.Error())
	}
	log.Info("finished")
}

// run segments the configured input until it ends, or until ctx is
// cancelled between loops of the input.
func run(ctx context.Context, cfg config.Config, cfgPath string) error {
	log := cfg.Logger

	dst, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	rec, err := newRecorder(cfg.MaskPath, log)
	if err != nil {
		return err
	}

	chain, err := filter.NewChain(dst, cfg, rec.observe)
	if err != nil {
		return fmt.Errorf("could not create filters: %w", err)
	}

	if cfgPath != "" {
		live := cfg
		w, err := watch(ctx, cfgPath, log, func(vars map[string]string) { reload(&live, chain, vars) })
		if err != nil {
			log.Warning(pkg+"could not watch config file", "error", err.Error())
		} else {
			defer w.Close()
		}
	}

	lex := jpeg.NewLexer(log, 0)
	for {
		n := lex.Frames()
		err = lexInput(lex, chain, cfg.InputPath)
		if err != nil && !errors.Is(err, io.EOF) {
			log.Error(pkg+"input ended with error", "error", err.Error())
		}
		if !cfg.Loop || ctx.Err() != nil || isStdin(cfg.InputPath) || lex.Frames() == n {
			break
		}
		log.Info("looping input", "frames", lex.Frames())
	}

	err = chain.Close()
	if err != nil {
		log.Error(pkg+"could not close filters", "error", err.Error())
	}
	log.Info("input done", "frames", lex.Frames(), "masks", rec.frames())

	if cfg.PlotPath != "" {
		err = rec.plot(cfg.PlotPath)
		if err != nil {
			return fmt.Errorf("could not plot statistics: %w", err)
		}
	}
	return nil
}

// lexInput lexes the input at path, or standard input, into dst.
func lexInput(l *jpeg.Lexer, dst io.Writer, path string) error {
	if isStdin(path) {
		return l.Lex(dst, os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open input: %w", err)
	}
	defer f.Close()
	return l.Lex(dst, f)
}

func isStdin(path string) bool { return path == "" || path == "-" }

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Close() error                { return nil }

// openOutput returns a writer to the file at path, or one that discards
// frames if path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return discard{}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create output: %w", err)
	}
	return f, nil
}

// parseSet parses comma separated Name=Value pairs.
func parseSet(s string) map[string]string {
	vars := map[string]string{}
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return vars
}
