package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/xxxbrian/rulelist/internal/confirm"
	"github.com/xxxbrian/rulelist/internal/geoip"
	"github.com/xxxbrian/rulelist/internal/logging"
	"github.com/xxxbrian/rulelist/internal/preprocess"
)

func runPreprocess(args []string, e env) int {
	fs := flag.NewFlagSet("preprocess", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	var (
		output   string
		dedup    bool
		validate bool
		inplace  bool
		verbose  bool
		noBackup bool
		geoipDB  string
	)
	fs.StringVar(&output, "o", "", "Path to output file (default: overwrite input)")
	fs.StringVar(&output, "output", "", "Path to output file (default: overwrite input)")
	fs.BoolVar(&dedup, "d", false, "Remove duplicate rules within groups")
	fs.BoolVar(&dedup, "dedup", false, "Remove duplicate rules within groups")
	fs.BoolVar(&validate, "v", false, "Validate rule format")
	fs.BoolVar(&validate, "validate", false, "Validate rule format")
	fs.BoolVar(&inplace, "inplace", false, "Allow in-place modification (creates backup)")
	fs.BoolVar(&verbose, "verbose", false, "Print detailed output")
	fs.BoolVar(&noBackup, "no-backup", false, "Do not create a .bak file when overwriting the input")
	fs.StringVar(&geoipDB, "geoip-db", "", "MaxMind DB used to check GEOIP codes during validation (optional)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if len(positional) != 1 {
		fmt.Fprintln(e.stderr, "preprocess: expected exactly one input file")
		fs.Usage()
		return 2
	}
	input := positional[0]
	logger := logging.New(e.stderr, verbose)

	if output == "" && dedup && !inplace {
		fmt.Fprintln(e.stdout, "Warning: In-place deduplication will overwrite the input file.")
		fmt.Fprintln(e.stdout, "Use --inplace flag to confirm, or -o to specify output file.")
		if !e.isTerminal() {
			logger.Warn("stdin is not a terminal, not overwriting without --inplace")
			fmt.Fprintln(e.stdout, "Cancelled.")
			return 0
		}
		ok, err := confirm.Ask(e.stdin, e.stdout, "Continue?")
		if err != nil {
			logger.Error("confirmation failed", "error", err, logging.TraceAttr(err))
			return 1
		}
		if !ok {
			fmt.Fprintln(e.stdout, "Cancelled.")
			return 0
		}
	}

	opts := preprocess.Options{
		Dedup:    dedup,
		Validate: validate,
		Verbose:  verbose,
		Backup:   !noBackup,
		Logger:   logger,
	}
	if geoipDB != "" {
		set, err := geoip.Open(geoipDB)
		if err != nil {
			logger.Error("failed to load geoip database", "error", err, logging.TraceAttr(err))
			return 1
		}
		logger.Debug("loaded geoip database", "path", geoipDB, "count", set.Len(), "codes", strings.Join(set.Codes(), ","))
		opts.GeoIP = set
	}

	if _, err := preprocess.ProcessFile(input, output, opts, e.stdout); err != nil {
		if errors.Is(err, preprocess.ErrValidationFailed) {
			return 1
		}
		logger.Error("preprocess failed", "error", err, logging.TraceAttr(err))
		return 1
	}
	return 0
}
