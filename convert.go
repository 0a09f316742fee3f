package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/xxxbrian/rulelist/internal/converter"
	"github.com/xxxbrian/rulelist/internal/listfile"
	"github.com/xxxbrian/rulelist/internal/logging"
)

func runConvert(args []string, e env) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	var (
		output  string
		verify  bool
		verbose bool
	)
	fs.StringVar(&output, "o", "", "Path to output .yaml file (default: input with .yaml extension)")
	fs.StringVar(&output, "output", "", "Path to output .yaml file (default: input with .yaml extension)")
	fs.BoolVar(&verify, "verify", false, "Check that the generated document is a valid rule-provider payload")
	fs.BoolVar(&verbose, "verbose", false, "Print detailed output")

	positional, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	switch {
	case len(positional) == 2 && output == "":
		output = positional[1]
	case len(positional) != 1:
		fmt.Fprintln(e.stderr, "convert: expected an input file and at most one output file")
		fs.Usage()
		return 2
	}
	input := positional[0]
	if output == "" {
		output = yamlPath(input)
	}
	logger := logging.New(e.stderr, verbose)

	if listfile.SamePath(input, output) {
		logger.Error("output would overwrite input, pass a different output path", "path", input)
		return 1
	}

	if err := converter.ConvertFile(input, output, converter.Options{Verify: verify, Logger: logger}); err != nil {
		logger.Error("conversion failed", "error", err, logging.TraceAttr(err))
		return 1
	}

	fmt.Fprintf(e.stdout, "Successfully converted %s to %s\n", input, output)
	return 0
}

func yamlPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".yaml"
}
