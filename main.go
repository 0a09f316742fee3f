// Rulelist
// Deduplicates, validates and converts Clash/Mihomo/Surge rule lists.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/xxxbrian/rulelist/internal/confirm"
)

// Version is printed by `rulelist version`. Release builds set it with
// -ldflags "-X main.Version=<version>".
var Version = "1.0.0"

// env holds the process streams so commands can be driven from tests.
type env struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	isTerminal func() bool
}

func main() {
	e := env{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		isTerminal: func() bool { return confirm.IsTerminal(os.Stdin) },
	}
	os.Exit(run(os.Args[1:], e))
}

func run(args []string, e env) int {
	if len(args) == 0 {
		printUsage(e.stderr)
		return 2
	}

	switch args[0] {
	case "preprocess":
		return runPreprocess(args[1:], e)
	case "convert":
		return runConvert(args[1:], e)
	case "version", "-version", "--version":
		fmt.Fprintf(e.stdout, "rulelist v%s\n", Version)
		return 0
	case "help", "-h", "-help", "--help":
		printUsage(e.stdout)
		return 0
	default:
		fmt.Fprintf(e.stderr, "unknown command %q\n", args[0])
		printUsage(e.stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "rulelist usage:")
	fmt.Fprintln(w, "  rulelist preprocess [flags] <input.list>")
	fmt.Fprintln(w, "  rulelist convert [flags] <input.list> [output.yaml]")
	fmt.Fprintln(w, "  rulelist version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  rulelist preprocess input.list                   # show statistics")
	fmt.Fprintln(w, "  rulelist preprocess input.list -o output.list    # process and save to new file")
	fmt.Fprintln(w, "  rulelist preprocess input.list --dedup           # remove duplicates within groups")
	fmt.Fprintln(w, "  rulelist preprocess input.list --validate        # validate rules")
	fmt.Fprintln(w, "  rulelist preprocess input.list -d --inplace      # deduplicate in place (with backup)")
	fmt.Fprintln(w, "  rulelist convert input.list output.yaml          # convert to rule-provider yaml")
}

// parseArgs parses flags that may appear before or after positional
// arguments and returns the positionals in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}
