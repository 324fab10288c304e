package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every flag the command accepts.
type cliFlags struct {
	config  string
	engine  string
	timeout time.Duration
	verbose bool
	version bool
	help    bool

	// set records which flags appeared on the command line, so config
	// values are only overridden by flags the user actually passed.
	set map[string]bool
}

// newFlagSet builds the flag set bound to f. Parse errors are returned to
// the caller instead of being printed by pflag.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("md2pdf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVarP(&f.config, "config", "c", "", "YAML config file name or path")
	fs.StringVar(&f.engine, "engine", "", "PDF engine: chrome, native (default chrome)")
	fs.DurationVar(&f.timeout, "timeout", 0, "render timeout, e.g. 30s, 2m (default 30s)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging to stderr")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "print help and exit")

	return fs
}

// parseFlags parses args (without the program name) and returns the flags
// and positional arguments. Errors wrap ErrUsage.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{set: make(map[string]bool)}
	fs := newFlagSet(f)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			f.help = true
			return f, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})

	if f.set["timeout"] && f.timeout <= 0 {
		return nil, nil, fmt.Errorf("%w: --timeout must be positive, got %s", ErrUsage, f.timeout)
	}

	return f, fs.Args(), nil
}

// positionalArgs splits the positional arguments into input and optional
// output path.
func positionalArgs(args []string) (input, output string, err error) {
	switch len(args) {
	case 1:
		return args[0], "", nil
	case 2:
		return args[0], args[1], nil
	case 0:
		return "", "", fmt.Errorf("%w: missing required argument <input>", ErrUsage)
	default:
		return "", "", fmt.Errorf("%w: unrecognized arguments: %v", ErrUsage, args[2:])
	}
}
