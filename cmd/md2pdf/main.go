package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the command and returns the process exit code.
// args includes the program name, like os.Args.
func runMain(args []string, env *Environment) int {
	flags, positional, err := parseFlags(args[1:])
	if err != nil {
		return fail(env.Stderr, err)
	}

	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "md2pdf %s\n", Version)
		return ExitSuccess
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return fail(env.Stderr, err)
	}

	logger := newLogger(env.Stderr, cfg.Log.Level)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	undo, _ := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer undo()

	// The engine comes from flags and config, so the capability check runs
	// once they are known and before any argument or file is examined.
	opts, err := checkCapabilities(cfg, env)
	if err != nil {
		return fail(env.Stderr, err)
	}
	logger.Debug("engine ready", "engine", cfg.Engine, "timeout", cfg.TimeoutDuration())

	input, output, err := positionalArgs(positional)
	if err != nil {
		return fail(env.Stderr, err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	outPath, err := runConvert(ctx, opts, input, output, logger, env)
	if err != nil {
		return fail(env.Stderr, err)
	}

	printSuccess(env.Stdout, outPath)
	return ExitSuccess
}

// fail reports err on w and returns its exit code. Usage errors are
// preceded by the usage line.
func fail(w io.Writer, err error) int {
	if errors.Is(err, ErrUsage) {
		fmt.Fprintln(w, usageLine)
	}
	printError(w, err)
	return exitCodeFor(err)
}

// newLogger returns a text logger on w at the named level. Config
// validation guarantees the name; anything else falls back to warn.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
