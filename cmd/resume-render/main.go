package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/cli"
	"go.uber.org/zap"
)

// main is the entrypoint for resume-render.
func main() {
	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger, err := cli.NewLogger(opts.LogLevel, os.Stderr)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("rendering",
		zap.String("data", opts.DataPath),
		zap.String("format", string(opts.Format)),
		zap.String("template", opts.Template),
	)
	return cli.Run(ctx, outW, opts, logger)
}
