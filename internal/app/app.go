// Package app wires the flowscan CLI: flag parsing, logging, output
// encoding, and exit codes.
package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/phdavis1027/flowscan"
)

// Run executes the CLI and returns the process exit code.
func Run(argv []string, stdout, stderr io.Writer) int {
	fs, opts := NewFlagSet("flowscan")
	fs.SetOutput(io.Discard)

	if err := Parse(fs, opts, argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usageTo(fs, stdout)
			return 0
		}
		fmt.Fprintln(stderr, err)
		usageTo(fs, stderr)
		return 2
	}

	if opts.Version {
		fmt.Fprintln(stdout, version)
		return 0
	}

	log := newLogger(stderr, opts.Verbose)

	src, err := flowscan.Open(opts.Input)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer src.Close()

	if err := run(src, opts, stdout, log); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func run(src *flowscan.Source, opts *Options, stdout io.Writer, log *slog.Logger) error {
	markers := flowscan.Markers{
		Pipe:  opts.Pipe[0],
		Caret: opts.Caret[0],
		Empty: opts.Empty[0],
	}
	log.Debug("scanning", "input", opts.Input,
		"pipe", string(markers.Pipe), "caret", string(markers.Caret), "empty", string(markers.Empty))

	bw := bufio.NewWriter(stdout)

	var visit func(flowscan.PairResult) error
	if opts.JSONL {
		enc := json.NewEncoder(bw)
		visit = func(pr flowscan.PairResult) error {
			return enc.Encode(pr)
		}
	}

	total, err := flowscan.CountSource(src, visit, flowscan.WithMarkers(markers))
	if err != nil {
		return err
	}
	log.Debug("done", "total", total)

	if opts.JSONL {
		summary := struct {
			Total int `json:"total"`
		}{total}
		if err := json.NewEncoder(bw).Encode(summary); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(bw, total)
	}
	return bw.Flush()
}

func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
