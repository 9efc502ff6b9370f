package app

import (
	"flag"
	"fmt"
	"io"
)

const version = "0.3.0"

// Options holds all CLI flags and arguments.
type Options struct {
	Input string // path or "-" for stdin

	Pipe  string
	Caret string
	Empty string

	JSONL   bool
	Verbose bool
	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage.
func NewFlagSet(name string) (*flag.FlagSet, *Options) {
	opts := &Options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: count pipe-over-caret contacts in a marker grid

Lines are scanned in adjacent pairs; empty cells under a pipe and the
non-caret neighbors of every contact are flood-filled with the pipe
marker before the next pair is scanned.

Usage:
  %s [flags] [input]

Input is a file path, or "-" (the default) for stdin. Gzip input is
detected automatically.

Flags:
`, name, name)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.Pipe, "pipe", "|", "pipe marker `byte`")
	fs.StringVar(&opts.Caret, "caret", "^", "caret marker `byte`")
	fs.StringVar(&opts.Empty, "empty", ".", "empty marker `byte`")
	fs.BoolVar(&opts.JSONL, "jsonl", false, "emit one JSON record per scanned pair")
	fs.BoolVar(&opts.Verbose, "v", false, "verbose logging on stderr")
	fs.BoolVar(&opts.Version, "version", false, "print version and exit")

	return fs, opts
}

// Parse fills Options from argv. The single optional positional argument
// is the input path.
func Parse(fs *flag.FlagSet, opts *Options, argv []string) error {
	if err := fs.Parse(argv); err != nil {
		return err
	}
	switch args := fs.Args(); len(args) {
	case 0:
		opts.Input = "-"
	case 1:
		opts.Input = args[0]
	default:
		return fmt.Errorf("expected at most one input, got %d", len(args))
	}
	for _, m := range []struct{ name, val string }{
		{"pipe", opts.Pipe}, {"caret", opts.Caret}, {"empty", opts.Empty},
	} {
		if len(m.val) != 1 {
			return fmt.Errorf("-%s must be a single byte, got %q", m.name, m.val)
		}
	}
	return nil
}

func usageTo(fs *flag.FlagSet, w io.Writer) {
	fs.SetOutput(w)
	fs.Usage()
}
