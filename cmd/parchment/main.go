// Command parchment loads a document, runs edit scripts against its
// surface, reconciles the edits into the node tree and prints the tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"parchment/pkg/config"
	"parchment/pkg/inspect"
	"parchment/pkg/logging"
	"parchment/pkg/session"
)

// scriptList collects repeated -script flags.
type scriptList []string

func (s *scriptList) String() string     { return strings.Join(*s, ",") }
func (s *scriptList) Set(v string) error { *s = append(*s, v); return nil }

type options struct {
	input   string
	schema  string
	scripts scriptList
	watch   bool
	json    bool
	html    bool
	color   bool
	offsets bool
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("parchment", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.schema, "config", "", "schema file (.yaml, .yml or .toml); built-in formats when empty")
	fs.Var(&opts.scripts, "script", "edit script to run after loading (repeatable)")
	fs.BoolVar(&opts.watch, "watch", false, "re-run from scratch whenever a script file changes")
	fs.BoolVar(&opts.json, "json", false, "print the tree as JSON")
	fs.BoolVar(&opts.html, "html", false, "print the reconciled markup")
	fs.BoolVar(&opts.color, "color", false, "colorize the tree outline")
	fs.BoolVar(&opts.offsets, "offsets", false, "show index ranges in the tree outline")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: parchment [flags] <input.html>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}
	opts.input = fs.Arg(0)

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level, Development: true, Output: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if err := render(opts, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if !opts.watch {
			return 1
		}
	}
	if opts.watch {
		if err := watch(ctx, opts, stdout, stderr, logger); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

// render builds a fresh session, runs the embedded and named scripts in
// order and prints the result.
func render(opts options, out io.Writer, logger *zap.Logger) error {
	schema := config.Default()
	if opts.schema != "" {
		var err error
		if schema, err = config.Load(opts.schema); err != nil {
			return err
		}
	}
	markup, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.input, err)
	}
	s, err := session.New(string(markup), session.Options{Schema: schema, Logger: logger})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.RunEmbedded(); err != nil {
		return err
	}
	for _, path := range opts.scripts {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := s.Run(string(src)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	switch {
	case opts.json:
		raw, err := inspect.JSON(s.Scroll)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(raw))
		return err
	case opts.html:
		_, err := fmt.Fprintln(out, s.HTML())
		return err
	}
	return inspect.Dump(out, s.Scroll, inspect.Options{Color: opts.color, Offsets: opts.offsets})
}
