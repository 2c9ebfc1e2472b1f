// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Program hjson reads an Hjson document and writes it back out as Hjson,
// JSON, or YAML.
//
// Usage:
//
//	hjson [flags] [input]
//
// The input is a file path, or "-" (the default) for standard input.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/creachadair/hjtree"
	"github.com/creachadair/hjtree/ast"
	"github.com/creachadair/hjtree/ast/cursor"
)

type logConfig struct {
	Level  string `default:"info" enum:"debug,info,warn,error" help:"Set log level."`
	Format string `default:"text" enum:"text,json"              help:"Set log format."`
}

func (c logConfig) logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// CLI is the command-line interface for hjson.
type CLI struct {
	Log logConfig `embed:"" group:"log" prefix:"log-"`

	Input string `arg:"" default:"-" help:"Input file, or '-' for stdin." optional:""`

	JSON    bool `help:"Write indented JSON."                 short:"j" xor:"output"`
	Compact bool `help:"Write compact JSON on a single line." short:"c" xor:"output"`
	YAML    bool `help:"Write YAML."                          short:"y" xor:"output"`

	Select string `help:"Write only the value at this path, as dotted keys (servers.0.name) or a JSONPath expression." placeholder:"PATH"`

	Strict         bool   `help:"Accept only JSON input, plus comments."`
	RequireBraces  bool   `help:"Require braces around a root object."`
	NoDuplicates   bool   `help:"Report duplicate object keys as errors."`
	Indent         string `default:"  "                                    help:"Indentation for Hjson output."`
	OmitRootBraces bool   `help:"Omit the braces around a root object in Hjson output."`
	QuoteAlways    bool   `help:"Quote every key and string in Hjson output."`
}

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Exit, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes the command with the given arguments and streams. Errors are
// logged to stderr before they are returned.
func run(ctx context.Context, exit func(int), args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	log := slog.New(slog.NewTextHandler(stderr, nil))
	defer func() {
		if err == nil {
			return
		}
		attrs := []any{slog.Any("error", err)}
		var serr *hjtree.SyntaxError
		if errors.As(err, &serr) {
			attrs = append(attrs,
				slog.Int("line", serr.Location.Line),
				slog.Int("column", serr.Location.Column),
			)
		}
		log.ErrorContext(ctx, "run failed", attrs...)
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("hjson"),
		kong.Description("Read an Hjson document and write it as Hjson, JSON, or YAML."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	log = cli.Log.logger(stderr)

	v, err := cli.parseInput(ctx, log, stdin)
	if err != nil {
		return err
	}
	if cli.Select != "" {
		path, err := cursor.ParsePath(cli.Select)
		if err != nil {
			return fmt.Errorf("select: %w", err)
		}
		c := cursor.New(v).Down(append(path, nil)...)
		if err := c.Err(); err != nil {
			return fmt.Errorf("select %q: %w", cli.Select, err)
		}
		v = c.Value()
		log.DebugContext(ctx, "selected value", slog.String("path", cli.Select))
	}
	return cli.write(stdout, v)
}

func (c *CLI) parseInput(ctx context.Context, log *slog.Logger, stdin io.Reader) (ast.Value, error) {
	in, name := stdin, "stdin"
	if c.Input != "-" {
		f, err := os.Open(c.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in, name = f, c.Input
	}

	p := ast.NewParser(in)
	p.StrictJSON(c.Strict)
	p.RequireRootBraces(c.RequireBraces)
	p.AllowDuplicateKeys(!c.NoDuplicates)
	v, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	log.DebugContext(ctx, "parsed input", slog.String("source", name), slog.String("type", strings.TrimPrefix(fmt.Sprintf("%T", v), "ast.")))
	return v, nil
}

func (c *CLI) write(w io.Writer, v ast.Value) error {
	switch {
	case c.JSON:
		return ast.FormatJSON(w, v)
	case c.Compact:
		_, err := fmt.Fprintln(w, v.JSON())
		return err
	case c.YAML:
		return ast.FormatYAML(w, v)
	default:
		f := ast.Formatter{
			Indent:         c.Indent,
			OmitRootBraces: c.OmitRootBraces,
			QuoteAlways:    c.QuoteAlways,
		}
		return f.Format(w, v)
	}
}
