//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/himanishpuri/freetar/pkg/freetar"
	"github.com/himanishpuri/freetar/pkg/freetar/chordpro"
	"github.com/himanishpuri/freetar/pkg/freetar/diagram"
	"github.com/himanishpuri/freetar/pkg/freetar/markup"
	"github.com/himanishpuri/freetar/pkg/freetar/notes"
	"github.com/himanishpuri/freetar/pkg/logger"
	"github.com/himanishpuri/freetar/pkg/models"
	"github.com/himanishpuri/freetar/pkg/utils"
)

var errUsage = errors.New("usage")

type cli struct {
	svc   freetar.Service
	out   io.Writer
	in    io.Reader
	log   *logger.Logger
	flats bool
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "import":
		return c.importTab(ctx, rest)
	case "list":
		return c.listTabs(ctx)
	case "show":
		return c.showTab(ctx, rest)
	case "export":
		return c.exportTab(ctx, rest)
	case "parse":
		return c.parseChordPro(rest)
	case "delete":
		return c.deleteTab(ctx, rest)
	case "fav":
		return c.favorites(ctx, rest)
	case "setlist":
		return c.setlists(ctx, rest)
	case "help":
		printUsage(c.out)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (c *cli) spelling() notes.Spelling {
	if c.flats {
		return notes.Flats
	}
	return notes.Sharps
}

// parseArgs parses fs over args, allowing flags before, between and after
// positional arguments, and returns the positionals.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, errUsage
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func renderFlags(fs *flag.FlagSet) *freetar.RenderOptions {
	opts := &freetar.RenderOptions{}
	fs.IntVar(&opts.Transpose, "transpose", 0, "Semitones to transpose by")
	fs.IntVar(&opts.Capo, "capo", 0, "Capo fret to play with")
	return opts
}

// readInput reads a file, or standard input for "-".
func (c *cli) readInput(path string) ([]byte, error) {
	if path == "-" {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		return io.ReadAll(in)
	}
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return os.ReadFile(path)
}

func (c *cli) importTab(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	data, err := c.readInput(args[0])
	if err != nil {
		return err
	}

	rec, created, err := c.svc.ImportTab(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to import tab: %w", err)
	}

	if created {
		fmt.Fprintln(c.out, "✅ Imported tab")
	} else {
		fmt.Fprintln(c.out, "ℹ️  Tab already imported")
	}
	printTabSummary(c.out, rec)
	c.log.Infof("Imported %s as %s", rec.Detail, rec.ID)
	return nil
}

func printTabSummary(w io.Writer, rec *models.TabRecord) {
	d := rec.Detail
	fmt.Fprintf(w, "   ID:      %s\n", rec.ID)
	fmt.Fprintf(w, "   Song:    %s\n", d)
	fmt.Fprintf(w, "   Type:    %s (ver %d)\n", d.Type, d.Version)
	fmt.Fprintf(w, "   Rating:  %.1f/5 (%s votes)\n", d.Rating, humanize.Comma(int64(d.Votes)))
	if d.Difficulty != "" {
		fmt.Fprintf(w, "   Level:   %s\n", d.Difficulty)
	}
	if capo := d.CapoValue(); capo > 0 {
		fmt.Fprintf(w, "   Capo:    %s fret\n", humanize.Ordinal(capo))
	}
	if d.Tuning != nil {
		fmt.Fprintf(w, "   Tuning:  %s\n", *d.Tuning)
	}
	if len(d.Chords) > 0 {
		fmt.Fprintf(w, "   Chords:  %s\n", strings.Join(diagram.Names(d.Chords), " "))
	}
}

func (c *cli) listTabs(ctx context.Context) error {
	tabs, err := c.svc.ListTabs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tabs: %w", err)
	}
	if len(tabs) == 0 {
		fmt.Fprintln(c.out, "📭 No tabs in library")
		return nil
	}

	fmt.Fprintf(c.out, "📚 %s tab(s):\n\n", humanize.Comma(int64(len(tabs))))
	for i, rec := range tabs {
		d := rec.Detail
		fmt.Fprintf(c.out, "%d. %s (%s, ver %d) %.1f/5\n", i+1, d, d.Type, d.Version, d.Rating)
		fmt.Fprintf(c.out, "   ID: %s | added %s\n", rec.ID, humanize.Time(rec.CreatedAt))
	}
	return nil
}

func (c *cli) showTab(ctx context.Context, args []string) error {
	fs := c.flagSet("show")
	opts := renderFlags(fs)
	diagrams := fs.Bool("diagrams", false, "Print chord diagrams")
	pos, err := parseArgs(fs, args)
	if err != nil || len(pos) != 1 {
		return errUsage
	}

	out, err := c.svc.RenderTab(ctx, pos[0], *opts)
	if err != nil {
		return err
	}
	nodes, err := markup.Parse(out.Detail.Tab)
	if err != nil {
		return fmt.Errorf("failed to read tab markup: %w", err)
	}

	fmt.Fprintf(c.out, "🎸 %s\n", out.Detail)
	if out.Offset != 0 {
		fmt.Fprintf(c.out, "   transposed %+d semitones\n", out.Offset)
	}
	fmt.Fprintln(c.out)
	for _, line := range chordpro.Lines(nodes, 0, c.spelling()) {
		fmt.Fprintln(c.out, line)
	}
	if *diagrams {
		for _, d := range out.Diagrams {
			fmt.Fprintln(c.out)
			fmt.Fprint(c.out, d)
		}
	}
	return nil
}

func (c *cli) exportTab(ctx context.Context, args []string) error {
	fs := c.flagSet("export")
	opts := renderFlags(fs)
	dir := fs.String("out", ".", "Directory to write the .cho file to")
	pos, err := parseArgs(fs, args)
	if err != nil || len(pos) != 1 {
		return errUsage
	}

	export, err := c.svc.ExportChordPro(ctx, pos[0], *opts)
	if err != nil {
		return err
	}
	path, err := utils.WriteFile(*dir, export.Filename, []byte(export.Content))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✅ Wrote %s (%s)\n", path, humanize.Bytes(uint64(len(export.Content))))
	return nil
}

func (c *cli) parseChordPro(args []string) error {
	fs := c.flagSet("parse")
	opts := renderFlags(fs)
	pos, err := parseArgs(fs, args)
	if err != nil || len(pos) != 1 {
		return errUsage
	}
	data, err := c.readInput(pos[0])
	if err != nil {
		return err
	}

	doc, err := c.svc.ImportChordPro(string(data), *opts)
	if err != nil {
		return err
	}
	for _, key := range []string{"title", "artist", "key", "capo"} {
		if v, ok := doc.Metadata[key]; ok {
			fmt.Fprintf(c.out, "%-7s %s\n", key+":", v)
		}
	}
	fmt.Fprintf(c.out, "chords: %s\n\n", strings.Join(doc.Chords, " "))
	fmt.Fprintln(c.out, doc.Content)
	return nil
}

func (c *cli) deleteTab(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	rec, err := c.svc.GetTab(ctx, args[0])
	if err != nil {
		return err
	}
	if err := c.svc.DeleteTab(ctx, rec.ID); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✅ Deleted %s (ID: %s)\n", rec.Detail, rec.ID)
	return nil
}
