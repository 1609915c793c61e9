package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/mapdiff/mapfile"
	"github.com/slowlang/mapdiff/mapfile/config"
	"github.com/slowlang/mapdiff/mapfile/diff"
	"github.com/slowlang/mapdiff/mapfile/report"
)

func main() {
	parseFlags := []*cli.Flag{
		cli.NewFlag("config", "", "yaml config file"),
		cli.NewFlag("fill-marker", "", "name marker of padding entries (default *fill*)"),
		cli.NewFlag("stub-indent", 0, "minimal indent of linker generated entries (default 8)"),
		cli.NewFlag("demangle", false, "demangle symbol names"),
		cli.NewFlag("verbosity,v", "", "tlog verbosity topics (walk,grammar,symtab)"),
		cli.HelpFlag,
	}

	symbolsCmd := &cli.Command{
		Name:        "symbols",
		Description: "print symbol table of a map file",
		Action:      symbolsAct,
		Args:        cli.Args{},
		Flags:       parseFlags,
	}

	app := &cli.Command{
		Name:        "mapdiff",
		Description: "mapdiff compares symbol sizes of two linker map files: mapdiff <baseline.map> <candidate.map>",
		Action:      diffAct,
		Args:        cli.Args{},
		Flags: append([]*cli.Flag{
			cli.NewFlag("format", "", "report format: tsv, table, json"),
			cli.NewFlag("summary", false, "print total size and padding"),
			cli.NewFlag("min-delta", 0, "hide rows with smaller absolute delta"),
			cli.NewFlag("include", "", "comma separated symbol globs to report"),
			cli.NewFlag("exclude", "", "comma separated symbol globs to hide"),
		}, parseFlags...),
		Commands: []*cli.Command{
			symbolsCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func diffAct(c *cli.Command) (err error) {
	if len(c.Args) != 2 {
		return errors.New("expected baseline and candidate map files, got %d args", len(c.Args))
	}

	ctx := setup(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	cfg, err = reportFlags(c, cfg)
	if err != nil {
		return err
	}

	return run(ctx, os.Stdout, cfg, c.Args[0], c.Args[1])
}

func symbolsAct(c *cli.Command) (err error) {
	ctx := setup(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		err = symbols(ctx, os.Stdout, cfg, a)
		if err != nil {
			return errors.Wrap(err, "symbols %v", a)
		}
	}

	return nil
}

func run(ctx context.Context, w io.Writer, cfg config.Config, base, cand string) error {
	a, err := mapfile.ParseFile(ctx, base, cfg.Parse)
	if err != nil {
		return errors.Wrap(err, "parse baseline")
	}

	b, err := mapfile.ParseFile(ctx, cand, cfg.Parse)
	if err != nil {
		return errors.Wrap(err, "parse candidate")
	}

	f, err := diff.NewFilter(cfg.Diff.MinDelta, cfg.Diff.Include, cfg.Diff.Exclude)
	if err != nil {
		return errors.Wrap(err, "filter")
	}

	am, bm := a.Sizes(), b.Sizes()

	rows := diff.Compare(am, bm, f)

	tlog.SpanFromContext(ctx).Printw("compared", "baseline", len(am), "candidate", len(bm), "rows", len(rows))

	var sum *diff.Summary

	if cfg.Report.Summary {
		sum = &diff.Summary{
			Old: diff.MakeTotals(am, a.Padding),
			New: diff.MakeTotals(bm, b.Padding),
		}
	}

	err = report.Write(w, cfg.Report.Format, rows, sum)
	if err != nil {
		return errors.Wrap(err, "write report")
	}

	return nil
}

func symbols(ctx context.Context, w io.Writer, cfg config.Config, name string) error {
	t, err := mapfile.ParseFile(ctx, name, cfg.Parse)
	if err != nil {
		return err
	}

	b := append([]byte{}, "Address\tSize\tName\n"...)

	for _, s := range t.Resolve() {
		if !s.Sized {
			b = hfmt.Appendf(b, "%#x\t-\t%s\n", s.Address, s.Name)
			continue
		}

		b = hfmt.Appendf(b, "%#x\t%d\t%s\n", s.Address, s.Size, s.Name)
	}

	b = hfmt.Appendf(b, "\nPadding\t%d\n", t.Padding)

	_, err = w.Write(b)

	return err
}

func setup(c *cli.Command) context.Context {
	if v := c.String("verbosity"); v != "" {
		tlog.SetVerbosity(v)
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	return ctx
}

// loadConfig reads config file if given and applies flags on top of it.
func loadConfig(c *cli.Command) (cfg config.Config, err error) {
	cfg = config.Default()

	if name := c.String("config"); name != "" {
		cfg, err = config.Load(name)
		if err != nil {
			return cfg, errors.Wrap(err, "config %v", name)
		}
	}

	if v := c.String("fill-marker"); v != "" {
		cfg.Parse.FillMarker = v
	}

	if v := c.Int("stub-indent"); v != 0 {
		cfg.Parse.StubIndent = v
	}

	if c.Bool("demangle") {
		cfg.Parse.Demangle = true
	}

	return cfg, cfg.Validate()
}

// reportFlags applies diff and report flags to the config.
func reportFlags(c *cli.Command, cfg config.Config) (config.Config, error) {
	if v := c.String("format"); v != "" {
		cfg.Report.Format = v
	}

	if c.Bool("summary") {
		cfg.Report.Summary = true
	}

	if v := c.Int("min-delta"); v > 0 {
		cfg.Diff.MinDelta = uint64(v)
	}

	cfg.Diff.Include = append(cfg.Diff.Include, list(c.String("include"))...)
	cfg.Diff.Exclude = append(cfg.Diff.Exclude, list(c.String("exclude"))...)

	return cfg, cfg.Validate()
}

func list(s string) (r []string) {
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			r = append(r, p)
		}
	}

	return r
}
