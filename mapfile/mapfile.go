package mapfile

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/mapdiff/mapfile/config"
	"github.com/slowlang/mapdiff/mapfile/parse"
	"github.com/slowlang/mapdiff/mapfile/symtab"
)

func ParseFile(ctx context.Context, name string, cfg config.Parse) (*symtab.Table, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	t, err := Parse(ctx, name, text, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "parse map file")
	}

	return t, nil
}

// Parse reads memory map section symbols of the linker map text.
func Parse(ctx context.Context, name string, text []byte, cfg config.Parse) (t *symtab.Table, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse map file", "name", name, "size", len(text))
	defer tr.Finish("err", &err)

	s := parse.New(name, text)

	b := symtab.NewBuilder()

	if cfg.FillMarker != "" {
		b.FillMarker = cfg.FillMarker
	}

	if cfg.StubIndent != 0 {
		b.StubIndent = cfg.StubIndent
	}

	b.Demangle = cfg.Demangle

	w := &walker{
		s: s,
		b: b,
	}

	err = w.walk(ctx)
	if err != nil {
		return nil, err
	}

	t = b.Table()

	tr.Printw("symbol table", "symbols", len(t.Symbols), "padding", t.Padding)

	return t, nil
}
