package mapfile

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/mapdiff/mapfile/ast"
	"github.com/slowlang/mapdiff/mapfile/grammar"
	"github.com/slowlang/mapdiff/mapfile/parse"
	"github.com/slowlang/mapdiff/mapfile/set"
	"github.com/slowlang/mapdiff/mapfile/symtab"
)

type (
	walker struct {
		s *parse.State
		b *symtab.Builder

		seen set.Bitmap[ast.SectionKind]
		last ast.SectionKind
	}
)

var (
	ErrUnknownSection   = errors.New("unknown top-level section")
	ErrDuplicateSection = errors.New("duplicate section")
)

func (w *walker) walk(ctx context.Context) (err error) {
	b := w.s.Bytes()

	for i := 0; i < len(b); {
		if _, j, err := (grammar.Blank{}).Parse(ctx, b, i); err == nil {
			i = j
			continue
		}

		x, j, err := grammar.Header{}.Parse(ctx, b, i)
		if err != nil {
			span := ast.Base{Pos: i, End: i + len(parse.Line(b, i))}

			return w.s.Error(errors.Wrap(ErrUnknownSection, "%q", w.s.Text(span.Pos, span.End)), span)
		}

		h := x.(ast.Header)

		if w.seen.IsSet(h.Kind) {
			return w.s.Error(errors.Wrap(ErrDuplicateSection, "%v", h.Kind), h.Base)
		}

		w.seen.Set(h.Kind)
		w.last = h.Kind

		tlog.SpanFromContext(ctx).V("walk").Printw("section", "kind", h.Kind, "pos", w.s.Position(h.Pos), "seen", w.seen)

		if h.Kind == ast.MemoryMap {
			i, err = w.memoryMap(ctx, j)
			if err != nil {
				return errors.Wrap(err, "%v", h.Kind)
			}

			continue
		}

		i = w.skipSection(ctx, j)
	}

	return nil
}

// skipSection returns the start of the next section header or the end of text.
func (w *walker) skipSection(ctx context.Context, st int) (i int) {
	b := w.s.Bytes()

	for i = st; i < len(b); i = parse.NextLine(b, i) {
		if _, _, err := (grammar.Header{}).Parse(ctx, b, i); err == nil {
			break
		}
	}

	tlog.SpanFromContext(ctx).V("walk").Printw("skipped", "kind", w.last, "bytes", i-st)

	return i
}

func (w *walker) memoryMap(ctx context.Context, st int) (i int, err error) {
	b := w.s.Bytes()

	var state symtab.State

	for i = st; i < len(b); {
		if _, _, err := (grammar.Header{}).Parse(ctx, b, i); err == nil {
			break
		}

		x, j, err := grammar.MapLine{}.Parse(ctx, b, i)
		if err != nil {
			return i, w.s.Error(err, ast.Base{Pos: j, End: j + len(parse.Line(b, j))})
		}

		switch x := x.(type) {
		case ast.Directive:
			tlog.SpanFromContext(ctx).V("walk").Printw("directive", "kind", x.Kind, "arg", x.Arg)

			state = w.b.Directive(ctx, state, x)
		default:
			state, err = w.b.Entry(ctx, state, x)
			if err != nil {
				return i, w.s.Error(err, ast.Base{Pos: i, End: j})
			}
		}

		i = j
	}

	return i, nil
}
