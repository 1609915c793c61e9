package grammar

import (
	"bytes"
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/mapdiff/mapfile/ast"
	"github.com/slowlang/mapdiff/mapfile/parse"
)

type (
	// Header is a top-level section title line.
	Header struct{}

	Blank struct{}

	// Directive is a linker script command line in the memory map section.
	Directive struct{}

	Glob struct{}

	Bracketed struct{}

	// MapLine is any line of the memory map section.
	MapLine struct{}
)

var headers = []struct {
	title string
	kind  ast.SectionKind
}{
	{"Archive member included to satisfy reference by file (symbol)", ast.ArchiveMembers},
	{"Archive member included because of file (symbol)", ast.ArchiveMembers},
	{"Allocating common symbols", ast.CommonSymbols},
	{"Discarded input sections", ast.DiscardedInput},
	{"Memory Configuration", ast.MemoryConfiguration},
	{"Linker script and memory map", ast.MemoryMap},
	{"Cross Reference Table", ast.CrossReference},
}

var directives = []struct {
	prefix string
	kind   ast.DirectiveKind
}{
	{"/DISCARD/", ast.Discard},
	{"LOAD ", ast.Load},
	{"START GROUP", ast.StartGroup},
	{"END GROUP", ast.EndGroup},
	{"OUTPUT_FORMAT(", ast.OutputFormat},
	{"OUTPUT_ARCH(", ast.OutputArch},
	{"OUTPUT(", ast.Output},
	{"INPUT(", ast.Input},
	{"GROUP(", ast.Group},
	{"TARGET(", ast.Target},
	{"SEARCH_DIR(", ast.SearchDir},
	{"ENTRY(", ast.Entry},
	{"INCLUDE ", ast.Include},
}

var globKeywords = [][]byte{
	[]byte("KEEP"),
	[]byte("SORT"),
	[]byte("SORT_BY_NAME"),
	[]byte("SORT_BY_ALIGNMENT"),
	[]byte("SORT_BY_INIT_PRIORITY"),
	[]byte("SORT_NONE"),
	[]byte("REVERSE"),
	[]byte("EXCLUDE_FILE"),
}

var mapLine = parse.AnyOf{
	Blank{},
	Directive{},
	Glob{},
	Bracketed{},
	Entry{},
}

func (Header) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	line := parse.Line(b, st)

	for _, h := range headers {
		if string(line) != h.title {
			continue
		}

		x = ast.Header{
			Base: ast.Base{Pos: st, End: st + len(line)},
			Kind: h.kind,
		}

		return x, parse.NextLine(b, st), nil
	}

	return nil, st, errors.New("section header expected")
}

func (Header) String() string { return "section header" }

func (Blank) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	_, i, err = parse.EOL{}.Parse(ctx, b, st)
	if err != nil {
		return nil, st, errors.New("blank line expected")
	}

	return ast.Blank{Base: ast.Base{Pos: st, End: i}}, i, nil
}

func (Blank) String() string { return "blank line" }

func (Directive) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	for _, d := range directives {
		r, i, err := parse.AllOf{parse.Const(d.prefix), parse.Rest{}, parse.EOL{}}.Parse(ctx, b, st)
		if err != nil {
			continue
		}

		a := r.([]ast.Node)[1].(ast.Text)

		x = ast.Directive{
			Base: ast.Base{Pos: st, End: a.End},
			Kind: d.kind,
			Arg:  bytes.TrimSpace(a.Text),
		}

		return x, i, nil
	}

	return nil, st, errors.New("linker directive expected")
}

func (Directive) String() string { return "linker directive" }

func (Glob) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	vst := parse.SpaceTab.Skip(b, st)

	if !isGlob(parse.Line(b, vst)) {
		return nil, st, errors.New("input section glob expected")
	}

	t, i, _ := parse.Rest{}.Parse(ctx, b, vst)
	txt := t.(ast.Text)

	_, i, _ = parse.EOL{}.Parse(ctx, b, i)

	x = ast.Glob{
		Base:    ast.Base{Pos: st, End: txt.End},
		Pattern: txt.Text,
	}

	return x, i, nil
}

func (Glob) String() string { return "input section glob" }

func (Bracketed) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	vst := parse.SpaceTab.Skip(b, st)

	if vst == len(b) || b[vst] != '[' {
		return nil, st, errors.New("bracketed entry expected")
	}

	t, i, _ := parse.Rest{}.Parse(ctx, b, vst)
	txt := t.(ast.Text)

	_, i, _ = parse.EOL{}.Parse(ctx, b, i)

	x = ast.Bracketed{
		Base: ast.Base{Pos: st, End: txt.End},
		Text: txt.Text,
	}

	return x, i, nil
}

func (Bracketed) String() string { return "bracketed entry" }

func (MapLine) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if tr := tlog.SpanFromContext(ctx); tr.If("grammar") {
		defer func(st int) {
			tr.Printw("map line", "st", st, "i", i, "typ", tlog.NextAsType, x, "err", err, "from", loc.Callers(1, 3))
		}(st)
	}

	return mapLine.Parse(ctx, b, st)
}

func (MapLine) String() string { return "memory map line" }

func isGlob(line []byte) bool {
	if len(line) == 0 {
		return false
	}

	if line[0] == '*' {
		tok := line
		if j := bytes.IndexAny(line, " \t"); j >= 0 {
			tok = line[:j]
		}

		return bytes.IndexByte(tok, '(') >= 0
	}

	for _, kw := range globKeywords {
		if !bytes.HasPrefix(line, kw) {
			continue
		}

		rest := bytes.TrimLeft(line[len(kw):], " \t")

		if len(rest) != 0 && rest[0] == '(' {
			return true
		}
	}

	return false
}
