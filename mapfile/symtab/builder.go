package symtab

import (
	"bytes"
	"context"

	"github.com/ianlancetaylor/demangle"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/mapdiff/mapfile/ast"
)

type (
	// Builder turns memory map entries into a Table.
	Builder struct {
		// FillMarker marks entries holding alignment padding.
		FillMarker string

		// StubIndent is the minimal source indent of linker generated entries.
		StubIndent int

		Demangle bool

		t Table
	}

	// State is the streaming state of one memory map section.
	// It's passed to and returned from each Builder step.
	State struct {
		Discarding bool

		pending    Symbol
		hasPending bool
	}
)

const (
	DefaultFillMarker = "*fill*"
	DefaultStubIndent = 8
)

var (
	ErrOutOfOrder  = errors.New("out of order symbol")
	ErrMissingSize = errors.New("named section must have a size")
)

func NewBuilder() *Builder {
	return &Builder{
		FillMarker: DefaultFillMarker,
		StubIndent: DefaultStubIndent,
	}
}

// Directive applies linker directive to the state.
// Discard directive switches the rest of the section to discarding mode.
func (b *Builder) Directive(ctx context.Context, st State, d ast.Directive) State {
	if d.Kind == ast.Discard && !st.Discarding {
		tlog.SpanFromContext(ctx).V("symtab").Printw("discarding", "pending", st.pending.Name, "has_pending", st.hasPending)

		st.Discarding = true
	}

	return st
}

// Entry processes one memory map entry.
func (b *Builder) Entry(ctx context.Context, st State, x ast.Node) (_ State, err error) {
	if st.Discarding {
		return st, nil
	}

	switch x := x.(type) {
	case ast.Blank, ast.Glob, ast.Bracketed:
	case ast.Unplaced:
		b.fill(ctx, x.Name, x.Size)
	case ast.Section:
		b.fill(ctx, x.Name, x.Size)

		st, err = b.boundary(ctx, st, x.Address)
		if err != nil {
			return st, err
		}

		name, ok := b.symbolName(x.Source)
		if !ok {
			break
		}

		st.pending = Symbol{
			Address: x.Address,
			Name:    name,
			Span:    x.Base,
		}
		st.hasPending = true
	case ast.Symbol:
		if len(x.Name) != 0 {
			return st, errors.Wrap(ErrMissingSize, "section %q", x.Name)
		}

		st, err = b.boundary(ctx, st, x.Address)
		if err != nil {
			return st, err
		}

		name, ok := b.symbolName(x.Source)
		if !ok {
			break
		}

		b.t.Symbols = append(b.t.Symbols, Symbol{
			Address: x.Address,
			Name:    name,
			Span:    x.Base,
		})
	default:
		return st, errors.New("unexpected map entry: %T", x)
	}

	return st, nil
}

// Table returns symbols finalized so far.
// Pending symbol is not included.
func (b *Builder) Table() *Table {
	t := b.t
	return &t
}

// boundary finalizes pending symbol at addr.
func (b *Builder) boundary(ctx context.Context, st State, addr uint64) (State, error) {
	if !st.hasPending {
		return st, nil
	}

	p := st.pending

	if addr < p.Address {
		return st, errors.Wrap(ErrOutOfOrder, "address 0x%x is below pending %q at 0x%x", addr, p.Name, p.Address)
	}

	p.Size = addr - p.Address
	p.Sized = true

	tlog.SpanFromContext(ctx).V("symtab").Printw("symbol", "name", p.Name, "addr", tlog.FormatNext("%#x"), p.Address, "size", p.Size)

	b.t.Symbols = append(b.t.Symbols, p)

	st.pending = Symbol{}
	st.hasPending = false

	return st, nil
}

func (b *Builder) fill(ctx context.Context, name []byte, size uint64) {
	if b.FillMarker == "" || !bytes.Contains(name, []byte(b.FillMarker)) {
		return
	}

	tlog.SpanFromContext(ctx).V("symtab").Printw("fill", "size", size, "total", b.t.Padding+size)

	b.t.Padding += size
}

func (b *Builder) symbolName(src ast.Source) (string, bool) {
	switch {
	case src.Empty():
		return "", false
	case src.Indent >= b.StubIndent: // linker stub
		return "", false
	case bytes.ContainsAny(src.Text, `/\`): // object file
		return "", false
	case bytes.HasPrefix(src.Text, []byte("load address")):
		return "", false
	case bytes.Contains(src.Text, []byte(" = ")) || bytes.HasPrefix(src.Text, []byte("PROVIDE")): // assignment
		return "", false
	}

	name := string(src.Text)

	if b.Demangle {
		name = demangle.Filter(name)
	}

	return name, true
}
