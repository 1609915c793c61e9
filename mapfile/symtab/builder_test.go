package symtab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/mapdiff/mapfile/ast"
)

func section(name string, addr, size uint64, src string, indent int) ast.Section {
	return ast.Section{
		Name:    []byte(name),
		Address: addr,
		Size:    size,
		Source:  source(src, indent),
	}
}

func symbol(addr uint64, src string, indent int) ast.Symbol {
	return ast.Symbol{
		Address: addr,
		Source:  source(src, indent),
	}
}

func source(text string, indent int) ast.Source {
	if text == "" {
		return ast.Source{}
	}

	return ast.Source{Text: []byte(text), Indent: indent}
}

func feed(t *testing.T, b *Builder, st State, xs ...ast.Node) State {
	t.Helper()

	ctx := context.Background()

	for _, x := range xs {
		var err error

		if d, ok := x.(ast.Directive); ok {
			st = b.Directive(ctx, st, d)
			continue
		}

		st, err = b.Entry(ctx, st, x)
		require.NoError(t, err, "%#v", x)
	}

	return st
}

func TestBuilderSections(t *testing.T) {
	b := NewBuilder()

	feed(t, b, State{},
		section(".text", 0x1000, 0x120, "", 0),
		section(".text", 0x1000, 0x40, "startup.o", 0),
		section(".text", 0x1040, 0x5c, "main.o", 0),
		section("*fill*", 0x109c, 0x4, "", 0),
		section(".text.f", 0x10a0, 0x60, "util.o", 0),
		section(".text", 0x1100, 0x20, "build/obj/gen.o", 0),
	)

	tb := b.Table()

	assert.Equal(t, uint64(4), tb.Padding)
	require.Len(t, tb.Symbols, 3)

	assert.Equal(t, Symbol{Address: 0x1000, Name: "startup.o", Size: 0x40, Sized: true}, tb.Symbols[0])
	assert.Equal(t, Symbol{Address: 0x1040, Name: "main.o", Size: 0x5c, Sized: true}, tb.Symbols[1])
	assert.Equal(t, Symbol{Address: 0x10a0, Name: "util.o", Size: 0x60, Sized: true}, tb.Symbols[2])
}

func TestBuilderSymbolsIgnored(t *testing.T) {
	b := NewBuilder()

	feed(t, b, State{},
		section(".text", 0x100, 0x10, "a.o", 0),
		symbol(0x100, "func_a", 15),                           // stub
		symbol(0x104, "obj/b.o", 0),                           // path
		symbol(0x108, `C:\obj\b.o`, 0),                        // path
		symbol(0x10c, "load address 0x08000100", 0),           // load address
		symbol(0x110, "_estack = (ORIGIN (RAM) + 0x5000)", 0), // assignment
		symbol(0x110, "PROVIDE (end = .)", 0),                 // assignment
		section(".text", 0x110, 0x10, "c.o", 0),
	)

	tb := b.Table()

	// the stub at the same address closes a.o
	assert.Equal(t, []Symbol{
		{Address: 0x100, Name: "a.o", Size: 0, Sized: true},
	}, tb.Symbols)
}

func TestBuilderStubClosesSection(t *testing.T) {
	b := NewBuilder()

	feed(t, b, State{},
		section(".text", 0x1000, 0x40, "foo", 0),
		symbol(0x1010, ". = ALIGN (0x10)", 16),
		section(".text", 0x1030, 0x10, "bar", 0),
		section(".text", 0x1040, 0x10, "baz", 0),
	)

	assert.Equal(t, SizeMap{"foo": 0x10, "bar": 0x10}, b.Table().Sizes())
}

func TestBuilderSymbolOutOfOrder(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()

	st := feed(t, b, State{},
		section(".text", 0x2000, 0x10, "foo", 0),
	)

	_, err := b.Entry(ctx, st, symbol(0x1000, "low", 0))
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestBuilderUnsized(t *testing.T) {
	b := NewBuilder()

	feed(t, b, State{},
		symbol(0x100, "_start", 0),
		symbol(0x120, "main", 0),
		symbol(0x180, "_end", 0),
	)

	tb := b.Table()

	require.Len(t, tb.Symbols, 3)
	assert.False(t, tb.Symbols[0].Sized)

	assert.Equal(t, SizeMap{"_start": 0x20, "main": 0x60}, tb.Sizes())
}

func TestBuilderStubIndent(t *testing.T) {
	b := NewBuilder()
	b.StubIndent = 20

	feed(t, b, State{},
		symbol(0x100, "func_a", 15),
		symbol(0x110, "func_b", 15),
		symbol(0x130, "stub", 20),
	)

	assert.Equal(t, SizeMap{"func_a": 0x10}, b.Table().Sizes())
}

func TestBuilderFill(t *testing.T) {
	b := NewBuilder()

	feed(t, b, State{},
		ast.Unplaced{Name: []byte("*fill*"), Size: 0x3},
		section("*fill*", 0x100, 0x0, "", 0),
		section("*fill*", 0x100, 0x8, "", 0),
		ast.Unplaced{Name: []byte("common"), Size: 0x40},
	)

	assert.Equal(t, uint64(11), b.Table().Padding)

	b = NewBuilder()
	b.FillMarker = "**pad**"

	feed(t, b, State{},
		section("*fill*", 0x100, 0x8, "", 0),
		section("**pad**", 0x108, 0x2, "", 0),
	)

	assert.Equal(t, uint64(2), b.Table().Padding)
}

func TestBuilderDiscard(t *testing.T) {
	b := NewBuilder()

	st := feed(t, b, State{},
		section(".data", 0x200, 0x10, "main.o", 0),
		ast.Directive{Kind: ast.Load, Arg: []byte("x.o")},
	)

	assert.False(t, st.Discarding)

	st = feed(t, b, st,
		ast.Directive{Kind: ast.Discard},
		section(".ARM.exidx", 0x0, 0x8, "main.o", 0),
		section("*fill*", 0x8, 0x10, "", 0),
		ast.Directive{Kind: ast.Output},
		section(".text", 0x300, 0x10, "late.o", 0),
	)

	assert.True(t, st.Discarding)

	tb := b.Table()

	assert.Empty(t, tb.Symbols, "pending symbol is dropped")
	assert.Zero(t, tb.Padding)
}

func TestBuilderOutOfOrder(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()

	st := feed(t, b, State{},
		section(".text", 0x2000, 0x10, "b.o", 0),
	)

	_, err := b.Entry(ctx, st, section(".text", 0x1000, 0x10, "a.o", 0))
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.EqualError(t, err, `address 0x1000 is below pending "b.o" at 0x2000: `+ErrOutOfOrder.Error())
}

func TestBuilderMissingSize(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()

	_, err := b.Entry(ctx, State{}, ast.Symbol{
		Name:    []byte(".text"),
		Address: 0x1000,
		Source:  source("main.o", 0),
	})
	assert.ErrorIs(t, err, ErrMissingSize)
	assert.EqualError(t, err, `section ".text": `+ErrMissingSize.Error())
}

func TestBuilderDemangle(t *testing.T) {
	b := NewBuilder()
	b.Demangle = true

	feed(t, b, State{},
		symbol(0x100, "_ZN3foo3barEv", 0),
		symbol(0x110, "plain_c", 0),
		symbol(0x120, "end", 0),
	)

	assert.Equal(t, SizeMap{"foo::bar()": 0x10, "plain_c": 0x10}, b.Table().Sizes())
}

func TestBuilderTableCopy(t *testing.T) {
	b := NewBuilder()

	feed(t, b, State{},
		symbol(0x100, "a", 0),
	)

	tb := b.Table()
	tb.Padding = 100

	assert.Zero(t, b.Table().Padding)
}
