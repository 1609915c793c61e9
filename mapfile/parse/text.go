package parse

import (
	"bytes"
	"context"
	"fmt"

	"tlog.app/go/errors"

	"github.com/slowlang/mapdiff/mapfile/ast"
)

type (
	Const []byte

	// Token is a run of non-space bytes.
	Token struct{}

	// Rest is the rest of the line with trailing spaces trimmed. Newline is not consumed.
	Rest struct{}

	// EOL consumes trailing spaces and a newline or end of text.
	EOL struct{}
)

func (p Const) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return Const(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, errors.New("%q expected", []byte(p))
}

func (p Const) String() string { return fmt.Sprintf("%q", []byte(p)) }

func (p Token) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	for i < len(b) && !SpaceAll.Is(b[i]) {
		i++
	}

	if i == st {
		return nil, st, errors.New("token expected")
	}

	return ast.Token{Base: ast.Base{Pos: st, End: i}}, i, nil
}

func (p Token) String() string { return "token" }

func (p Rest) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = LineEnd(b, st)
	end := i

	for end > st && SpaceCR.Is(b[end-1]) {
		end--
	}

	return ast.Text{Base: ast.Base{Pos: st, End: end}, Text: b[st:end]}, i, nil
}

func (p EOL) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = SpaceCR.Skip(b, st)

	switch {
	case i == len(b):
	case b[i] == '\n':
		i++
	default:
		return nil, st, errors.New("end of line expected")
	}

	return ast.LineBreak{Base: ast.Base{Pos: st, End: i}}, i, nil
}

func (p EOL) String() string { return "end of line" }

// LineEnd returns the position of the newline ending the line at st, or len(b).
func LineEnd(b []byte, st int) int {
	if j := bytes.IndexByte(b[st:], '\n'); j >= 0 {
		return st + j
	}

	return len(b)
}

// NextLine returns the start of the line following st.
func NextLine(b []byte, st int) int {
	i := LineEnd(b, st)
	if i < len(b) {
		i++
	}

	return i
}

// Line returns the line at st without the trailing newline and spaces.
func Line(b []byte, st int) []byte {
	return bytes.TrimRight(b[st:LineEnd(b, st)], " \t\r")
}
