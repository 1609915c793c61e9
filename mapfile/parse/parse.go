package parse

import (
	"context"
	"fmt"
	"sort"

	"github.com/slowlang/mapdiff/mapfile/ast"
)

type (
	// State is the source text of one map file.
	State struct {
		name string
		b    []byte

		lines []int // line start offsets, built lazily
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	Position struct {
		File string
		Line int
		Col  int
	}

	// Error is an error attributed to a span of the source text.
	Error struct {
		Span ast.Base
		Pos  Position
		Err  error
	}
)

func New(name string, text []byte) *State {
	return &State{
		name: name,
		b:    text,
	}
}

func (s *State) Bytes() []byte { return s.b }

func (s *State) Text(pos, end int) []byte {
	return s.b[pos:end]
}

// Position converts byte offset into file, line and column. Line and column are 1-based.
func (s *State) Position(pos int) Position {
	if s.lines == nil {
		s.indexLines()
	}

	li := sort.SearchInts(s.lines, pos+1) - 1
	if li < 0 {
		li = 0
	}

	return Position{
		File: s.name,
		Line: li + 1,
		Col:  pos - s.lines[li] + 1,
	}
}

// Error attributes err to the span.
func (s *State) Error(err error, span ast.Base) error {
	return Error{
		Span: span,
		Pos:  s.Position(span.Pos),
		Err:  err,
	}
}

func (s *State) indexLines() {
	s.lines = append(s.lines[:0], 0)

	for i, c := range s.b {
		if c == '\n' {
			s.lines = append(s.lines, i+1)
		}
	}
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}

	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

func (e Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Pos, e.Err)
}

func (e Error) Unwrap() error { return e.Err }
