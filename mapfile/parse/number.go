package parse

import (
	"context"
	"strconv"

	"tlog.app/go/errors"

	"github.com/slowlang/mapdiff/mapfile/ast"
)

type (
	// Hex parses 0x-prefixed hexadecimal numbers as printed by linkers.
	Hex struct{}
)

func (p Hex) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	if i+1 >= len(b) || b[i] != '0' || b[i+1] != 'x' && b[i+1] != 'X' {
		return nil, st, errors.New("hex number expected")
	}

	i += 2 // skip base prefix
	dst := i

	for i < len(b) && isHexDigit(b[i]) {
		i++
	}

	if i == dst {
		return nil, i, errors.New("hex digits expected")
	}

	if i < len(b) && !SpaceAll.Is(b[i]) {
		return nil, i, errors.New("unexpected %q in hex number", b[i])
	}

	v, err := strconv.ParseUint(string(b[dst:i]), 16, 64)
	if err != nil {
		return nil, i, errors.Wrap(err, "hex number")
	}

	x = ast.Hex{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		Value: v,
	}

	return x, i, nil
}

func (p Hex) String() string { return "hex number" }

// IsHex reports whether a hex number starts at st.
func IsHex(b []byte, st int) bool {
	return st+2 < len(b) && b[st] == '0' && (b[st+1] == 'x' || b[st+1] == 'X') && isHexDigit(b[st+2])
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
