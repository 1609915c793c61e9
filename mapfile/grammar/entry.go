package grammar

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/mapdiff/mapfile/ast"
	"github.com/slowlang/mapdiff/mapfile/parse"
)

type (
	// Entry parses a memory map entry: [name] [address [size]] [source].
	//
	// Name is the first token unless it's a hex number.
	// A name alone on its line is continued by the next indented line.
	// The result is one of ast.Unplaced, ast.Symbol, or ast.Section.
	Entry struct{}
)

var number = parse.Optional{Parser: parse.Spaced(parse.Hex{}, parse.SpaceTab)}

func (p Entry) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	var name []byte

	i = st
	vst := parse.SpaceTab.Skip(b, st)

	switch {
	case vst == len(b) || parse.SpaceAll.Is(b[vst]):
		return nil, st, errors.New("map entry expected")
	case !parse.IsHex(b, vst):
		tk, _, _ := parse.Token{}.Parse(ctx, b, vst)
		t := tk.(ast.Token)

		name = b[t.Pos:t.End]
		i = t.End

		i, err = p.continuation(ctx, b, i, name)
		if err != nil {
			return nil, i, err
		}
	}

	var nums [2]ast.Hex
	n := 0
	end := i

	for n < len(nums) {
		h, j, err := number.Parse(ctx, b, i)
		if err != nil {
			return nil, j, errors.Wrap(err, "map entry")
		}

		hx, ok := h.(ast.Hex)
		if !ok {
			break
		}

		nums[n] = hx
		n++
		i, end = j, j
	}

	var src ast.Source

	if _, j, err := (parse.EOL{}).Parse(ctx, b, i); err == nil {
		i = j
	} else {
		vst := parse.SpaceTab.Skip(b, i)

		r, j, _ := parse.Rest{}.Parse(ctx, b, vst)
		txt := r.(ast.Text)

		src = ast.Source{
			Base:   txt.Base,
			Text:   txt.Text,
			Indent: vst - i - 1,
		}

		if src.Indent < 0 {
			src.Indent = 0
		}

		end = txt.End
		_, i, _ = parse.EOL{}.Parse(ctx, b, j)
	}

	base := ast.Base{Pos: st, End: end}

	switch {
	case n == 0:
		return nil, src.Pos, errors.New("address expected after %q", name)
	case n == 1 && name != nil && src.Empty():
		x = ast.Unplaced{
			Base: base,
			Name: name,
			Size: nums[0].Value,
		}
	case n == 1:
		x = ast.Symbol{
			Base:    base,
			Name:    name,
			Address: nums[0].Value,
			Source:  src,
		}
	default:
		x = ast.Section{
			Base:    base,
			Name:    name,
			Address: nums[0].Value,
			Size:    nums[1].Value,
			Source:  src,
		}
	}

	return x, i, nil
}

func (Entry) String() string { return "map entry" }

// continuation skips to the next line if name is alone on its line.
// The next line must be indented and start with an address.
func (p Entry) continuation(ctx context.Context, b []byte, st int, name []byte) (i int, err error) {
	_, i, err = parse.EOL{}.Parse(ctx, b, st)
	if err != nil {
		return st, nil
	}

	vst := parse.SpaceTab.Skip(b, i)

	if vst == i || !parse.IsHex(b, vst) {
		return st, errors.New("address expected on the line after %q", name)
	}

	return i, nil
}
