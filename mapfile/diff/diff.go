package diff

import (
	"math"
	"sort"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
	"tlog.app/go/errors"

	"github.com/slowlang/mapdiff/mapfile/symtab"
)

type (
	Row struct {
		Name  string `json:"name"`
		Old   uint64 `json:"old"`
		New   uint64 `json:"new"`
		Delta int64  `json:"delta"`
	}

	// Filter drops rows from the report.
	// Zero Filter keeps everything.
	Filter struct {
		MinDelta uint64

		Include []glob.Glob
		Exclude []glob.Glob
	}

	Totals struct {
		Size    uint64 `json:"size"`
		Padding uint64 `json:"padding"`
	}

	Summary struct {
		Old Totals `json:"old"`
		New Totals `json:"new"`
	}
)

// Compare returns a row for each symbol added, removed or resized between the maps.
// Rows are ordered by Delta, largest shrink first. Equal deltas are ordered by name.
func Compare(base, cand symtab.SizeMap, f Filter) []Row {
	names := lo.Uniq(append(lo.Keys(base), lo.Keys(cand)...))

	rows := make([]Row, 0, len(names))

	for _, name := range names {
		o, inBase := base[name]
		n, inCand := cand[name]

		if inBase && inCand && o == n {
			continue
		}

		r := Row{
			Name:  name,
			Old:   o,
			New:   n,
			Delta: Delta(o, n),
		}

		if !f.Keep(r) {
			continue
		}

		rows = append(rows, r)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Delta != rows[j].Delta {
			return rows[i].Delta < rows[j].Delta
		}

		return rows[i].Name < rows[j].Name
	})

	return rows
}

func NewFilter(minDelta uint64, include, exclude []string) (f Filter, err error) {
	f.MinDelta = minDelta

	f.Include, err = compile(include)
	if err != nil {
		return f, errors.Wrap(err, "include")
	}

	f.Exclude, err = compile(exclude)
	if err != nil {
		return f, errors.Wrap(err, "exclude")
	}

	return f, nil
}

func (f Filter) Keep(r Row) bool {
	d := r.Delta
	if d < 0 {
		d = -d
	}

	if uint64(d) < f.MinDelta {
		return false
	}

	if len(f.Include) != 0 && !match(f.Include, r.Name) {
		return false
	}

	return !match(f.Exclude, r.Name)
}

func MakeTotals(m symtab.SizeMap, padding uint64) Totals {
	return Totals{
		Size:    lo.Sum(lo.Values(m)),
		Padding: padding,
	}
}

func (s Summary) SizeDelta() int64    { return Delta(s.Old.Size, s.New.Size) }
func (s Summary) PaddingDelta() int64 { return Delta(s.Old.Padding, s.New.Padding) }

// Delta returns n - o saturated to the int64 range.
func Delta(o, n uint64) int64 {
	if n >= o {
		if d := n - o; d <= math.MaxInt64 {
			return int64(d)
		}

		return math.MaxInt64
	}

	if d := o - n; d <= 1<<63 {
		return -int64(d-1) - 1
	}

	return math.MinInt64
}

func compile(patterns []string) (r []glob.Glob, err error) {
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, "pattern %q", p)
		}

		r = append(r, g)
	}

	return r, nil
}

func match(gs []glob.Glob, name string) bool {
	for _, g := range gs {
		if g.Match(name) {
			return true
		}
	}

	return false
}
