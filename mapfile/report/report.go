package report

import (
	"io"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/nikandfor/hacked/hfmt"
	"github.com/olekukonko/tablewriter"
	"tlog.app/go/errors"

	"github.com/slowlang/mapdiff/mapfile/diff"
)

const Header = "Symbol\tOld Size\tNew Size\t Delta\n"

// Write writes rows in the format.
// Summary is written after the rows if not nil.
func Write(w io.Writer, format string, rows []diff.Row, sum *diff.Summary) (err error) {
	switch format {
	case "", "tsv":
		_, err = w.Write(AppendTSV(nil, rows, sum))
	case "table":
		err = writeTable(w, rows, sum)
	case "json":
		err = writeJSON(w, rows, sum)
	default:
		return errors.New("unsupported format: %q", format)
	}

	if err != nil {
		return errors.Wrap(err, "%v", format)
	}

	return nil
}

// AppendTSV appends tab separated report.
func AppendTSV(b []byte, rows []diff.Row, sum *diff.Summary) []byte {
	b = append(b, Header...)

	for _, r := range rows {
		b = hfmt.Appendf(b, "%s\t%d\t%d\t%+d\n", r.Name, r.Old, r.New, r.Delta)
	}

	if sum == nil {
		return b
	}

	b = append(b, '\n')
	b = hfmt.Appendf(b, "Total\t%d\t%d\t%+d\n", sum.Old.Size, sum.New.Size, sum.SizeDelta())
	b = hfmt.Appendf(b, "Padding\t%d\t%d\t%+d\n", sum.Old.Padding, sum.New.Padding, sum.PaddingDelta())

	return b
}

func writeTable(w io.Writer, rows []diff.Row, sum *diff.Summary) error {
	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetHeader([]string{"Symbol", "Old Size", "New Size", "Delta"})
	t.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

	for _, r := range rows {
		t.Append([]string{r.Name, size(r.Old), size(r.New), delta(r.Delta)})
	}

	if sum != nil {
		t.Append([]string{"(padding)", size(sum.Old.Padding), size(sum.New.Padding), delta(sum.PaddingDelta())})
		t.SetFooter([]string{"Total", size(sum.Old.Size), size(sum.New.Size), delta(sum.SizeDelta())})
	}

	t.Render()

	return nil
}

func writeJSON(w io.Writer, rows []diff.Row, sum *diff.Summary) error {
	if rows == nil {
		rows = []diff.Row{}
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(struct {
		Rows    []diff.Row    `json:"rows"`
		Summary *diff.Summary `json:"summary,omitempty"`
	}{
		Rows:    rows,
		Summary: sum,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal")
	}

	data = append(data, '\n')

	_, err = w.Write(data)

	return err
}

func size(s uint64) string {
	return humanize.IBytes(s)
}

func delta(d int64) string {
	switch {
	case d < 0:
		return "-" + humanize.IBytes(uint64(-d))
	case d > 0:
		return "+" + humanize.IBytes(uint64(d))
	default:
		return "0"
	}
}
