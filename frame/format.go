package frame

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

// String renders the table as an aligned text grid: a header line with the
// column labels followed by one line per row, the row label first.
func (t *Table) String() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := make([]string, 0, len(t.columns)+1)
	header = append(header, "")
	for _, c := range t.columns {
		header = append(header, FormatLabel(c.label))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for i := 0; i < t.NumRows(); i++ {
		row := make([]string, 0, len(t.columns)+1)
		row = append(row, FormatLabel(t.index.At(i)))
		for _, c := range t.columns {
			row = append(row, formatCell(c, i))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	tw.Flush()

	fmt.Fprintf(&sb, "[%d rows x %d columns]\n", t.NumRows(), t.NumColumns())
	return sb.String()
}

func formatCell(c *Column, i int) string {
	if c.IsMissing(i) {
		return "NaN"
	}
	if c.kind == KindFloat {
		return strconv.FormatFloat(c.nums[i], 'g', 6, 64)
	}
	return c.Text(i)
}
