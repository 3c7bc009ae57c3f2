package report

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Faultbox/stairgen/internal/stairs"
)

func (p *Printer) reportText(r *stairs.Report) error {
	if _, err := fmt.Fprintf(p.w, "templates found: %d\nramps generated: %d\nfailed: %d\n",
		r.Found, r.Generated(), r.Failed()); err != nil {
		return err
	}
	return p.resultsText(r.Results)
}

func (p *Printer) resultsText(results []stairs.Result) error {
	for _, res := range results {
		var line string
		switch {
		case res.Error != "":
			line = "  " + res.Error
		case res.RampID != 0:
			line = fmt.Sprintf("  solid %d: %s ramp %d, %s x %s x %s",
				res.TemplateID, res.Orientation, res.RampID,
				num(res.RampLength), num(res.Width), num(res.Height))
		default:
			line = fmt.Sprintf("  solid %d: %s at %s, %s x %s x %s",
				res.TemplateID, res.Orientation, point(res.Origin),
				num(res.Length), num(res.Width), num(res.Height))
		}
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	return nil
}

var tableHeaders = []string{"TEMPLATE", "FACING", "ORIGIN", "LENGTH", "WIDTH", "HEIGHT", "RAMP LENGTH", "RAMP", "STATUS"}

func (p *Printer) resultTable(results []stairs.Result) error {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(tableHeaders, "\t"))

	for _, res := range results {
		row := []string{strconv.Itoa(res.TemplateID), "-", "-", "-", "-", "-", "-", "-", "ok"}
		if res.Error != "" {
			row[8] = res.Error
		} else {
			row[1] = res.Orientation
			row[2] = point(res.Origin)
			row[3] = num(res.Length)
			row[4] = num(res.Width)
			row[5] = num(res.Height)
			row[6] = num(res.RampLength)
			if res.RampID != 0 {
				row[7] = strconv.Itoa(res.RampID)
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func point(v [3]float64) string {
	return num(v[0]) + " " + num(v[1]) + " " + num(v[2])
}
