package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/fundpush"
)

var sections = map[fundpush.ReportKind]string{
	fundpush.UserReportKind:        "Owner",
	fundpush.FundReportKind:        "Fund",
	fundpush.PerformanceReportKind: "Performance summary",
}

// Markdown renders reports as a markdown document, one section per report with its text in
// a fenced block.
func Markdown(title string, reports []fundpush.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	for _, r := range reports {
		heading := sections[r.Kind]
		if r.Kind != fundpush.PerformanceReportKind {
			heading += " " + r.Key
		}
		fmt.Fprintf(&b, "\n## %s\n\n```text\n%s\n```\n", heading, strings.TrimRight(r.Text, "\n"))
	}
	return b.String()
}
