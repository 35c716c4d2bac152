package status

import (
	"fmt"
	"strings"
)

// RenderLines formats one line per group, in the order Aggregate returned
// them: the analysis name padded to a common width, the overall status
// centered in a 7-character field, and optional scatter/gather count
// suffixes.
func RenderLines(groups []Group) []string {
	width := 0
	for _, g := range groups {
		if len(g.Name) > width {
			width = len(g.Name)
		}
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		line := fmt.Sprintf("%-*s  %s", width, g.Name, center(string(g.Status), 7))
		if g.Scatter.Total > 0 {
			line += "  " + countSuffix("s", g.Scatter)
		}
		if g.Gather.Total > 0 {
			line += "  " + countSuffix("g", g.Gather)
		}
		lines = append(lines, line)
	}
	return lines
}

func countSuffix(tag string, c Counts) string {
	return fmt.Sprintf("%s:%dt/%dd/%df", tag, c.Total, c.Done, c.Failed)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
