package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/reqresolve/pkg/requirement"
	"github.com/matzehuels/reqresolve/pkg/resolve"
)

// renderText prints res as a table of resolved packages followed by
// warnings, dropped requests and a stats line.
func renderText(w io.Writer, res *resolve.Result) error {
	fmt.Fprintln(w, StyleTitle.Render(res.Root.String()))

	if res.Map.Len() > 0 {
		rows := make([][]string, 0, res.Map.Len())
		for k, entry := range res.Map.All() {
			rows = append(rows, []string{k.Name, k.Version, k.Extras, formatEntry(res.Map, entry)})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Package", "Version", "Extras", "Dependencies").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				base := lipgloss.NewStyle().Padding(0, 1)
				switch {
				case row == table.HeaderRow:
					return styleHeader.Padding(0, 1)
				case row == 0 && col == 0:
					return base.Foreground(colorCyan).Bold(true)
				case col == 0:
					return base.Foreground(colorCyan)
				case col == 1:
					return base.Foreground(colorWhite)
				default:
					return base.Foreground(colorGray)
				}
			})
		fmt.Fprintln(w, t.Render())
	} else {
		printInfo(w, "Nothing resolved")
	}

	for _, warn := range res.Warnings {
		printWarning(w, "%s %s: %s", warn.Code, warn.Package, warn.Message)
	}
	for _, req := range res.Dropped {
		printDetail(w, "%s %s (depth %d)", iconDropped, req.String(), req.Depth)
	}

	printStats(w, runStats{
		nodes:    res.Map.Len(),
		warnings: len(res.Warnings),
		dropped:  len(res.Dropped),
		steps:    res.Stats.Steps,
		calls:    res.Stats.RegistryCalls,
	})
	return nil
}

// formatEntry lists a node's dependencies with the versions they resolved
// to. Unresolved ones are marked with iconDropped.
func formatEntry(m *resolve.Map, entry resolve.Entry) string {
	if len(entry) == 0 {
		return "-"
	}
	parts := make([]string, len(entry))
	for i, d := range entry {
		parts[i] = formatDependency(m, d)
	}
	return strings.Join(parts, ", ")
}

func formatDependency(m *resolve.Map, d requirement.Dependency) string {
	s := requirement.NormalizeName(d.Name)
	if d.Extras != "" {
		s += "[" + d.Extras + "]"
	}
	if k, ok := m.Resolved(d); ok {
		s += " " + k.Version
	} else {
		s += " " + iconDropped
	}
	if d.ExtraGate != "" {
		s += " (" + d.ExtraGate + ")"
	}
	return s
}
