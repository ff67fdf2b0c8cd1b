package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/reqresolve/pkg/resolve"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// runBrowser opens the interactive map browser on the terminal.
func runBrowser(ctx context.Context, res *resolve.Result) error {
	if res.Map.Len() == 0 {
		printInfo(os.Stdout, "Nothing resolved for %s", res.Root.String())
		return nil
	}
	_, err := tea.NewProgram(newBrowserModel(res), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// BrowserModel - Interactive map browser
// =============================================================================

// BrowserModel is the bubbletea model for browsing a resolved map. The list
// view shows every key; enter opens a key's dependencies, and following a
// resolved dependency opens its key in turn.
type BrowserModel struct {
	res    *resolve.Result
	keys   []resolve.Key
	Cursor int
	Offset int
	Height int

	// Focus is the key whose dependencies are shown; nil in the list view.
	Focus     *resolve.Key
	DepCursor int
	history   []resolve.Key
}

func newBrowserModel(res *resolve.Result) BrowserModel {
	return BrowserModel{
		res:    res,
		keys:   res.Map.Keys(),
		Height: 15,
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Focus != nil {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m BrowserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < len(m.keys)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "enter", "right", "l":
		k := m.keys[m.Cursor]
		m.Focus = &k
		m.DepCursor = 0
	}
	return m, nil
}

func (m BrowserModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entry, _ := m.res.Map.Get(*m.Focus)

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.DepCursor > 0 {
			m.DepCursor--
		}
	case "down", "j":
		if m.DepCursor < len(entry)-1 {
			m.DepCursor++
		}
	case "enter", "right", "l":
		if len(entry) == 0 {
			return m, nil
		}
		target, ok := m.res.Map.Resolved(entry[m.DepCursor])
		if !ok {
			return m, nil
		}
		m.history = append(m.history, *m.Focus)
		m.Focus = &target
		m.DepCursor = 0
	case "esc", "backspace", "left", "h":
		if n := len(m.history); n > 0 {
			prev := m.history[n-1]
			m.history = m.history[:n-1]
			m.Focus = &prev
		} else {
			m.Focus = nil
		}
		m.DepCursor = 0
	}
	return m, nil
}

func (m BrowserModel) View() string {
	if m.Focus != nil {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m BrowserModel) viewList() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.res.Root.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ dependencies  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.keys))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		k := m.keys[i]
		entry, _ := m.res.Map.Get(k)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		extras := k.Extras
		if extras == "" {
			extras = "-"
		}
		rows = append(rows, []string{cursor, k.Name, k.Version, extras, fmt.Sprint(len(entry))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Version", "Extras", "Deps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			isCurrent := m.Offset+row == m.Cursor
			base := lipgloss.NewStyle()
			switch {
			case isCurrent && col <= 2:
				return base.Foreground(colorGreen).Bold(true)
			case isCurrent:
				return base.Foreground(colorGray).Bold(true)
			case col == 1:
				return base.Foreground(colorCyan)
			case col == 2:
				return base.Foreground(colorWhite)
			default:
				return base.Foreground(colorDim)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.keys))))
	if n := len(m.res.Warnings); n > 0 {
		b.WriteString("  ")
		b.WriteString(StyleWarning.Render(plural(n, "warning")))
	}

	return b.String()
}

func (m BrowserModel) viewDetail() string {
	var b strings.Builder
	entry, _ := m.res.Map.Get(*m.Focus)

	b.WriteString(StyleTitle.Render(m.Focus.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ follow  ⌫ back  q quit"))
	b.WriteString("\n\n")

	if len(entry) == 0 {
		b.WriteString(listDimStyle.Render("  no dependencies"))
		b.WriteString("\n")
	}

	for i, d := range entry {
		cursor := "  "
		if i == m.DepCursor {
			cursor = "> "
		}

		target, ok := m.res.Map.Resolved(d)
		status := StyleSuccess.Render(iconArrow)
		resolved := target.Version
		if !ok {
			status = StyleWarning.Render(iconDropped)
			resolved = "unresolved"
		}

		line := fmt.Sprintf("%s%s %-32s  %s", cursor, status, d.Spec().String(), listDimStyle.Render(resolved))
		if d.ExtraGate != "" {
			line += listDimStyle.Render("  extra: " + d.ExtraGate)
		}

		switch {
		case i == m.DepCursor:
			b.WriteString(listSelectedStyle.Render(line))
		case !ok:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.history) > 0 {
		trail := make([]string, len(m.history))
		for i, k := range m.history {
			trail[i] = k.Name
		}
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  " + strings.Join(trail, " "+iconArrow+" ")))
		b.WriteString("\n")
	}

	return b.String()
}
