package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/layout"
)

var (
	accent = lipgloss.Color("#00a33a")
	muted  = lipgloss.Color("#808080")
	danger = lipgloss.Color("#d7263d")

	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted)
	focusedStyle = panelStyle.BorderForeground(accent)
	activeTab    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	inactiveTab  = lipgloss.NewStyle().Foreground(muted)
	mutedText    = lipgloss.NewStyle().Foreground(muted)
	errorText    = lipgloss.NewStyle().Foreground(danger)
	headerCell   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	bodyCell     = lipgloss.NewStyle().Padding(0, 1)
	numericCell  = bodyCell.Align(lipgloss.Right)
)

// panelFunc renders one component into a w x h area.
type panelFunc func(m Model, w, h int) string

func newPanels() *layout.Factory[panelFunc] {
	return layout.NewFactory(func(name string) panelFunc {
		return func(_ Model, _, _ int) string {
			return mutedText.Render(layout.NotFoundText(name))
		}
	}).
		Register(layout.ComponentSQL, Model.viewEditor).
		Register(layout.ComponentResults, Model.viewResults).
		Register(layout.ComponentImport, Model.viewImport).
		Register(layout.ComponentStats, Model.viewStats)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting..."
	}

	status := mutedText.Render(m.status)
	if m.statusErr {
		status = errorText.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewLayout(),
		truncate(status, m.width),
		m.help.View(m.keys),
	)
}

// viewLayout walks the layout tree in the same order as layout.Arrange and
// joins the rendered tab sets.
func (m Model) viewLayout() string {
	byTabSet := map[int][]layout.Placement{}
	for _, p := range layout.Arrange(m.layout, m.area()) {
		byTabSet[p.TabSet] = append(byTabSet[p.TabSet], p)
	}

	next := 0
	var walk func(n layout.Node) string
	walk = func(n layout.Node) string {
		switch n.Type {
		case layout.NodeRow, layout.NodeColumn:
			parts := make([]string, 0, len(n.Children))
			for _, c := range n.Children {
				parts = append(parts, walk(c))
			}
			if n.Type == layout.NodeRow {
				return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
			}
			return lipgloss.JoinVertical(lipgloss.Left, parts...)
		case layout.NodeTabSet:
			i := next
			next++
			return m.viewTabSet(byTabSet[i])
		}
		return ""
	}
	return walk(m.layout.Layout)
}

func (m Model) viewTabSet(tabs []layout.Placement) string {
	if len(tabs) == 0 {
		return ""
	}
	r := tabs[0].Rect
	w, h := max(1, r.W-2), max(1, r.H-2)

	active := tabs[0]
	titles := make([]string, len(tabs))
	focused := false
	for i, t := range tabs {
		if t.Component == m.focused() {
			active, focused = t, true
		}
		titles[i] = inactiveTab.Render(t.Name)
	}
	for i, t := range tabs {
		if t.Component == active.Component {
			titles[i] = activeTab.Render(t.Name)
		}
	}

	body := m.panels.Build(active.Component)(m, w, max(0, h-1))
	content := lipgloss.JoinVertical(lipgloss.Left, strings.Join(titles, " "), body)

	style := panelStyle
	if focused {
		style = focusedStyle
	}
	return style.Width(w).Height(h).MaxHeight(r.H).Render(clip(content, w, h))
}

func (m Model) viewEditor(_, _ int) string {
	return m.editor.View()
}

func (m Model) viewResults(w, _ int) string {
	if !m.hasPage {
		return mutedText.Render("No results\nRun a query to see some data")
	}

	headers := make([]string, 0, len(m.page.Columns)+1)
	headers = append(headers, "")
	for _, c := range m.page.Columns {
		headers = append(headers, c.Icon.Glyph()+" "+c.Title)
	}

	rows := make([][]string, len(m.page.Rows))
	for i, row := range m.page.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, humanize.Comma(row.Number))
		for _, c := range row.Cells {
			cells = append(cells, c.DisplayData)
		}
		rows[i] = cells
	}

	columns := m.page.Columns
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedText).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case col == 0:
				return numericCell.Foreground(muted)
			case col-1 < len(columns) && columns[col-1].Type.Kind.IsNumeric():
				return numericCell
			default:
				return bodyCell
			}
		})

	footer := m.summary
	if len(m.page.Rows) > 0 {
		footer = fmt.Sprintf("rows %s-%s of %s · %s",
			humanize.Comma(m.page.Offset+1),
			humanize.Comma(m.page.Offset+int64(len(m.page.Rows))),
			humanize.Comma(m.page.Total),
			m.summary)
	}
	return lipgloss.JoinVertical(lipgloss.Left, t.Render(), mutedText.Render(truncate(footer, w)))
}

func (m Model) viewImport(w, _ int) string {
	lines := []string{
		m.importInput.View(),
		mutedText.Render(truncate(m.engine.Pipeline().Description(), w)),
	}
	for _, o := range m.outcomes {
		style := lipgloss.NewStyle().Foreground(accent)
		if o.Status != imports.StatusImported {
			style = errorText
		}
		lines = append(lines, style.Render(truncate(o.Message(), w)))
	}
	if len(m.tables) > 0 {
		lines = append(lines, "", "Tables:")
		for _, t := range m.tables {
			lines = append(lines, truncate(fmt.Sprintf("  %s (%d columns)", t.Name, t.Columns), w))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewStats(w, h int) string {
	if len(m.stats) == 0 {
		return mutedText.Render("collecting...")
	}
	keyWidth := 0
	for _, e := range m.stats {
		keyWidth = max(keyWidth, lipgloss.Width(e.Key))
	}
	lines := make([]string, 0, len(m.stats))
	for _, e := range m.stats {
		if h > 0 && len(lines) == h {
			break
		}
		line := mutedText.Render(fmt.Sprintf("%-*s", keyWidth, e.Key)) + "  " + e.Value
		lines = append(lines, truncate(line, w))
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to w cells.
func truncate(s string, w int) string {
	return lipgloss.NewStyle().MaxWidth(max(w, 1)).Render(s)
}

// clip keeps content inside a w x h box.
func clip(s string, w, h int) string {
	return lipgloss.NewStyle().MaxWidth(w).MaxHeight(h).Render(s)
}
