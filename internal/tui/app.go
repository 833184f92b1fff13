// Package tui is the terminal workbench: the four panels of the browser
// surface arranged with the same layout model.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/leapbench/internal/adapter"
	"github.com/leapstack-labs/leapbench/internal/engine"
	"github.com/leapstack-labs/leapbench/internal/grid"
	"github.com/leapstack-labs/leapbench/internal/imports"
	"github.com/leapstack-labs/leapbench/internal/layout"
	"github.com/leapstack-labs/leapbench/internal/notifier"
	"github.com/leapstack-labs/leapbench/internal/stats"
)

// chromeRows is the space a results panel spends on border, title, table
// frame and footer.
const chromeRows = 8

// Config holds configuration for the terminal workbench.
type Config struct {
	Engine *engine.Engine
	// Layout defaults to layout.Default().
	Layout      *layout.Model
	GridOptions []grid.Option
	// Timeout bounds imports and statistics refreshes. Zero means none.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	engine   *engine.Engine
	layout   layout.Model
	panels   *layout.Factory[panelFunc]
	gridOpts []grid.Option
	timeout  time.Duration
	logger   *slog.Logger
	keys     KeyMap
	help     help.Model
	updates  chan notifier.Topic

	width, height int
	components    []string
	focus         int

	editor      textarea.Model
	importInput textinput.Model

	offset   int64
	pageSize int64
	page     grid.View
	hasPage  bool
	summary  string

	outcomes []imports.Outcome
	tables   []adapter.TableInfo
	stats    []stats.Entry

	status    string
	statusErr bool
	running   bool
}

// New creates the model and subscribes it to engine changes.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	model := layout.Default()
	if cfg.Layout != nil {
		model = *cfg.Layout
	}

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetValue(engine.DefaultSQL)

	input := textinput.New()
	input.Prompt = "Import: "
	input.Placeholder = "path/to/file.csv ..."

	m := Model{
		engine:      cfg.Engine,
		layout:      model,
		panels:      newPanels(),
		gridOpts:    append([]grid.Option{grid.WithLogger(logger)}, cfg.GridOptions...),
		timeout:     cfg.Timeout,
		logger:      logger,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		updates:     cfg.Engine.Notifier().Subscribe(),
		components:  model.Components(),
		editor:      editor,
		importInput: input,
		pageSize:    10,
	}
	m = m.setFocus(0)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForUpdate(), m.refreshStats(), m.loadTables())
}

// Close drops the engine subscription.
func (m Model) Close() {
	m.engine.Notifier().Unsubscribe(m.updates)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ConnectedMsg:
		if msg.Err != nil {
			m = m.setStatus(fmt.Sprintf("failed to open database: %v", msg.Err), true)
			return m, nil
		}
		m = m.setStatus("database ready", false)
		return m, tea.Batch(m.refreshStats(), m.loadTables())

	case queryDoneMsg:
		m.running = false
		if msg.err != nil {
			return m.setStatus(msg.err.Error(), true), nil
		}
		m.offset = 0
		m = m.loadPage()
		return m.setStatus(fmt.Sprintf("%d rows in %s", msg.rows, msg.elapsed.Round(time.Millisecond)), false), nil

	case importDoneMsg:
		if msg.err != nil {
			return m.setStatus(msg.err.Error(), true), nil
		}
		m.outcomes = msg.outcomes
		m.importInput.SetValue("")
		return m, m.loadTables()

	case statsMsg:
		m.stats = msg.entries
		if msg.err != nil {
			m.logger.Warn("incomplete statistics", "error", msg.err)
		}
		return m, nil

	case tablesMsg:
		m.tables = msg.tables
		return m, nil

	case topicMsg:
		var cmd tea.Cmd
		switch msg.topic {
		case notifier.TopicResults:
			m.offset = 0
			m = m.loadPage()
		case notifier.TopicTables:
			cmd = m.loadTables()
		case notifier.TopicStats:
			cmd = m.refreshStats()
		}
		return m, tea.Batch(cmd, m.waitForUpdate())
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Run):
		if m.running {
			return m, nil
		}
		m.running = true
		m = m.setStatus("running...", false)
		return m, m.runQuery(m.editor.Value())

	case key.Matches(msg, m.keys.NextFocus):
		return m.setFocus(m.focus + 1), nil

	case key.Matches(msg, m.keys.PrevFocus):
		return m.setFocus(m.focus - 1), nil

	case key.Matches(msg, m.keys.PageDown):
		if m.hasPage && m.page.HasNext() {
			m.offset += m.pageSize
			m = m.loadPage()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		if m.offset > 0 {
			m.offset = max(0, m.offset-m.pageSize)
			m = m.loadPage()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshStats()

	case key.Matches(msg, m.keys.Import) && m.focused() == layout.ComponentImport:
		paths := strings.Fields(m.importInput.Value())
		if len(paths) == 0 {
			return m, nil
		}
		return m, m.importFiles(paths)
	}

	return m.forward(msg)
}

// forward hands msg to the focused input.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focused() {
	case layout.ComponentSQL:
		m.editor, cmd = m.editor.Update(msg)
	case layout.ComponentImport:
		m.importInput, cmd = m.importInput.Update(msg)
	}
	return m, cmd
}

func (m Model) focused() string {
	if len(m.components) == 0 {
		return ""
	}
	return m.components[m.focus]
}

func (m Model) setFocus(i int) Model {
	if n := len(m.components); n > 0 {
		m.focus = ((i % n) + n) % n
	}
	m.editor.Blur()
	m.importInput.Blur()
	switch m.focused() {
	case layout.ComponentSQL:
		m.editor.Focus()
	case layout.ComponentImport:
		m.importInput.Focus()
	}
	return m
}

func (m Model) setStatus(s string, isErr bool) Model {
	m.status = s
	m.statusErr = isErr
	return m
}

// resize fits the inputs and the results page to the arranged panels.
func (m Model) resize(w, h int) Model {
	m.width, m.height = w, h
	m.help.Width = w

	for _, p := range layout.Arrange(m.layout, m.area()) {
		inner := max(1, p.Rect.W-2)
		switch p.Component {
		case layout.ComponentSQL:
			m.editor.SetWidth(inner)
			m.editor.SetHeight(max(1, p.Rect.H-3))
		case layout.ComponentImport:
			m.importInput.Width = max(1, inner-len(m.importInput.Prompt)-1)
		case layout.ComponentResults:
			m.pageSize = int64(max(1, p.Rect.H-chromeRows))
		}
	}
	return m.loadPage()
}

// area is the screen minus the status and help lines.
func (m Model) area() layout.Rect {
	return layout.Rect{W: m.width, H: max(0, m.height-2)}
}

// loadPage renders the current result at the current offset.
func (m Model) loadPage() Model {
	res, ok := m.engine.Results().Current()
	if !ok {
		m.hasPage = false
		m.page = grid.View{}
		return m
	}
	defer res.Release()

	g := grid.New(res.Table, m.gridOpts...)
	defer g.Release()

	m.page = g.Page(m.offset, m.pageSize)
	m.offset = m.page.Offset
	m.hasPage = true
	m.summary = fmt.Sprintf("%d rows in %s", res.Rows(), res.Elapsed.Round(time.Millisecond))
	return m
}

func (m Model) opContext() (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(context.Background(), m.timeout)
	}
	return context.WithCancel(context.Background())
}

func (m Model) runQuery(sql string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		res, err := eng.Execute(context.Background(), sql)
		if err != nil {
			return queryDoneMsg{err: err}
		}
		defer res.Release()
		return queryDoneMsg{rows: res.Rows(), elapsed: res.Elapsed}
	}
}

func (m Model) importFiles(paths []string) tea.Cmd {
	eng := m.engine
	ctx, cancel := m.opContext()
	return func() tea.Msg {
		defer cancel()
		files, missing := imports.FromPaths(paths)
		outcomes, err := eng.Import(ctx, files)
		return importDoneMsg{outcomes: append(outcomes, missing...), err: err}
	}
}

func (m Model) refreshStats() tea.Cmd {
	eng := m.engine
	ctx, cancel := m.opContext()
	return func() tea.Msg {
		defer cancel()
		snap, err := eng.Stats(ctx)
		return statsMsg{entries: snap.Entries(), err: err}
	}
}

func (m Model) loadTables() tea.Cmd {
	eng := m.engine
	ctx, cancel := m.opContext()
	return func() tea.Msg {
		defer cancel()
		tables, _ := eng.Tables(ctx)
		return tablesMsg{tables: tables}
	}
}

// waitForUpdate blocks until the engine publishes a change.
func (m Model) waitForUpdate() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		topic, ok := <-ch
		if !ok {
			return nil
		}
		return topicMsg{topic: topic}
	}
}
