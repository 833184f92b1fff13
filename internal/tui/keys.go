package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the workbench key bindings.
type KeyMap struct {
	Run       key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	PageDown  key.Binding
	PageUp    key.Binding
	Refresh   key.Binding
	Import    key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default bindings. Alt+Enter stands in for the
// browser's Ctrl/Cmd+Enter, which terminals do not report.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Run:       key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("alt+enter", "run")),
		NextFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		PrevFocus: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page")),
		Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh stats")),
		Import:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "import")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.NextFocus, k.PageDown, k.PageUp, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.PrevFocus, k.Import}}
}
