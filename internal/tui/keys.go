package tui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/hay-kot/shoptoast/internal/core/notify"
)

// keyMap holds the demo's key bindings. It implements help.KeyMap.
type keyMap struct {
	Success    key.Binding
	Error      key.Binding
	Info       key.Binding
	Warning    key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	Replay     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Success:    key.NewBinding(key.WithKeys("s", "1"), key.WithHelp("s", "success")),
		Error:      key.NewBinding(key.WithKeys("e", "2"), key.WithHelp("e", "error")),
		Info:       key.NewBinding(key.WithKeys("i", "3"), key.WithHelp("i", "info")),
		Warning:    key.NewBinding(key.WithKeys("w", "4"), key.WithHelp("w", "warning")),
		Dismiss:    key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "dismiss newest")),
		DismissAll: key.NewBinding(key.WithKeys("x", "esc"), key.WithHelp("x", "dismiss all")),
		Replay:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "replay scripts")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Success, k.Error, k.Dismiss, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Success, k.Error, k.Info, k.Warning},
		{k.Dismiss, k.DismissAll, k.Replay},
		{k.Help, k.Quit},
	}
}

// categoryFor maps a show binding to its category.
func (k keyMap) categoryFor(msg tea.KeyPressMsg) (notify.Category, bool) {
	switch {
	case key.Matches(msg, k.Success):
		return notify.CategorySuccess, true
	case key.Matches(msg, k.Error):
		return notify.CategoryError, true
	case key.Matches(msg, k.Info):
		return notify.CategoryInfo, true
	case key.Matches(msg, k.Warning):
		return notify.CategoryWarning, true
	}
	return "", false
}

// demoMessages are the storefront events the show keys raise. Repeating a
// key within the suppression window exercises duplicate suppression.
var demoMessages = map[notify.Category]string{
	notify.CategorySuccess: `Added "Canvas Tote" to cart`,
	notify.CategoryError:   "Payment declined, try another card",
	notify.CategoryInfo:    "Free shipping on orders over $50",
	notify.CategoryWarning: "Only 2 left in stock",
}
