// Package tui is the interactive storefront demo: a Bubble Tea program that
// raises notifications from key presses and replay scripts and renders them
// as toasts.
package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/hay-kot/shoptoast/internal/core/logging"
	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/internal/core/styles"
	"github.com/hay-kot/shoptoast/internal/replay"
	"github.com/hay-kot/shoptoast/internal/tui/toast"
)

const maxActivity = 8

// startReplayMsg starts every loaded replay script from the beginning.
type startReplayMsg struct{}

// Options configures the demo model.
type Options struct {
	Broadcaster *notify.Broadcaster
	Surface     *toast.Surface
	// Queue must be the scheduler the broadcaster and surface were built on.
	Queue   *CallbackQueue
	Palette styles.Palette
	Scripts []replay.Script
	// Autoplay starts the scripts when the program starts.
	Autoplay bool
	Logger   *zerolog.Logger
}

type activityEntry struct {
	at   time.Time
	text string
}

// session is the mutable state shared by every copy of the model.
type session struct {
	activity     []activityEntry
	cancelReplay func()
	// replayPending counts replay steps that have not run yet.
	replayPending int
}

func (s *session) record(at time.Time, format string, args ...any) {
	s.activity = append(s.activity, activityEntry{at: at, text: fmt.Sprintf(format, args...)})
	if len(s.activity) > maxActivity {
		s.activity = s.activity[len(s.activity)-maxActivity:]
	}
}

// Model is the Bubble Tea model for the demo.
type Model struct {
	broadcaster *notify.Broadcaster
	surface     *toast.Surface
	toasts      *toast.View
	queue       *CallbackQueue
	scripts     []replay.Script
	autoplay    bool

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	styles  viewStyles
	session *session
	log     zerolog.Logger

	width  int
	height int
}

// New creates the demo model.
func New(opts Options) Model {
	log := logging.ComponentOr(opts.Logger, "tui")

	return Model{
		broadcaster: opts.Broadcaster,
		surface:     opts.Surface,
		toasts:      toast.NewView(opts.Surface, opts.Palette),
		queue:       opts.Queue,
		scripts:     opts.Scripts,
		autoplay:    opts.Autoplay,
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(opts.Palette.Primary)),
		),
		styles:  newViewStyles(opts.Palette),
		session: &session{},
		log:     log,
	}
}

// Init starts listening for timer callbacks.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.queue.WaitForSignal()}
	if m.autoplay && len(m.scripts) > 0 {
		cmds = append(cmds, func() tea.Msg { return startReplayMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width)
		return m, nil
	case drainCallbacksMsg:
		n := m.queue.Drain()
		m.log.Trace().Int("callbacks", n).Msg("drained timer callbacks")
		return m, m.queue.WaitForSignal()
	case startReplayMsg:
		return m, m.startReplay()
	case spinner.TickMsg:
		if m.session.replayPending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if c, ok := m.keys.categoryFor(msg); ok {
		m.show(demoMessages[c], c)
		return m, nil
	}

	now := m.queue.Now()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopReplay()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		if m.surface.DismissNewest() {
			m.session.record(now, "dismissed newest toast")
		}
	case key.Matches(msg, m.keys.DismissAll):
		if n := m.surface.DismissAll(); n > 0 {
			m.session.record(now, "dismissed %d toast(s)", n)
		}
	case key.Matches(msg, m.keys.Replay):
		return m, m.startReplay()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) show(message string, c notify.Category) {
	if _, ok := m.broadcaster.Show(message, c); ok {
		m.session.record(m.queue.Now(), "%s: %s", c, message)
		return
	}
	m.session.record(m.queue.Now(), "suppressed duplicate %s", c)
}

// startReplay schedules every script from now and returns the command that
// starts the progress spinner.
func (m Model) startReplay() tea.Cmd {
	m.stopReplay()
	if len(m.scripts) == 0 {
		m.session.record(m.queue.Now(), "no replay scripts configured")
		return nil
	}

	cancels := make([]func(), 0, len(m.scripts))
	for _, s := range m.scripts {
		m.session.replayPending += len(s.Steps)
		cancels = append(cancels, replay.Schedule(m.queue, m.broadcaster, s, m.recordStep))
	}
	m.session.cancelReplay = func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
	m.session.record(m.queue.Now(), "replaying %d script(s)", len(m.scripts))
	m.log.Debug().Int("scripts", len(m.scripts)).Msg("replay started")
	return m.spinner.Tick
}

func (m Model) stopReplay() {
	if m.session.cancelReplay != nil {
		m.session.cancelReplay()
		m.session.cancelReplay = nil
	}
	m.session.replayPending = 0
}

func (m Model) recordStep(r replay.Result) {
	if m.session.replayPending > 0 {
		m.session.replayPending--
	}
	if r.Shown {
		m.session.record(r.At, "[%s] %s: %s", r.Script, r.Step.Category, r.Step.Message)
		return
	}
	m.session.record(r.At, "[%s] suppressed duplicate %s", r.Script, r.Step.Category)
}

// View renders the storefront panel with the toast stack overlaid.
func (m Model) View() tea.View {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("shoptoast"))
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render("storefront notification demo"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.heading.Render("Activity"))
	if m.session.replayPending > 0 {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(m.styles.muted.Render(fmt.Sprintf(" replaying, %d step(s) left", m.session.replayPending)))
	}
	b.WriteString("\n")
	if len(m.session.activity) == 0 {
		b.WriteString(m.styles.muted.Render("press a key to raise a notification"))
		b.WriteString("\n")
	}
	for _, e := range m.session.activity {
		b.WriteString(m.styles.muted.Render(e.at.Format("15:04:05.000")))
		b.WriteString(" ")
		b.WriteString(e.text)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	content := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
		content = m.toasts.Overlay(content, m.width, m.height)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

type viewStyles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
}

func newViewStyles(p styles.Palette) viewStyles {
	return viewStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		heading: lipgloss.NewStyle().Bold(true).Foreground(p.Foreground),
		muted:   lipgloss.NewStyle().Foreground(p.Muted),
	}
}
