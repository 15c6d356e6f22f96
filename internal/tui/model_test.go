package tui

import (
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/internal/core/styles"
	"github.com/hay-kot/shoptoast/internal/replay"
	"github.com/hay-kot/shoptoast/internal/tui/toast"
	"github.com/hay-kot/shoptoast/pkg/clock"
	"github.com/hay-kot/shoptoast/pkg/tuitest"
)

type testApp struct {
	clk *clock.Manual
	b   *notify.Broadcaster
	s   *toast.Surface
	m   Model
}

func newTestApp(t *testing.T, scripts ...replay.Script) *testApp {
	t.Helper()

	log := zerolog.Nop()
	clk := clock.NewManual(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	queue := NewCallbackQueue(clk)

	b := notify.New(notify.Options{Scheduler: queue, Logger: &log})
	s := toast.NewSurface(b, toast.Options{Scheduler: queue, Logger: &log})
	t.Cleanup(s.Close)

	m := New(Options{
		Broadcaster: b,
		Surface:     s,
		Queue:       queue,
		Palette:     styles.MustPalette(styles.DefaultTheme),
		Scripts:     scripts,
		Logger:      &log,
	})
	return &testApp{clk: clk, b: b, s: s, m: m}
}

func (a *testApp) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	result, cmd := a.m.Update(msg)
	a.m = result.(Model)
	return cmd
}

// advance moves the clock and drains fired callbacks through Update, the way
// the running program does.
func (a *testApp) advance(t *testing.T, d time.Duration) {
	t.Helper()
	a.clk.Advance(d)
	for a.m.queue.Len() > 0 {
		a.send(t, drainCallbacksMsg{})
		a.clk.Advance(0)
	}
}

func (a *testApp) phases() []toast.Phase {
	toasts := a.s.Toasts()
	out := make([]toast.Phase, 0, len(toasts))
	for _, tt := range toasts {
		out = append(out, tt.Phase)
	}
	return out
}

func TestModel_ShowKeyRaisesToast(t *testing.T) {
	app := newTestApp(t)

	app.send(t, tuitest.KeyPress('s'))

	active := app.b.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.CategorySuccess, active[0].Category)
	assert.Equal(t, []toast.Phase{toast.PhaseEntering}, app.phases())

	app.advance(t, 0)
	assert.Equal(t, []toast.Phase{toast.PhaseVisible}, app.phases())
}

func TestModel_RepeatedKeyIsSuppressed(t *testing.T) {
	app := newTestApp(t)

	app.send(t, tuitest.KeyPress('e'))
	app.send(t, tuitest.KeyPress('e'))

	assert.Len(t, app.b.Active(), 1)
	require.Len(t, app.m.session.activity, 2)
	assert.Equal(t, "suppressed duplicate error", app.m.session.activity[1].text)
}

func TestModel_ToastLifecycleThroughUpdate(t *testing.T) {
	app := newTestApp(t)

	app.send(t, tuitest.KeyPress('i'))
	app.advance(t, 0)
	app.advance(t, notify.DefaultDuration)
	assert.Equal(t, []toast.Phase{toast.PhaseDismissing}, app.phases())

	app.advance(t, toast.DefaultExitDelay)
	assert.Empty(t, app.b.Active())
	assert.False(t, app.s.HasToasts())
}

func TestModel_DismissKeys(t *testing.T) {
	app := newTestApp(t)

	app.send(t, tuitest.KeyPress('s'))
	app.send(t, tuitest.KeyPress('w'))
	app.send(t, tuitest.KeyPress('e'))
	app.advance(t, 0)

	app.send(t, tuitest.KeyPress('d'))
	assert.Equal(t, []toast.Phase{toast.PhaseVisible, toast.PhaseVisible, toast.PhaseDismissing}, app.phases())

	app.send(t, tuitest.KeyEsc())
	assert.Equal(t, []toast.Phase{toast.PhaseDismissing, toast.PhaseDismissing, toast.PhaseDismissing}, app.phases())

	app.advance(t, toast.DefaultExitDelay)
	assert.Empty(t, app.b.Active())
}

func TestModel_Replay(t *testing.T) {
	script := replay.Script{Name: "checkout", Steps: []replay.Step{
		{Message: "Order placed", Category: notify.CategorySuccess},
		{After: replay.Duration(500 * time.Millisecond), Message: "Order placed", Category: notify.CategorySuccess},
		{After: replay.Duration(time.Second), Message: "Card expired", Category: notify.CategoryError},
	}}
	app := newTestApp(t, script)

	app.send(t, tuitest.KeyPress('r'))
	app.advance(t, time.Second)

	active := app.b.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "Order placed", active[0].Message)
	assert.Equal(t, "Card expired", active[1].Message)

	texts := make([]string, 0, len(app.m.session.activity))
	for _, e := range app.m.session.activity {
		texts = append(texts, e.text)
	}
	assert.Contains(t, texts, "[checkout] suppressed duplicate success")
}

func TestModel_ReplayRestartCancelsPending(t *testing.T) {
	script := replay.Script{Name: "late", Steps: []replay.Step{
		{After: replay.Duration(time.Second), Message: "late", Category: notify.CategoryInfo},
	}}
	app := newTestApp(t, script)

	app.send(t, tuitest.KeyPress('r'))
	app.advance(t, 500*time.Millisecond)
	app.send(t, tuitest.KeyPress('r'))
	app.advance(t, 700*time.Millisecond)

	assert.Empty(t, app.b.Active(), "first run was canceled")

	app.advance(t, 300*time.Millisecond)
	assert.Len(t, app.b.Active(), 1)
}

func TestModel_ReplaySpinner(t *testing.T) {
	script := replay.Script{Name: "promo", Steps: []replay.Step{
		{Message: "Sale starts now", Category: notify.CategoryInfo},
		{After: replay.Duration(time.Second), Message: "Sale ends soon", Category: notify.CategoryWarning},
	}}
	app := newTestApp(t, script)
	app.send(t, tuitest.WindowSize(120, 30))

	cmd := app.send(t, tuitest.KeyPress('r'))
	require.NotNil(t, cmd)
	tick, ok := cmd().(spinner.TickMsg)
	require.True(t, ok, "replay starts the spinner")

	assert.NotNil(t, app.send(t, tick), "spinner keeps ticking while steps are pending")
	assert.Contains(t, tuitest.StripANSI(app.m.View().Content), "replaying, 2 step(s) left")

	app.advance(t, 0)
	assert.Equal(t, 1, app.m.session.replayPending)

	app.advance(t, time.Second)
	assert.Zero(t, app.m.session.replayPending)
	assert.Nil(t, app.send(t, tick), "spinner stops once the replay finished")
	assert.NotContains(t, tuitest.StripANSI(app.m.View().Content), "step(s) left")
}

func TestModel_ReplayWithoutScripts(t *testing.T) {
	app := newTestApp(t)
	assert.Nil(t, app.send(t, tuitest.KeyPress('r')))

	require.Len(t, app.m.session.activity, 1)
	assert.Equal(t, "no replay scripts configured", app.m.session.activity[0].text)
}

func TestModel_Quit(t *testing.T) {
	app := newTestApp(t)

	cmd := app.send(t, tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	cmd = app.send(t, tuitest.CtrlC())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_DrainReissuesWait(t *testing.T) {
	app := newTestApp(t)
	cmd := app.send(t, drainCallbacksMsg{})
	assert.NotNil(t, cmd)
}

func TestModel_View(t *testing.T) {
	app := newTestApp(t)
	app.send(t, tuitest.WindowSize(120, 30))

	app.send(t, tuitest.KeyPress('w'))
	app.advance(t, 0)

	v := app.m.View()
	assert.True(t, v.AltScreen)

	out := tuitest.StripANSI(v.Content)
	assert.Contains(t, out, "shoptoast")
	assert.Contains(t, out, "Only 2 left in stock")
	assert.Contains(t, out, "warning: Only 2 left in stock")
}

func TestModel_HelpToggle(t *testing.T) {
	app := newTestApp(t)
	assert.False(t, app.m.help.ShowAll)

	app.send(t, tuitest.KeyPress('?'))
	assert.True(t, app.m.help.ShowAll)
}
