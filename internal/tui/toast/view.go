package toast

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/internal/core/styles"
)

const toastWidth = 50

// presentation is how one category looks on screen.
type presentation struct {
	icon  string
	style lipgloss.Style
}

// View renders a surface's toasts and composites them as an overlay.
type View struct {
	surface *Surface
	looks   map[notify.Category]presentation
	fading  lipgloss.Style
}

// NewView resolves the category presentation table from palette once, so
// rendering never inspects categories beyond a map lookup.
func NewView(surface *Surface, palette styles.Palette) *View {
	base := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(palette.Foreground)

	looks := map[notify.Category]presentation{
		notify.CategorySuccess: {icon: styles.IconNotifySuccess, style: base.BorderForeground(palette.Success)},
		notify.CategoryError:   {icon: styles.IconNotifyError, style: base.BorderForeground(palette.Error)},
		notify.CategoryWarning: {icon: styles.IconNotifyWarning, style: base.BorderForeground(palette.Warning)},
		notify.CategoryInfo:    {icon: styles.IconNotifyInfo, style: base.BorderForeground(palette.Primary)},
	}

	return &View{
		surface: surface,
		looks:   looks,
		fading:  base.BorderForeground(palette.Muted).Foreground(palette.Muted),
	}
}

func (v *View) lookFor(c notify.Category) presentation {
	if p, ok := v.looks[c]; ok {
		return p
	}
	return v.looks[notify.CategoryInfo]
}

// Render renders the toast stack as a single string with toasts stacked
// vertically (oldest at top, newest at bottom).
func (v *View) Render() string {
	toasts := v.surface.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		if t.Phase == PhaseRemoved {
			continue
		}
		rendered = append(rendered, v.renderToast(t))
	}

	return strings.Join(rendered, "\n")
}

func (v *View) renderToast(t Toast) string {
	look := v.lookFor(t.Notification.Category)

	style := look.style
	if t.Phase == PhaseDismissing {
		style = v.fading
	}

	content := look.icon + " " + t.Notification.Message
	return style.Width(toastWidth).Render(content)
}

// Overlay composites the toast stack over background in the lower-right corner.
func (v *View) Overlay(background string, width, height int) string {
	toastContent := v.Render()
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	toastH := lipgloss.Height(toastContent)

	rightX := max(width-toastW-1, 0)
	bottomY := max(height-toastH, 0)

	toastLayer.X(rightX).Y(bottomY).Z(2)

	compositor := lipgloss.NewCompositor(bgLayer, toastLayer)
	return compositor.Render()
}
