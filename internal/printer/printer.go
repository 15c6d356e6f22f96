// Package printer writes styled, human oriented command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/shoptoast/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines using a palette's category colors.
type Printer struct {
	w       io.Writer
	success lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	muted   lipgloss.Style
}

// New creates a printer writing to w.
func New(w io.Writer, p styles.Palette) *Printer {
	return &Printer{
		w:       w,
		success: lipgloss.NewStyle().Foreground(p.Success),
		info:    lipgloss.NewStyle().Foreground(p.Primary),
		warn:    lipgloss.NewStyle().Foreground(p.Warning),
		err:     lipgloss.NewStyle().Foreground(p.Error),
		muted:   lipgloss.NewStyle().Foreground(p.Muted),
	}
}

// WithCtx stores p in ctx.
func WithCtx(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or a stdout printer with the default
// theme.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout, styles.MustPalette(styles.DefaultTheme))
}

func (p *Printer) line(style lipgloss.Style, icon, format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Success writes a success line followed by a muted detail.
func (p *Printer) Success(title, detail string) {
	p.line(p.success, styles.IconNotifySuccess, "%s", title)
	if detail != "" {
		_, _ = fmt.Fprintln(p.w, "  "+p.muted.Render(detail))
	}
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(p.success, styles.IconNotifySuccess, format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(p.info, styles.IconNotifyInfo, format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.warn, styles.IconNotifyWarning, format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.err, styles.IconNotifyError, format, args...)
}
