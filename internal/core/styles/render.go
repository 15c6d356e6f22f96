package styles

import (
	"image/color"

	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/huh"
	"github.com/lucasb-eyer/go-colorful"
)

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from p.
func GlamourStyle(p Palette) glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(p.Foreground)
	primary := colorHexPtr(p.Primary)
	muted := colorHexPtr(p.Muted)
	surface := colorHexPtr(p.Surface)
	success := colorHexPtr(p.Success)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = primary
	cfg.LinkText.Color = primary

	cfg.Code.Color = success
	cfg.CodeBlock.Color = muted

	cfg.Table.Color = fg

	return cfg
}

// FormTheme returns the huh form theme that best matches the named theme.
func FormTheme(name string) *huh.Theme {
	switch name {
	case "catppuccin":
		return huh.ThemeCatppuccin()
	case "gruvbox", "onedark":
		return huh.ThemeBase16()
	default:
		return huh.ThemeCharm()
	}
}
