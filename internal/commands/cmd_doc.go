package commands

import (
	"context"
	"embed"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	corestyles "github.com/hay-kot/shoptoast/internal/core/styles"
)

//go:embed docs/*.md
var docsFS embed.FS

type DocCmd struct {
	flags *Flags
	raw   bool
}

func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Show documentation",
		Description: `Prints shoptoast documentation rendered for the terminal.

Use 'shoptoast doc scripts' to see the replay script format.
Use 'shoptoast doc config' to see the configuration reference.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without rendering",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.page("overview"),
		Commands: []*cli.Command{
			{
				Name:   "scripts",
				Usage:  "Show the replay script format",
				Action: cmd.page("scripts"),
			},
			{
				Name:   "config",
				Usage:  "Show the configuration reference",
				Action: cmd.page("config"),
			},
		},
	})
	return app
}

func (cmd *DocCmd) page(name string) cli.ActionFunc {
	return func(_ context.Context, c *cli.Command) error {
		w := c.Root().Writer
		return cmd.render(w, name, isTerminal(w))
	}
}

func (cmd *DocCmd) render(w io.Writer, name string, tty bool) error {
	md, err := docsFS.ReadFile("docs/" + name + ".md")
	if err != nil {
		return fmt.Errorf("read doc %q: %w", name, err)
	}

	if cmd.raw {
		_, err = w.Write(md)
		return err
	}

	style := glamour.WithStandardStyle(styles.NoTTYStyle)
	if tty {
		style = glamour.WithStyles(corestyles.GlamourStyle(corestyles.MustPalette(cmd.flags.Config.TUI.Theme)))
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(string(md))
	if err != nil {
		return fmt.Errorf("render doc %q: %w", name, err)
	}

	_, err = fmt.Fprint(w, out)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
