package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/internal/core/styles"
	"github.com/hay-kot/shoptoast/internal/core/validate"
	"github.com/hay-kot/shoptoast/internal/printer"
	"github.com/hay-kot/shoptoast/internal/replay"
)

type ComposeCmd struct {
	flags *Flags

	// Command-specific flags
	file     string
	message  string
	category string
	after    string
	duration string
}

// NewComposeCmd creates a new compose command
func NewComposeCmd(flags *Flags) *ComposeCmd {
	return &ComposeCmd{flags: flags}
}

// Register adds the compose command to the application
func (cmd *ComposeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "compose",
		Usage:     "Append a notification step to a replay script",
		UsageText: "shoptoast compose [options] <script.yaml>",
		Description: `Adds one scripted notification to a replay script, creating the file if it
does not exist.

When --message is omitted, an interactive form prompts for the step.

Example:
  shoptoast compose scripts/checkout.yaml -m "Order placed" -c success --after 2s`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "message",
				Aliases:     []string{"m"},
				Usage:       "notification message",
				Destination: &cmd.message,
			},
			&cli.StringFlag{
				Name:        "category",
				Aliases:     []string{"c"},
				Usage:       "notification category (success, error, info, warning)",
				Value:       string(notify.CategoryInfo),
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "after",
				Aliases:     []string{"a"},
				Usage:       "offset from the start of the script, e.g. 1.5s",
				Value:       "0s",
				Destination: &cmd.after,
			},
			&cli.StringFlag{
				Name:        "duration",
				Aliases:     []string{"d"},
				Usage:       "display duration (empty uses the configured default)",
				Destination: &cmd.duration,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ComposeCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	cmd.file = c.Args().First()
	if cmd.file == "" {
		return fmt.Errorf("script path is required")
	}

	if cmd.message == "" {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	step, err := cmd.step()
	if err != nil {
		return err
	}

	script, err := replay.AppendStep(cmd.file, step)
	if err != nil {
		return fmt.Errorf("append step: %w", err)
	}

	p.Success(
		fmt.Sprintf("Added %s step at +%s", step.Category, step.After.Std()),
		fmt.Sprintf("%s (%d steps)", script.Source, len(script.Steps)),
	)
	return nil
}

// step validates the collected input and converts it to a replay step.
func (cmd *ComposeCmd) step() (replay.Step, error) {
	err := criterio.ValidateStruct(
		validate.MessageField("message", cmd.message),
		validate.CategoryField("category", cmd.category),
		criterio.Run("after", cmd.after, validate.Offset),
		criterio.Run("duration", cmd.duration, validate.Duration),
	)
	if err != nil {
		return replay.Step{}, err
	}

	category, _ := notify.ParseCategory(cmd.category)
	after, _ := time.ParseDuration(cmd.after)

	step := replay.Step{
		After:    replay.Duration(after),
		Message:  cmd.message,
		Category: category,
	}
	if cmd.duration != "" {
		d, _ := time.ParseDuration(cmd.duration)
		step.Duration = replay.Duration(d)
	}
	return step, nil
}

func (cmd *ComposeCmd) runForm() error {
	options := make([]huh.Option[string], 0, len(notify.Categories))
	for _, c := range notify.Categories {
		options = append(options, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Compose notification").
				Description("Appends a step to "+cmd.file),
			huh.NewInput().
				Title("Message").
				Description("Text shown in the toast").
				Validate(validate.Message).
				Value(&cmd.message),
			huh.NewSelect[string]().
				Title("Category").
				Options(options...).
				Value(&cmd.category),
			huh.NewInput().
				Title("After").
				Description("Offset from the start of the script").
				Placeholder("0s").
				Validate(validate.Offset).
				Value(&cmd.after),
			huh.NewInput().
				Title("Duration").
				Description("Leave empty for the default").
				Placeholder(cmd.flags.Config.Toast.DefaultDuration.String()).
				Validate(validate.Duration).
				Value(&cmd.duration),
		),
	).WithTheme(styles.FormTheme(cmd.flags.Config.TUI.Theme)).Run()
}
