package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/shoptoast/internal/core/logging"
	"github.com/hay-kot/shoptoast/internal/printer"
	"github.com/hay-kot/shoptoast/internal/replay"
	"github.com/hay-kot/shoptoast/internal/simulate"
	"github.com/hay-kot/shoptoast/pkg/iojson"
)

type SimulateCmd struct {
	flags *Flags
	fr    *iojson.FileReader[replay.Script]

	// Command-specific flags
	scripts []string
	format  string
}

// NewSimulateCmd creates a new simulate command
func NewSimulateCmd(flags *Flags) *SimulateCmd {
	return &SimulateCmd{flags: flags, fr: &iojson.FileReader[replay.Script]{}}
}

// Register adds the simulate command to the application
func (cmd *SimulateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "simulate",
		Usage:     "Replay scripts on a virtual clock and print the toast timeline",
		UsageText: "shoptoast simulate [options]",
		Description: `Runs replay scripts against the notification broadcaster and toast surface
without a terminal UI. Time is simulated, so the command finishes instantly and
the timeline is deterministic.

Scripts are taken from --script globs, then from a JSON script given with
--file or piped on stdin, then from replay.scripts in the config.

Example:
  shoptoast simulate --script 'scripts/*.yaml'
  echo '{"name":"x","steps":[{"after":"0s","message":"hi","category":"info"}]}' | shoptoast simulate --format json`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "script",
				Aliases:     []string{"s"},
				Usage:       "replay script glob (repeatable)",
				Destination: &cmd.scripts,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			cmd.fr.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SimulateCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "simulate")

	scripts, err := cmd.loadScripts()
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		return fmt.Errorf("no replay scripts found; pass --script, --file or set replay.scripts in the config")
	}

	for _, s := range scripts {
		log.Debug().Ctx(logging.WithScript(ctx, s.Name)).
			Int("steps", len(s.Steps)).
			Dur("span", s.Span()).
			Msg("simulating script")
	}

	cfg := cmd.flags.Config
	events := simulate.Run(scripts, simulate.Options{
		SuppressionWindow: cfg.Toast.SuppressionWindow,
		LedgerExpiry:      cfg.Toast.LedgerExpiry,
		DefaultDuration:   cfg.Toast.DefaultDuration,
		ExitDelay:         cfg.Toast.ExitDelay,
		Recorder:          cmd.flags.Metrics,
	})

	if cmd.format == "json" {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, events)
	}

	printTimeline(c.Root().Writer, events)

	shown, suppressed := 0, 0
	for _, ev := range events {
		switch ev.Kind {
		case simulate.KindShown:
			shown++
		case simulate.KindSuppressed:
			suppressed++
		}
	}

	p := printer.Ctx(ctx)
	p.Printf("")
	p.Successf("%d shown, %d suppressed across %d script(s)", shown, suppressed, len(scripts))
	return nil
}

func (cmd *SimulateCmd) loadScripts() ([]replay.Script, error) {
	if len(cmd.scripts) > 0 {
		return replay.Load(cmd.scripts)
	}

	if cmd.fr.Provided() {
		s, err := cmd.fr.Read()
		if err != nil {
			return nil, err
		}
		if s.Name == "" {
			s.Name = "stdin"
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid script: %w", err)
		}
		return []replay.Script{s}, nil
	}

	return replay.Load(cmd.flags.Config.ScriptPatterns())
}

func printTimeline(w io.Writer, events []simulate.Event) {
	for _, ev := range events {
		at := fmt.Sprintf("+%.3fs", ev.Offset.Seconds())
		switch ev.Kind {
		case simulate.KindShown:
			_, _ = fmt.Fprintf(w, "%9s  shown       #%d %-8s %s  [%s]\n", at, ev.ID, ev.Category, ev.Message, ev.Script)
		case simulate.KindSuppressed:
			_, _ = fmt.Fprintf(w, "%9s  suppressed     %-8s %s  [%s]\n", at, ev.Category, ev.Message, ev.Script)
		case simulate.KindPhase:
			_, _ = fmt.Fprintf(w, "%9s  %-11s #%d %s -> %s\n", at, "phase", ev.ID, ev.From, ev.To)
		}
	}
}
