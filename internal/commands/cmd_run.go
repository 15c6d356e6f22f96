package commands

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/shoptoast/internal/core/logging"
	"github.com/hay-kot/shoptoast/internal/core/notify"
	"github.com/hay-kot/shoptoast/internal/core/styles"
	"github.com/hay-kot/shoptoast/internal/profiler"
	"github.com/hay-kot/shoptoast/internal/replay"
	"github.com/hay-kot/shoptoast/internal/tui"
	"github.com/hay-kot/shoptoast/internal/tui/toast"
	"github.com/hay-kot/shoptoast/pkg/logutils"
)

type RunCmd struct {
	flags *Flags

	// Command-specific flags
	autoplay    bool
	scripts     []string
	metricsPort int
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags}
}

// Flags returns the demo flags, registered on both the run command and the
// root command.
func (cmd *RunCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "autoplay",
			Usage:       "start the replay scripts when the demo opens",
			Sources:     cli.EnvVars("SHOPTOAST_AUTOPLAY"),
			Destination: &cmd.autoplay,
		},
		&cli.StringSliceFlag{
			Name:        "script",
			Aliases:     []string{"s"},
			Usage:       "replay script glob (overrides replay.scripts from the config)",
			Destination: &cmd.scripts,
		},
		&cli.IntFlag{
			Name:        "metrics-port",
			Usage:       "serve /metrics and pprof on the given port (overrides metrics.port)",
			Sources:     cli.EnvVars("SHOPTOAST_METRICS_PORT"),
			Destination: &cmd.metricsPort,
		},
	}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Open the interactive storefront notification demo",
		UsageText: "shoptoast run [options]",
		Description: `Opens a terminal storefront that raises notifications from key presses
and replay scripts and renders them as toasts in the lower-right corner.

Press s, e, i or w to raise a success, error, info or warning notification.
Pressing the same key again within the suppression window is a no-op.
Press d to dismiss the newest toast, x to dismiss all, r to replay scripts.

Run 'shoptoast' with no arguments to open the demo.`,
		Flags:  cmd.Flags(),
		Action: cmd.run,
	})
	return app
}

// Run executes the demo. Exported for use as default command.
func (cmd *RunCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *RunCmd) run(ctx context.Context, _ *cli.Command) error {
	ctx = logging.WithCommand(ctx, "run")
	cfg := cmd.flags.Config

	if cmd.flags.LogFile == "" {
		logger, closer, err := logutils.New(cmd.flags.LogLevel, DefaultLogFile())
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		defer closer()
		log.Logger = logger.Hook(logging.ContextHook{})
	}

	port := cmd.metricsPort
	if port == 0 {
		port = cfg.Metrics.Port
	}
	if port > 0 {
		srv := profiler.New(port, cmd.flags.Metrics.Handler())
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("failed to start debug server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown debug server")
			}
		}()
		log.Info().Ctx(ctx).
			Str("url", fmt.Sprintf("http://%s/metrics", srv.Addr())).
			Msg("metrics endpoint available")
	}

	patterns := cmd.scripts
	if len(patterns) == 0 {
		patterns = cfg.ScriptPatterns()
	}
	scripts, err := replay.Load(patterns)
	if err != nil {
		return fmt.Errorf("load replay scripts: %w", err)
	}

	queue := tui.NewCallbackQueue(nil)
	broadcaster := notify.New(notify.Options{
		Scheduler:         queue,
		SuppressionWindow: cfg.Toast.SuppressionWindow,
		LedgerExpiry:      cfg.Toast.LedgerExpiry,
		DefaultDuration:   cfg.Toast.DefaultDuration,
		Recorder:          cmd.flags.Metrics,
	})
	surface := toast.NewSurface(broadcaster, toast.Options{
		Scheduler:       queue,
		ExitDelay:       cfg.Toast.ExitDelay,
		DefaultDuration: cfg.Toast.DefaultDuration,
		OnTransition:    func(tr toast.Transition) { cmd.flags.Metrics.Transition(tr.To.String()) },
	})
	defer surface.Close()

	m := tui.New(tui.Options{
		Broadcaster: broadcaster,
		Surface:     surface,
		Queue:       queue,
		Palette:     styles.MustPalette(cfg.TUI.Theme),
		Scripts:     scripts,
		Autoplay:    cmd.autoplay,
	})

	log.Info().Ctx(ctx).Int("scripts", len(scripts)).Msg("starting demo")

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run demo: %w", err)
	}
	return nil
}
