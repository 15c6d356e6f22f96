package commands

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/shoptoast/internal/core/config"
	"github.com/hay-kot/shoptoast/internal/printer"
	"github.com/hay-kot/shoptoast/internal/replay"
	"github.com/hay-kot/shoptoast/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "shoptoast config validate [options]",
				Description: "Validates the configuration file, its toast timings, theme and the replay scripts it references.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// ValidationIssue is one failed check, keyed by the field that failed.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating the config and its scripts.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Scripts int               `json:"scripts"`
	Errors  []ValidationIssue `json:"errors,omitempty"`
}

// validateConfig checks the config file, the loaded values, and every replay
// script the config references.
func validateConfig(configPath string, cfg *config.Config) ValidationResult {
	var result ValidationResult

	add := func(scope string, err error) {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				field := fe.Field
				if scope != "" {
					field = scope + ": " + field
				}
				result.Errors = append(result.Errors, ValidationIssue{Field: field, Message: fe.Err.Error()})
			}
			return
		}
		result.Errors = append(result.Errors, ValidationIssue{Field: scope, Message: err.Error()})
	}

	if err := config.ValidateFile(configPath); err != nil {
		add("", err)
	}
	if err := cfg.Validate(); err != nil {
		add("", err)
	}

	paths, err := replay.Glob(cfg.ScriptPatterns())
	if err != nil {
		add("replay.scripts", err)
	}
	for _, path := range paths {
		if _, err := replay.ParseFile(path); err != nil {
			add(path, err)
			continue
		}
		result.Scripts++
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	result := validateConfig(cmd.flags.ConfigPath, cmd.flags.Config)

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result); err != nil {
			return err
		}
		if !result.Valid {
			return cli.Exit("", 1)
		}
		return nil
	}

	return outputValidationText(printer.Ctx(ctx), result)
}

func outputValidationText(p *printer.Printer, result ValidationResult) error {
	for _, issue := range result.Errors {
		p.Errorf("%s: %s", issue.Field, issue.Message)
	}

	if result.Valid {
		p.Successf("Configuration is valid (%d replay script(s))", result.Scripts)
		return nil
	}

	p.Printf("")
	p.Errorf("%d error(s) found", len(result.Errors))
	return cli.Exit("", 1)
}
