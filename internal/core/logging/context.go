package logging

import "context"

type contextKey string

const (
	commandKey contextKey = "command"
	scriptKey  contextKey = "script"
)

// WithCommand adds the running CLI command name to the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// WithScript adds the name of the replay script being run to the context.
func WithScript(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, scriptKey, name)
}

// GetCommand retrieves the command name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}

// GetScript retrieves the replay script name from the context.
// Returns empty string if not present.
func GetScript(ctx context.Context) string {
	if name, ok := ctx.Value(scriptKey).(string); ok {
		return name
	}
	return ""
}
