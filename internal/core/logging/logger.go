package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// ComponentOr returns *override when it is set and a Component logger for
// name otherwise. Constructors taking an optional logger use it.
func ComponentOr(override *zerolog.Logger, name string) zerolog.Logger {
	if override != nil {
		return *override
	}
	return Component(name)
}
