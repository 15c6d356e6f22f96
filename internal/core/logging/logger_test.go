package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestComponent(t *testing.T) {
	buf := captureGlobal(t)

	logger := Component("notify")
	logger.Info().Msg("notification shown")

	entry := decode(t, buf)
	assert.Equal(t, "notify", entry["cmp"])
	assert.Equal(t, "notification shown", entry["message"])
}

func TestComponentOr(t *testing.T) {
	t.Run("nil falls back to component", func(t *testing.T) {
		buf := captureGlobal(t)

		logger := ComponentOr(nil, "toast")
		logger.Info().Msg("hello")

		assert.Equal(t, "toast", decode(t, buf)["cmp"])
	})

	t.Run("override wins", func(t *testing.T) {
		global := captureGlobal(t)

		var own bytes.Buffer
		override := zerolog.New(&own).With().Str("cmp", "custom").Logger()

		logger := ComponentOr(&override, "toast")
		logger.Info().Msg("hello")

		assert.Empty(t, global.String())
		assert.Equal(t, "custom", decode(t, &own)["cmp"])
	})
}
