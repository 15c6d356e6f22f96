package commands

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// scrape returns the text exposition of the command metrics.
func scrape(t *testing.T, flags *Flags) string {
	t.Helper()
	rec := httptest.NewRecorder()
	flags.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}
