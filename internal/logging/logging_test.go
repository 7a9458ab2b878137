package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luy-todo/backend/internal/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, logging.ParseLevel("debug"))
	assert.Equal(t, log.WarnLevel, logging.ParseLevel("WARNING"))
	assert.Equal(t, log.ErrorLevel, logging.ParseLevel(" error "))
	assert.Equal(t, log.InfoLevel, logging.ParseLevel("verbose"))
	assert.Equal(t, log.InfoLevel, logging.ParseLevel(""))
}

func TestParseFormatter(t *testing.T) {
	assert.Equal(t, log.JSONFormatter, logging.ParseFormatter("json"))
	assert.Equal(t, log.LogfmtFormatter, logging.ParseFormatter("logfmt"))
	assert.Equal(t, log.TextFormatter, logging.ParseFormatter("pretty"))
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.Options{Level: "warn", Format: "json"})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Error("shown", "id", 2)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Contains(t, entry, "id")
}
