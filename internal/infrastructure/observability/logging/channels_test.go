package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferedLogger(t *testing.T, level slog.Level) (*ChanneledLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := NewChanneledLogger(&LoggerConfig{
		Output:       buf,
		JSONFormat:   true,
		DefaultLevel: level,
	})
	require.NoError(t, err)
	return logger, buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestChannelAttribute(t *testing.T) {
	logger, buf := bufferedLogger(t, slog.LevelDebug)
	logger.Editor().Info("Node moved", "nodeId", "abc")

	entry := lastLine(t, buf)
	assert.Equal(t, "editor", entry["channel"])
	assert.Equal(t, "Node moved", entry["msg"])
	assert.Equal(t, "abc", entry["nodeId"])
}

func TestSetChannelLevel(t *testing.T) {
	logger, buf := bufferedLogger(t, slog.LevelInfo)
	logger.Render().Debug("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, logger.SetChannelLevel(ChannelRender, slog.LevelDebug))
	logger.Render().Debug("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Equal(t, "DEBUG", logger.GetChannelLevels()["render"])

	assert.Error(t, logger.SetChannelLevel("nope", slog.LevelDebug))
}

func TestUnknownChannelFallsBackToSystem(t *testing.T) {
	logger, buf := bufferedLogger(t, slog.LevelInfo)
	logger.GetChannel("missing").Info("hello")
	assert.Equal(t, "system", lastLine(t, buf)["channel"])
}

func TestLogHelpers(t *testing.T) {
	logger, buf := bufferedLogger(t, slog.LevelDebug)

	logger.LogAuthOperation("login", "editor@example.com", false, map[string]any{"reason": "bad password"})
	entry := lastLine(t, buf)
	assert.Equal(t, "ed****om", entry["subject"])
	assert.Equal(t, "WARN", entry["level"])

	logger.LogError(ChannelDatabase, "save", errors.New("disk full"), nil)
	entry = lastLine(t, buf)
	assert.Equal(t, "disk full", entry["error"])

	logger.LogSlowQuery("SELECT\n\t*  FROM page_documents", 0)
	assert.Equal(t, "SELECT * FROM page_documents", lastLine(t, buf)["query"])
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Editor().Error("dropped") })
}
