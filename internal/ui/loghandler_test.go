package ui_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/extsort/internal/ui"
)

// failingHandler accepts every level and fails every record.
type failingHandler struct {
	err   error
	calls int
}

func (h *failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *failingHandler) Handle(context.Context, slog.Record) error {
	h.calls++
	return h.err
}

func (h *failingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *failingHandler) WithGroup(string) slog.Handler      { return h }

func decodeJSONLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var recs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		recs = append(recs, rec)
	}
	return recs
}

func TestMultiHandler_TeesTextAndJSON(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	logger := slog.New(ui.NewMultiHandler(
		slog.NewTextHandler(&text, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&js, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))
	logger.Info("copied", "src", "a/b.txt", "dst", "out/txt/b.txt")

	assert.Contains(t, text.String(), "msg=copied")
	assert.Contains(t, text.String(), "src=a/b.txt")

	recs := decodeJSONLines(t, &js)
	require.Len(t, recs, 1)
	assert.Equal(t, "copied", recs[0]["msg"])
	assert.Equal(t, "out/txt/b.txt", recs[0]["dst"])
}

// The quiet terminal keeps warnings only while the log file gets debug.
func TestMultiHandler_PerHandlerLevels(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	logger := slog.New(ui.NewMultiHandler(
		slog.NewTextHandler(&text, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&js, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))
	logger.Debug("created directory", "dir", "out/txt")
	logger.Error("copy failed", "src", "x.bin")

	assert.NotContains(t, text.String(), "created directory")
	assert.Contains(t, text.String(), "copy failed")

	recs := decodeJSONLines(t, &js)
	require.Len(t, recs, 2)
	assert.Equal(t, "created directory", recs[0]["msg"])
	assert.Equal(t, "copy failed", recs[1]["msg"])
}

func TestMultiHandler_Enabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := ui.NewMultiHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	assert.False(t, m.Enabled(ctx, slog.LevelInfo))
	assert.True(t, m.Enabled(ctx, slog.LevelWarn))
	assert.True(t, m.Enabled(ctx, slog.LevelError))
	assert.False(t, ui.NewMultiHandler().Enabled(ctx, slog.LevelError))
}

func TestMultiHandler_JoinsHandlerErrors(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("disk full")
	errPipe := errors.New("broken pipe")
	first := &failingHandler{err: errDisk}
	second := &failingHandler{err: errPipe}
	var buf bytes.Buffer
	m := ui.NewMultiHandler(first, slog.NewTextHandler(&buf, nil), second)

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "copied", 0)
	err := m.Handle(context.Background(), rec)

	require.Error(t, err)
	require.ErrorIs(t, err, errDisk)
	require.ErrorIs(t, err, errPipe)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Contains(t, buf.String(), "msg=copied", "a failing handler does not starve the others")
}

func TestMultiHandler_NoErrorWhenAllSucceed(t *testing.T) {
	t.Parallel()

	m := ui.NewMultiHandler(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "scan complete", 0)
	assert.NoError(t, m.Handle(context.Background(), rec))
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	m := ui.NewMultiHandler(
		slog.NewTextHandler(&text, nil),
		slog.NewJSONHandler(&js, nil),
	)
	logger := slog.New(m.WithAttrs([]slog.Attr{slog.String("component", "copier")}))
	logger.Info("hello")

	assert.Contains(t, text.String(), "component=copier")
	recs := decodeJSONLines(t, &js)
	require.Len(t, recs, 1)
	assert.Equal(t, "copier", recs[0]["component"])
}

func TestMultiHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var js bytes.Buffer
	m := ui.NewMultiHandler(slog.NewJSONHandler(&js, nil))
	logger := slog.New(m.WithGroup("extsort"))
	logger.Info("event", "type", "FileCopied")

	recs := decodeJSONLines(t, &js)
	require.Len(t, recs, 1)
	group, ok := recs[0]["extsort"].(map[string]any)
	require.True(t, ok, "expected group extsort in JSON output")
	assert.Equal(t, "FileCopied", group["type"])
}
