package infra_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() logger.AppLogger {
	return logger.NewAppLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSessionStateClient_LoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session_state.json")
	client := infra.NewSessionStateClient(path, discardLogger())

	state := client.Load(context.Background())

	require.NotNil(t, state)
	assert.Empty(t, state.AppliedIDs())
	assert.Empty(t, state.IgnoredIDs())
}

func TestSessionStateClient_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session_state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	client := infra.NewSessionStateClient(path, discardLogger())

	state := client.Load(context.Background())

	require.NotNil(t, state)
	assert.Empty(t, state.AppliedIDs())
	assert.Empty(t, state.IgnoredIDs())
}

func TestSessionStateClient_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out", "session_state.json")
	client := infra.NewSessionStateClient(path, discardLogger())

	state := model.NewSessionState()
	require.True(t, state.MarkApplied("11"))
	require.True(t, state.MarkApplied("12"))
	require.True(t, state.MarkIgnored("13"))

	require.NoError(t, client.Save(ctx, state))

	loaded := client.Load(ctx)
	assert.Equal(t, []string{"11", "12"}, loaded.AppliedIDs())
	assert.Equal(t, []string{"13"}, loaded.IgnoredIDs())
}

func TestSessionStateClient_LoadLegacyConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session_state.json")
	payload := `{"appliedVacancyIds":["1"],"ignoredVacancyIds":["1","2"]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))
	client := infra.NewSessionStateClient(path, discardLogger())

	state := client.Load(context.Background())

	assert.True(t, state.IsApplied("1"))
	assert.False(t, state.IsIgnored("1"))
	assert.True(t, state.IsIgnored("2"))
}
