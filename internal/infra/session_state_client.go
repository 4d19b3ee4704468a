package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/domain/repository"
	"github.com/nrad-K/go-hh-agent/internal/logger"
)

// SessionStateRecord is the on-disk form of the session state.
type SessionStateRecord struct {
	AppliedVacancyIds []string `json:"appliedVacancyIds"`
	IgnoredVacancyIds []string `json:"ignoredVacancyIds"`
}

type sessionStateClient struct {
	path   string
	logger logger.AppLogger
}

// NewSessionStateClient returns a store persisting the session state as a
// JSON file at path.
func NewSessionStateClient(path string, log logger.AppLogger) repository.SessionStateRepository {
	return &sessionStateClient{
		path:   path,
		logger: log,
	}
}

// Load reads the persisted state. A missing file yields the empty state; a
// corrupt file is reported and also yields the empty state, because losing
// dedup history is recoverable while aborting the run is not.
func (c *sessionStateClient) Load(_ context.Context) *model.SessionState {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("failed to read session state, starting empty", "path", c.path, "error", err)
		}
		return model.NewSessionState()
	}

	var record SessionStateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		c.logger.Warn("session state file is corrupt, starting empty", "path", c.path, "error", err)
		return model.NewSessionState()
	}

	return model.ReconstructSessionState(record.AppliedVacancyIds, record.IgnoredVacancyIds)
}

// Save rewrites the state file, creating the directory if needed.
func (c *sessionStateClient) Save(_ context.Context, state *model.SessionState) error {
	record := SessionStateRecord{
		AppliedVacancyIds: state.AppliedIDs(),
		IgnoredVacancyIds: state.IgnoredIDs(),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}

	return nil
}
