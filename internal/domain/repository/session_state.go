package repository

import (
	"context"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
)

// SessionStateRepository persists the durable decision record between runs.
// Load never fails outward: a missing or unreadable file yields the empty
// state, since losing dedup history is recoverable while aborting the run is
// not. Save is best-effort; a failure is reported to the caller but the
// in-memory state stays authoritative.
type SessionStateRepository interface {
	Load(ctx context.Context) *model.SessionState
	Save(ctx context.Context, state *model.SessionState) error
}
