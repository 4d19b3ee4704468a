package repository

import (
	"context"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
)

type ApplyJobRepository interface {
	Save(ctx context.Context, job model.ApplyJob) error
	Delete(ctx context.Context, job model.ApplyJob) error
	// FindListByStatus returns jobs ordered by Position.
	FindListByStatus(ctx context.Context, status model.ApplyJobStatus) ([]model.ApplyJob, error)
}
