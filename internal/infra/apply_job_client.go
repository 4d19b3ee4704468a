package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

// ApplyJobRecord is the wire form of an ApplyJob stored in Redis.
type ApplyJobRecord struct {
	ID        string `json:"id"`
	VacancyID string `json:"vacancy_id"`
	URL       string `json:"url"`
	Position  int    `json:"position"`
	Status    string `json:"status"`
}

func ToApplyJobRecord(job model.ApplyJob) ApplyJobRecord {
	return ApplyJobRecord{
		ID:        job.ID.String(),
		VacancyID: job.VacancyID,
		URL:       job.URL,
		Position:  job.Position,
		Status:    string(job.Status),
	}
}

func (r *ApplyJobRecord) ToDomain() (model.ApplyJob, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return model.ApplyJob{}, fmt.Errorf("invalid job id %q: %w", r.ID, err)
	}
	return model.ApplyJob{
		ID:        id,
		VacancyID: r.VacancyID,
		URL:       r.URL,
		Position:  r.Position,
		Status:    model.ApplyJobStatus(r.Status),
	}, nil
}

type applyJobClient struct {
	redis *redis.Client
}

// NewApplyJobClient returns a Redis-backed worklist. Keys embed the vacancy
// id, so saving the same vacancy twice overwrites rather than duplicates.
func NewApplyJobClient(rds *redis.Client) repository.ApplyJobRepository {
	return &applyJobClient{
		redis: rds,
	}
}

func (r *applyJobClient) Save(ctx context.Context, job model.ApplyJob) error {
	data, err := json.Marshal(ToApplyJobRecord(job))
	if err != nil {
		return fmt.Errorf("failed to marshal apply job: %w", err)
	}

	key, err := r.jobKey(job.Status, job.VacancyID)
	if err != nil {
		return err
	}

	if err := r.redis.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save apply job to redis: %w", err)
	}

	return nil
}

func (r *applyJobClient) Delete(ctx context.Context, job model.ApplyJob) error {
	key, err := r.jobKey(job.Status, job.VacancyID)
	if err != nil {
		return err
	}
	if err := r.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete apply job from redis: %w", err)
	}
	return nil
}

// FindListByStatus scans all jobs with the given status and returns them
// ordered by Position, restoring the sequence the listing walk produced.
func (r *applyJobClient) FindListByStatus(ctx context.Context, status model.ApplyJobStatus) ([]model.ApplyJob, error) {
	pattern, err := r.jobKey(status, "*")
	if err != nil {
		return nil, err
	}

	var jobs []model.ApplyJob
	var cursor uint64
	for {
		var keys []string
		keys, cursor, err = r.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan error: %w", err)
		}

		for _, key := range keys {
			value, err := r.redis.Get(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("redis get error for key %s: %w", key, err)
			}

			var record ApplyJobRecord
			if err := json.Unmarshal([]byte(value), &record); err != nil {
				return nil, fmt.Errorf("unmarshal error for key %s: %w", key, err)
			}
			job, err := record.ToDomain()
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
		}

		if cursor == 0 {
			break
		}
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].Position < jobs[j].Position
	})

	return jobs, nil
}

func (r *applyJobClient) jobKey(status model.ApplyJobStatus, vacancyID string) (string, error) {
	switch status {
	case model.ApplyJobStatusPending:
		return fmt.Sprintf("pending_vacancy:%s", vacancyID), nil
	case model.ApplyJobStatusDone:
		return fmt.Sprintf("done_vacancy:%s", vacancyID), nil
	default:
		return "", fmt.Errorf("unsupported job status for key generation: %s", status)
	}
}
