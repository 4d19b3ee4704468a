package model

import "github.com/google/uuid"

type ApplyJobStatus string

const (
	ApplyJobStatusPending ApplyJobStatus = "PENDING"
	ApplyJobStatusDone    ApplyJobStatus = "DONE"
)

// ApplyJob is one entry of the deduplicated worklist. Position preserves the
// order in which the listing walk produced the item, so consumers can restore
// the original sequence after an unordered fetch.
type ApplyJob struct {
	ID        uuid.UUID
	VacancyID string
	URL       string
	Position  int
	Status    ApplyJobStatus
}

func NewApplyJob(vacancyID, url string, position int) ApplyJob {
	return ApplyJob{
		ID:        uuid.New(),
		VacancyID: vacancyID,
		URL:       url,
		Position:  position,
		Status:    ApplyJobStatusPending,
	}
}
