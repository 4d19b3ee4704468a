package model

type IgnoreReason string

const (
	SurveyRequired      IgnoreReason = "survey_required"
	CoverLetterRequired IgnoreReason = "cover_letter_required"
	UnexpectedState     IgnoreReason = "unexpected_state"
)

// IgnoredVacancy is one ledger entry for a vacancy that was deliberately
// skipped and handed over to a human.
type IgnoredVacancy struct {
	ID     string       `json:"id"`
	URL    string       `json:"url"`
	Title  string       `json:"title"`
	Reason IgnoreReason `json:"reason"`
}
