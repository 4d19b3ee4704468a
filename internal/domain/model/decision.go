package model

// Decision is the terminal outcome the apply pipeline assigns to one vacancy.
type Decision string

const (
	DecisionAlreadyApplied      Decision = "already_applied"
	DecisionSubmitted           Decision = "submitted"
	DecisionSurveyRequired      Decision = "survey_required"
	DecisionCoverLetterRequired Decision = "cover_letter_required"
	DecisionUnexpectedState     Decision = "unexpected_state"
)

// IgnoreReason maps a decision onto its ledger reason. ok is false for
// decisions that do not ignore the vacancy.
func (d Decision) IgnoreReason() (IgnoreReason, bool) {
	switch d {
	case DecisionSurveyRequired:
		return SurveyRequired, true
	case DecisionCoverLetterRequired:
		return CoverLetterRequired, true
	case DecisionUnexpectedState:
		return UnexpectedState, true
	default:
		return "", false
	}
}
