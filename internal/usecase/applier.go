package usecase

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/nrad-K/go-hh-agent/internal/config"
	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/domain/repository"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/logger"
)

// ApplierArgs holds the dependencies of the apply pipeline.
type ApplierArgs struct {
	Cfg    config.AgentConfig
	Client infra.BrowserClient
	Jobs   repository.ApplyJobRepository
	States repository.SessionStateRepository
	Ledger infra.IgnoredLedgerStore
	Logger logger.AppLogger
}

// ApplyVacanciesUseCase classifies each pending vacancy into exactly one
// terminal outcome and flushes session state and the ignored ledger after
// every item, so a crash loses at most the in-flight classification.
type ApplyVacanciesUseCase struct {
	cfg    config.AgentConfig
	client infra.BrowserClient
	jobs   repository.ApplyJobRepository
	states repository.SessionStateRepository
	ledger infra.IgnoredLedgerStore
	logger logger.AppLogger
}

func NewApplyVacanciesUseCase(args ApplierArgs) *ApplyVacanciesUseCase {
	return &ApplyVacanciesUseCase{
		cfg:    args.Cfg,
		client: args.Client,
		jobs:   args.Jobs,
		states: args.States,
		ledger: args.Ledger,
		logger: args.Logger,
	}
}

func (u *ApplyVacanciesUseCase) Run(ctx context.Context) error {
	state := u.states.Load(ctx)

	var entries []model.IgnoredVacancy
	if u.cfg.LedgerMode == config.LedgerCumulative {
		loaded, err := u.ledger.Load()
		if err != nil {
			u.logger.Warn("could not load existing ignored ledger, starting empty", "error", err)
		}
		entries = loaded
	}
	ledgerIDs := mapset.NewSet[string]()
	for _, e := range entries {
		ledgerIDs.Add(e.ID)
	}

	jobs, err := u.jobs.FindListByStatus(ctx, model.ApplyJobStatusPending)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		u.logger.Info("no pending vacancies to classify")
		return nil
	}
	u.logger.Info("classifying pending vacancies", "count", len(jobs))

	outcomes := make(map[model.Decision]int)
	for i, job := range jobs {
		select {
		case <-ctx.Done():
			u.logger.Warn("apply run cancelled", "processed", i)
			return ctx.Err()
		default:
		}

		if i > 0 {
			waitJitter(ctx, u.cfg.DelayMinMs, u.cfg.DelayMaxMs)
		}

		u.logger.Info("processing vacancy", "position", job.Position, "vacancy_id", job.VacancyID, "url", job.URL)

		if err := u.client.Navigate(job.URL); err != nil {
			// Transient load failures are never recorded as a
			// classification; the item stays eligible for the next run.
			u.logger.Warn("failed to open vacancy page, leaving item for a future run", "vacancy_id", job.VacancyID, "error", err)
			continue
		}

		decision, err := u.classify()
		if err != nil {
			u.logger.Warn("failed to probe page state, leaving item for a future run", "vacancy_id", job.VacancyID, "error", err)
			continue
		}

		entries, err = u.settle(ctx, job, decision, state, entries, ledgerIDs)
		if err != nil {
			u.logger.Warn("could not settle vacancy, leaving item for a future run", "vacancy_id", job.VacancyID, "error", err)
			continue
		}
		outcomes[decision]++

		// Flush durable state before moving on: state after a crash must
		// equal state after the last settled item.
		if err := u.states.Save(ctx, state); err != nil {
			u.logger.Error("failed to persist session state", "error", err)
		}
		if err := u.ledger.Save(entries); err != nil {
			u.logger.Error("failed to persist ignored ledger", "error", err)
		}
		u.finishJob(ctx, job)

		u.logger.Info("vacancy settled", "vacancy_id", job.VacancyID, "decision", string(decision))
	}

	u.logger.Info("apply run finished",
		"submitted", outcomes[model.DecisionSubmitted],
		"already_applied", outcomes[model.DecisionAlreadyApplied],
		"survey_required", outcomes[model.DecisionSurveyRequired],
		"cover_letter_required", outcomes[model.DecisionCoverLetterRequired],
		"unexpected_state", outcomes[model.DecisionUnexpectedState],
	)
	return nil
}

// classify probes the page-state conditions in fixed priority order and
// returns the first match. The order is a correctness requirement: the
// conditions are not mutually exclusive in the underlying UI.
func (u *ApplyVacanciesUseCase) classify() (model.Decision, error) {
	probes := []struct {
		selector string
		decision model.Decision
	}{
		{u.cfg.Apply.AlreadyApplied, model.DecisionAlreadyApplied},
		{u.cfg.Apply.SurveyFrame, model.DecisionSurveyRequired},
		{u.cfg.Apply.CoverLetter, model.DecisionCoverLetterRequired},
		{u.cfg.Apply.SubmitButton, model.DecisionSubmitted},
	}

	for _, probe := range probes {
		present, err := u.client.Exists(probe.selector)
		if err != nil {
			return "", fmt.Errorf("failed to probe %s: %w", probe.selector, err)
		}
		if present {
			return probe.decision, nil
		}
	}

	return model.DecisionUnexpectedState, nil
}

// settle applies the side effects of a decision and returns the updated
// ledger entries. An error means the item reached no terminal outcome and
// must stay pending.
func (u *ApplyVacanciesUseCase) settle(
	ctx context.Context,
	job model.ApplyJob,
	decision model.Decision,
	state *model.SessionState,
	entries []model.IgnoredVacancy,
	ledgerIDs mapset.Set[string],
) ([]model.IgnoredVacancy, error) {
	switch decision {
	case model.DecisionAlreadyApplied:
		if !state.MarkApplied(job.VacancyID) {
			u.logger.Warn("vacancy already recorded as ignored, keeping prior decision", "vacancy_id", job.VacancyID)
		}
		return entries, nil

	case model.DecisionSubmitted:
		if err := u.client.Click(u.cfg.Apply.SubmitButton); err != nil {
			return entries, fmt.Errorf("failed to submit application: %w", err)
		}
		if !state.MarkApplied(job.VacancyID) {
			u.logger.Warn("vacancy already recorded as ignored, keeping prior decision", "vacancy_id", job.VacancyID)
		}
		return entries, nil

	default:
		reason, ok := decision.IgnoreReason()
		if !ok {
			return entries, fmt.Errorf("unsupported decision: %s", decision)
		}

		if decision == model.DecisionSurveyRequired {
			// Best effort: the survey dialog blocks the page but its
			// dismissal is cosmetic.
			if err := u.client.Click(u.cfg.Apply.DialogClose); err != nil {
				u.logger.Warn("failed to dismiss blocking dialog", "vacancy_id", job.VacancyID, "error", err)
			}
		}

		if !state.MarkIgnored(job.VacancyID) {
			u.logger.Warn("vacancy already recorded as applied, keeping prior decision", "vacancy_id", job.VacancyID)
			return entries, nil
		}

		if ledgerIDs.Add(job.VacancyID) {
			entries = append(entries, model.IgnoredVacancy{
				ID:     job.VacancyID,
				URL:    job.URL,
				Title:  u.extractTitle(),
				Reason: reason,
			})
		}
		return entries, nil
	}
}

// extractTitle reads the vacancy title off the current page for the ledger
// entry, best effort.
func (u *ApplyVacanciesUseCase) extractTitle() string {
	titles, err := u.client.ExtractText(u.cfg.Fields.Title.Selector)
	if err != nil || len(titles) == 0 {
		return ""
	}
	return titles[0]
}

// finishJob moves a settled job out of the pending queue.
func (u *ApplyVacanciesUseCase) finishJob(ctx context.Context, job model.ApplyJob) {
	if err := u.jobs.Delete(ctx, job); err != nil {
		u.logger.Warn("failed to remove job from queue", "vacancy_id", job.VacancyID, "error", err)
		return
	}
	done := job
	done.Status = model.ApplyJobStatusDone
	if err := u.jobs.Save(ctx, done); err != nil {
		u.logger.Warn("failed to record finished job", "vacancy_id", job.VacancyID, "error", err)
	}
}
