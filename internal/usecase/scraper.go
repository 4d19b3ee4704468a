package usecase

import (
	"context"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/nrad-K/go-hh-agent/internal/config"
	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/domain/repository"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/logger"
)

// ScraperArgs holds the dependencies of the detail-page scraper.
type ScraperArgs struct {
	Cfg      config.AgentConfig
	Client   infra.BrowserClient
	Document infra.HTMLDocument
	Parser   *infra.VacancyParser
	Store    infra.VacancyStore
	Jobs     repository.ApplyJobRepository
	Logger   logger.AppLogger
}

// ScrapeVacanciesUseCase consumes the pending worklist, extracts a structured
// record from each detail page and rewrites the output artifact after every
// success, so a crash loses at most the in-flight item.
type ScrapeVacanciesUseCase struct {
	cfg      config.AgentConfig
	client   infra.BrowserClient
	document infra.HTMLDocument
	parser   *infra.VacancyParser
	store    infra.VacancyStore
	jobs     repository.ApplyJobRepository
	logger   logger.AppLogger
}

func NewScrapeVacanciesUseCase(args ScraperArgs) *ScrapeVacanciesUseCase {
	return &ScrapeVacanciesUseCase{
		cfg:      args.Cfg,
		client:   args.Client,
		document: args.Document,
		parser:   args.Parser,
		store:    args.Store,
		jobs:     args.Jobs,
		logger:   args.Logger,
	}
}

func (u *ScrapeVacanciesUseCase) Run(ctx context.Context) error {
	collection, err := u.store.Load()
	if err != nil {
		u.logger.Warn("could not load existing vacancy collection, starting empty", "error", err)
	}
	vacancies := collection.Vacancies

	existing := mapset.NewSet[string]()
	for _, v := range vacancies {
		existing.Add(v.ID)
	}

	jobs, err := u.jobs.FindListByStatus(ctx, model.ApplyJobStatusPending)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		u.logger.Info("no pending vacancies to scrape")
		return nil
	}
	u.logger.Info("scraping pending vacancies", "count", len(jobs))

	scraped := 0
	for i, job := range jobs {
		select {
		case <-ctx.Done():
			u.logger.Warn("scrape run cancelled", "processed", i)
			return ctx.Err()
		default:
		}

		if i > 0 {
			waitJitter(ctx, u.cfg.DelayMinMs, u.cfg.DelayMaxMs)
		}

		if existing.Contains(job.VacancyID) {
			u.finishJob(ctx, job)
			continue
		}

		u.logger.Info("scraping vacancy", "position", job.Position, "vacancy_id", job.VacancyID, "url", job.URL)

		if err := u.client.Navigate(job.URL); err != nil {
			u.logger.Warn("failed to open detail page, leaving item for a future run", "vacancy_id", job.VacancyID, "error", err)
			continue
		}

		html, err := u.client.GetHTML()
		if err != nil {
			u.logger.Warn("failed to capture page HTML, leaving item for a future run", "vacancy_id", job.VacancyID, "error", err)
			continue
		}

		vacancy := u.extractVacancy(html, job)
		vacancies = append(vacancies, vacancy)
		existing.Add(vacancy.ID)

		if err := u.store.Save(vacancies); err != nil {
			u.logger.Error("failed to persist vacancy collection", "error", err)
		}
		u.finishJob(ctx, job)
		scraped++
	}

	u.logger.Info("scrape run finished", "scraped", scraped, "total_in_collection", len(vacancies))
	return nil
}

// extractVacancy pulls every configured field out of the captured HTML.
// Each field is independently optional: an extraction failure is logged and
// leaves the field empty without affecting the rest of the record.
func (u *ScrapeVacanciesUseCase) extractVacancy(html string, job model.ApplyJob) model.Vacancy {
	fields := u.cfg.Fields

	vacancy := model.Vacancy{
		ID:       job.VacancyID,
		URL:      job.URL,
		ParsedAt: time.Now(),
	}

	vacancy.Title = u.extractFirst(html, fields.Title, "title")
	vacancy.Company = model.Company{
		Name: u.extractFirst(html, fields.CompanyName, "company_name"),
		URL:  u.extractFirst(html, fields.CompanyURL, "company_url"),
	}

	salaryText := u.extractFirst(html, fields.Salary, "salary")
	vacancy.Salary = u.parser.ParseSalary(salaryText)

	vacancy.Experience = u.extractFirst(html, fields.Experience, "experience")
	vacancy.Employment = u.extractFirst(html, fields.Employment, "employment")
	vacancy.Schedule = u.extractFirst(html, fields.Schedule, "schedule")
	vacancy.Location = u.extractFirst(html, fields.Location, "location")
	vacancy.Description = u.extractFirst(html, fields.Description, "description")
	vacancy.Skills = u.extractAll(html, fields.Skills, "skills")
	vacancy.PublishedAt = u.extractFirst(html, fields.PublishedAt, "published_at")

	contacts := model.Contacts{
		Name:   u.extractFirst(html, fields.ContactName, "contact_name"),
		Email:  u.extractFirst(html, fields.ContactEmail, "contact_email"),
		Phones: u.extractAll(html, fields.ContactPhones, "contact_phones"),
	}
	if contacts.Name != "" || contacts.Email != "" || len(contacts.Phones) > 0 {
		vacancy.Contacts = &contacts
	}

	return vacancy
}

// extractFirst returns the first extracted value for the selector, or ""
// when the field is absent or extraction fails.
func (u *ScrapeVacanciesUseCase) extractFirst(html string, cfg config.SelectorConfig, field string) string {
	values, err := u.extractValues(html, cfg)
	if err != nil {
		u.logger.Warn("field extraction failed", "field", field, "error", err)
		return ""
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// extractAll returns every non-empty extracted value for the selector.
func (u *ScrapeVacanciesUseCase) extractAll(html string, cfg config.SelectorConfig, field string) []string {
	values, err := u.extractValues(html, cfg)
	if err != nil {
		u.logger.Warn("field extraction failed", "field", field, "error", err)
		return nil
	}

	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// extractValues dispatches on the selector config: attribute extraction,
// regex extraction, or plain text.
func (u *ScrapeVacanciesUseCase) extractValues(html string, cfg config.SelectorConfig) ([]string, error) {
	if cfg.Attr != "" {
		return u.document.ExtractAttribute(html, cfg.Selector, cfg.Attr)
	}
	if cfg.Regex != "" {
		return u.document.ExtractTextByRegex(html, cfg.Selector, cfg.Regex)
	}
	return u.document.ExtractText(html, cfg.Selector)
}

// finishJob moves a job out of the pending queue. Failures are logged only:
// the worst case is re-visiting an already collected vacancy next run.
func (u *ScrapeVacanciesUseCase) finishJob(ctx context.Context, job model.ApplyJob) {
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
