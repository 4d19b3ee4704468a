package usecase

import (
	"context"
	"fmt"
	"net/url"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/nrad-K/go-hh-agent/internal/config"
	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/domain/repository"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/logger"
)

// CollectorArgs holds the dependencies of the listing collector.
type CollectorArgs struct {
	Cfg    config.AgentConfig
	Client infra.BrowserClient
	Parser *infra.VacancyParser
	Jobs   repository.ApplyJobRepository
	States repository.SessionStateRepository
	Logger logger.AppLogger
}

// CollectVacancyJobsUseCase walks the paginated search results, deduplicates
// the found vacancy links against each other and against the session state,
// and enqueues the remainder as the pending worklist.
type CollectVacancyJobsUseCase struct {
	cfg    config.AgentConfig
	client infra.BrowserClient
	parser *infra.VacancyParser
	jobs   repository.ApplyJobRepository
	states repository.SessionStateRepository
	logger logger.AppLogger
}

func NewCollectVacancyJobsUseCase(args CollectorArgs) *CollectVacancyJobsUseCase {
	return &CollectVacancyJobsUseCase{
		cfg:    args.Cfg,
		client: args.Client,
		parser: args.Parser,
		jobs:   args.Jobs,
		states: args.States,
		logger: args.Logger,
	}
}

// Run executes the collection phase. Only a failure to reach the search page
// is fatal; everything per-page is tolerated and logged.
func (u *CollectVacancyJobsUseCase) Run(ctx context.Context) error {
	state := u.states.Load(ctx)

	if err := u.client.Navigate(u.cfg.Listing.SearchURL); err != nil {
		return fmt.Errorf("failed to open search page %s: %w", u.cfg.Listing.SearchURL, err)
	}

	rawURLs := u.walkListingPages(ctx)
	u.logger.Info("listing walk finished", "raw_urls", len(rawURLs))

	worklist := u.buildWorklist(state, rawURLs)

	saved := 0
	for _, job := range worklist {
		if err := u.jobs.Save(ctx, job); err != nil {
			u.logger.Warn("failed to enqueue vacancy", "vacancy_id", job.VacancyID, "error", err)
			continue
		}
		saved++
	}

	u.logger.Info("worklist created", "new_items", saved, "skipped_known", len(rawURLs)-len(worklist))
	return nil
}

// walkListingPages accumulates all item hrefs across result pages, stopping
// at the page limit or when no next-page affordance remains. A wait timeout
// for the results container means slow rendering, not an error: the page is
// treated as empty.
func (u *CollectVacancyJobsUseCase) walkListingPages(ctx context.Context) []string {
	seen := mapset.NewSet[string]()
	ordered := make([]string, 0, 128)

	pageNum := 1
	for {
		select {
		case <-ctx.Done():
			u.logger.Warn("listing walk cancelled", "page", pageNum)
			return ordered
		default:
		}

		if err := u.client.WaitVisible(u.cfg.Listing.ResultsSelector); err != nil {
			u.logger.Warn("results container not visible, treating page as empty", "page", pageNum, "error", err)
		}

		base := u.cfg.Listing.SearchURL
		if current, err := u.client.CurrentURL(); err == nil {
			base = current.String()
		}

		links, err := u.client.ExtractAttribute(u.cfg.Listing.ItemLinksSelector, "href")
		if err != nil {
			u.logger.Warn("failed to extract item links", "page", pageNum, "error", err)
		}

		added := 0
		for _, link := range links {
			resolved, err := resolveURL(base, link)
			if err != nil {
				u.logger.Warn("failed to resolve item link", "link", link, "error", err)
				continue
			}
			if seen.Add(resolved) {
				ordered = append(ordered, resolved)
				added++
			}
		}
		u.logger.Info("processed listing page", "page", pageNum, "new_links", added)

		if u.cfg.Listing.MaxPages > 0 && pageNum >= u.cfg.Listing.MaxPages {
			u.logger.Info("page limit reached", "max_pages", u.cfg.Listing.MaxPages)
			break
		}

		hasNext, err := u.client.Exists(u.cfg.Listing.NextPageSelector)
		if err != nil {
			u.logger.Warn("failed to probe next-page affordance", "page", pageNum, "error", err)
			break
		}
		if !hasNext {
			u.logger.Info("no further pages", "page", pageNum)
			break
		}

		if err := u.client.Click(u.cfg.Listing.NextPageSelector); err != nil {
			u.logger.Warn("failed to advance to next page", "page", pageNum, "error", err)
			break
		}
		pageNum++
	}

	return ordered
}

// buildWorklist maps raw URLs to vacancy ids, drops URLs without an
// extractable id, drops ids already decided in a previous run, and collapses
// the remainder to one job per id in first-seen order. This is the
// idempotence boundary: re-running the pipeline never re-surfaces an already
// decided vacancy.
func (u *CollectVacancyJobsUseCase) buildWorklist(state *model.SessionState, rawURLs []string) []model.ApplyJob {
	claimed := mapset.NewSet[string]()
	worklist := make([]model.ApplyJob, 0, len(rawURLs))

	for _, raw := range rawURLs {
		id, ok := u.parser.ParseVacancyID(raw)
		if !ok {
			u.logger.Warn("no vacancy id in URL, skipping", "url", raw)
			continue
		}
		if state.IsKnown(id) {
			continue
		}
		if !claimed.Add(id) {
			continue
		}
		worklist = append(worklist, model.NewApplyJob(id, raw, len(worklist)+1))
	}

	return worklist
}

// resolveURL resolves target against base, returning absolute URLs as-is.
func resolveURL(baseURL, targetURL string) (string, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse target URL %s: %w", targetURL, err)
	}

	if parsed.IsAbs() {
		return parsed.String(), nil
	}

	parsedBase, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL %s: %w", baseURL, err)
	}

	return parsedBase.ResolveReference(parsed).String(), nil
}
