package usecase_test

import (
	"context"
	"testing"

	"github.com/nrad-K/go-hh-agent/internal/config"
	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scraperFieldConfig() config.FieldSelectors {
	return config.FieldSelectors{
		Title:         config.SelectorConfig{Selector: "h1.title"},
		CompanyName:   config.SelectorConfig{Selector: "a.company"},
		CompanyURL:    config.SelectorConfig{Selector: "a.company", Attr: "href"},
		Salary:        config.SelectorConfig{Selector: "span.salary"},
		Experience:    config.SelectorConfig{Selector: "span.experience"},
		Employment:    config.SelectorConfig{Selector: "p.employment"},
		Schedule:      config.SelectorConfig{Selector: "p.schedule"},
		Location:      config.SelectorConfig{Selector: "p.location"},
		Description:   config.SelectorConfig{Selector: "div.description"},
		Skills:        config.SelectorConfig{Selector: "li.skill"},
		ContactName:   config.SelectorConfig{Selector: "p.contact-name"},
		ContactEmail:  config.SelectorConfig{Selector: "a.contact-email"},
		ContactPhones: config.SelectorConfig{Selector: "p.contact-phone"},
		PublishedAt:   config.SelectorConfig{Selector: "p.published"},
	}
}

func newScraper(cfg config.AgentConfig, browser *fakeBrowser, doc *fakeDocument, store *fakeVacancyStore, jobs *fakeJobRepo) *usecase.ScrapeVacanciesUseCase {
	return usecase.NewScrapeVacanciesUseCase(usecase.ScraperArgs{
		Cfg:      cfg,
		Client:   browser,
		Document: doc,
		Parser:   newTestParser(),
		Store:    store,
		Jobs:     jobs,
		Logger:   discardLogger(),
	})
}

func TestScraper_ExtractsStructuredRecord(t *testing.T) {
	cfg := testAgentConfig()
	cfg.Fields = scraperFieldConfig()
	browser := newFakeBrowser()
	doc := &fakeDocument{
		texts: map[string][]string{
			"h1.title":        {"Go Developer"},
			"a.company":       {"Acme"},
			"span.salary":     {"от 100000 до 150000 руб."},
			"span.experience": {"1–3 года"},
			"p.employment":    {"Полная занятость"},
			"p.schedule":      {"Удаленная работа"},
			"p.location":      {"Москва"},
			"div.description": {"Разработка сервисов на Go"},
			"li.skill":        {"Go", "PostgreSQL", " "},
			"p.contact-name":  {"Анна"},
			"p.contact-phone": {"+7 900 000-00-00"},
			"p.published":     {"1 августа 2026"},
		},
		attrs: map[string][]string{
			"a.company": {"https://hh.ru/employer/7"},
		},
	}
	store := &fakeVacancyStore{}
	jobs := newFakeJobRepo()
	require.NoError(t, jobs.Save(context.Background(), model.NewApplyJob("12345", "https://hh.ru/vacancy/12345", 1)))

	require.NoError(t, newScraper(cfg, browser, doc, store, jobs).Run(context.Background()))

	require.Len(t, store.vacancies, 1)
	v := store.vacancies[0]
	assert.Equal(t, "12345", v.ID)
	assert.Equal(t, "Go Developer", v.Title)
	assert.Equal(t, "Acme", v.Company.Name)
	assert.Equal(t, "https://hh.ru/employer/7", v.Company.URL)
	require.NotNil(t, v.Salary)
	require.NotNil(t, v.Salary.From)
	require.NotNil(t, v.Salary.To)
	assert.Equal(t, 100000, *v.Salary.From)
	assert.Equal(t, 150000, *v.Salary.To)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, v.Skills, "blank skill entries are dropped")
	require.NotNil(t, v.Contacts)
	assert.Equal(t, "Анна", v.Contacts.Name)
	assert.False(t, v.ParsedAt.IsZero())

	pending, err := jobs.FindListByStatus(context.Background(), model.ApplyJobStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
	done, err := jobs.FindListByStatus(context.Background(), model.ApplyJobStatusDone)
	require.NoError(t, err)
	assert.Len(t, done, 1)
}

func TestScraper_MissingFieldsStayEmpty(t *testing.T) {
	cfg := testAgentConfig()
	cfg.Fields = scraperFieldConfig()
	browser := newFakeBrowser()
	doc := &fakeDocument{texts: map[string][]string{"h1.title": {"Go Developer"}}}
	store := &fakeVacancyStore{}
	jobs := newFakeJobRepo()
	require.NoError(t, jobs.Save(context.Background(), model.NewApplyJob("1", "https://hh.ru/vacancy/1", 1)))

	require.NoError(t, newScraper(cfg, browser, doc, store, jobs).Run(context.Background()))

	require.Len(t, store.vacancies, 1)
	v := store.vacancies[0]
	assert.Equal(t, "Go Developer", v.Title)
	assert.Empty(t, v.Company.Name)
	assert.Nil(t, v.Salary, "a blank salary string yields no salary")
	assert.Nil(t, v.Contacts, "contacts are omitted when every contact field is empty")
}

func TestScraper_SkipsAlreadyCollectedVacancies(t *testing.T) {
	cfg := testAgentConfig()
	cfg.Fields = scraperFieldConfig()
	browser := newFakeBrowser()
	doc := &fakeDocument{texts: map[string][]string{"h1.title": {"New"}}}
	store := &fakeVacancyStore{vacancies: []model.Vacancy{{ID: "1", Title: "Old"}}}
	jobs := newFakeJobRepo()
	require.NoError(t, jobs.Save(context.Background(), model.NewApplyJob("1", "https://hh.ru/vacancy/1", 1)))
	require.NoError(t, jobs.Save(context.Background(), model.NewApplyJob("2", "https://hh.ru/vacancy/2", 2)))

	require.NoError(t, newScraper(cfg, browser, doc, store, jobs).Run(context.Background()))

	require.Len(t, store.vacancies, 2)
	assert.Equal(t, "Old", store.vacancies[0].Title, "the existing record is never overwritten")
	assert.Equal(t, "2", store.vacancies[1].ID)
	assert.NotContains(t, browser.navigations, "https://hh.ru/vacancy/1")

	pending, err := jobs.FindListByStatus(context.Background(), model.ApplyJobStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending, "duplicate jobs are still drained from the queue")
}

func TestScraper_NavigationFailureLeavesItemPending(t *testing.T) {
	cfg := testAgentConfig()
	cfg.Fields = scraperFieldConfig()
	browser := newFakeBrowser()
	browser.navErrs["https://hh.ru/vacancy/1"] = assert.AnError
	doc := &fakeDocument{}
	store := &fakeVacancyStore{}
	jobs := newFakeJobRepo()
	require.NoError(t, jobs.Save(context.Background(), model.NewApplyJob("1", "https://hh.ru/vacancy/1", 1)))

	require.NoError(t, newScraper(cfg, browser, doc, store, jobs).Run(context.Background()))

	assert.Empty(t, store.vacancies)
	pending, err := jobs.FindListByStatus(context.Background(), model.ApplyJobStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestScraper_SavesAfterEveryVacancy(t *testing.T) {
	cfg := testAgentConfig()
	cfg.Fields = scraperFieldConfig()
	browser := newFakeBrowser()
	doc := &fakeDocument{texts: map[string][]string{"h1.title": {"Role"}}}
	store := &fakeVacancyStore{}
	jobs := newFakeJobRepo()
	for i, id := range []string{"1", "2", "3"} {
		require.NoError(t, jobs.Save(context.Background(), model.NewApplyJob(id, "https://hh.ru/vacancy/"+id, i+1)))
	}

	require.NoError(t, newScraper(cfg, browser, doc, store, jobs).Run(context.Background()))

	assert.Equal(t, 3, store.saveCount)
	assert.Len(t, store.vacancies, 3)
}
