package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sort"
	"sync"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/logger"
)

func discardLogger() logger.AppLogger {
	return logger.NewAppLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// listingPage is one page of the simulated search results.
type listingPage struct {
	links   []string
	hasNext bool
}

// pageState describes the simulated application page behind one URL.
type pageState struct {
	selectors map[string]bool     // selector -> present
	texts     map[string][]string // selector -> extracted texts
	html      string
}

// fakeBrowser drives both the listing walk and per-URL page probing without
// a real browser. The zero value behaves like a blank page.
type fakeBrowser struct {
	pages   []listingPage
	pageIdx int

	states     map[string]*pageState
	currentURL string

	navErrs     map[string]error
	clickErr    map[string]error
	existsErr   map[string]error
	clicked     []string
	navigations []string
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		states:    map[string]*pageState{},
		navErrs:   map[string]error{},
		clickErr:  map[string]error{},
		existsErr: map[string]error{},
	}
}

func (b *fakeBrowser) Navigate(u string) error {
	if err := b.navErrs[u]; err != nil {
		return err
	}
	b.currentURL = u
	b.navigations = append(b.navigations, u)
	return nil
}

func (b *fakeBrowser) GetHTML() (string, error) {
	if s := b.states[b.currentURL]; s != nil {
		return s.html, nil
	}
	return "<html></html>", nil
}

func (b *fakeBrowser) CurrentURL() (*url.URL, error) {
	if b.currentURL == "" {
		return nil, errors.New("no page open")
	}
	return url.Parse(b.currentURL)
}

func (b *fakeBrowser) WaitVisible(selector string) error {
	return nil
}

func (b *fakeBrowser) ExtractText(selector string) ([]string, error) {
	if s := b.states[b.currentURL]; s != nil {
		return s.texts[selector], nil
	}
	return nil, nil
}

func (b *fakeBrowser) ExtractAttribute(selector, attr string) ([]string, error) {
	if b.pageIdx < len(b.pages) {
		return b.pages[b.pageIdx].links, nil
	}
	return nil, nil
}

func (b *fakeBrowser) Exists(selector string) (bool, error) {
	if err := b.existsErr[selector]; err != nil {
		return false, err
	}
	if s := b.states[b.currentURL]; s != nil {
		return s.selectors[selector], nil
	}
	if b.pageIdx < len(b.pages) {
		return b.pages[b.pageIdx].hasNext, nil
	}
	return false, nil
}

func (b *fakeBrowser) Click(selector string) error {
	if err := b.clickErr[selector]; err != nil {
		return err
	}
	b.clicked = append(b.clicked, selector)
	if b.states[b.currentURL] == nil && b.pageIdx < len(b.pages) && b.pages[b.pageIdx].hasNext {
		b.pageIdx++
	}
	return nil
}

func (b *fakeBrowser) Close() error { return nil }

var _ infra.BrowserClient = (*fakeBrowser)(nil)

// fakeJobRepo is an in-memory stand-in for the Redis worklist.
type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]model.ApplyJob // status + vacancy id -> job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]model.ApplyJob{}}
}

func jobRepoKey(status model.ApplyJobStatus, vacancyID string) string {
	return string(status) + ":" + vacancyID
}

func (r *fakeJobRepo) Save(_ context.Context, job model.ApplyJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[jobRepoKey(job.Status, job.VacancyID)] = job
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, job model.ApplyJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, jobRepoKey(job.Status, job.VacancyID))
	return nil
}

func (r *fakeJobRepo) FindListByStatus(_ context.Context, status model.ApplyJobStatus) ([]model.ApplyJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ApplyJob
	for _, job := range r.jobs {
		if job.Status == status {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// fakeStateRepo keeps the session state in memory and counts flushes.
type fakeStateRepo struct {
	state     *model.SessionState
	saveCount int
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{state: model.NewSessionState()}
}

func (r *fakeStateRepo) Load(_ context.Context) *model.SessionState {
	return r.state
}

func (r *fakeStateRepo) Save(_ context.Context, state *model.SessionState) error {
	r.state = state
	r.saveCount++
	return nil
}

// fakeLedger is an in-memory ignored-items store.
type fakeLedger struct {
	entries   []model.IgnoredVacancy
	saveCount int
	loadErr   error
}

func (l *fakeLedger) Load() ([]model.IgnoredVacancy, error) {
	if l.loadErr != nil {
		return nil, l.loadErr
	}
	return l.entries, nil
}

func (l *fakeLedger) Save(entries []model.IgnoredVacancy) error {
	l.entries = append([]model.IgnoredVacancy(nil), entries...)
	l.saveCount++
	return nil
}

var _ infra.IgnoredLedgerStore = (*fakeLedger)(nil)

// fakeVacancyStore is an in-memory vacancy collection.
type fakeVacancyStore struct {
	vacancies []model.Vacancy
	saveCount int
}

func (s *fakeVacancyStore) Load() (infra.VacancyCollection, error) {
	return infra.VacancyCollection{
		Meta:      infra.CollectionMeta{TotalVacancies: len(s.vacancies)},
		Vacancies: append([]model.Vacancy(nil), s.vacancies...),
	}, nil
}

func (s *fakeVacancyStore) Save(vacancies []model.Vacancy) error {
	s.vacancies = append([]model.Vacancy(nil), vacancies...)
	s.saveCount++
	return nil
}

var _ infra.VacancyStore = (*fakeVacancyStore)(nil)

// fakeDocument returns canned values per selector regardless of the HTML.
type fakeDocument struct {
	texts map[string][]string
	attrs map[string][]string
}

func (d *fakeDocument) ExtractText(_ string, selector string) ([]string, error) {
	return d.texts[selector], nil
}

func (d *fakeDocument) ExtractAttribute(_ string, selector, _ string) ([]string, error) {
	return d.attrs[selector], nil
}

func (d *fakeDocument) ExtractTextByRegex(_, selector, _ string) ([]string, error) {
	return d.texts[selector], nil
}

var _ infra.HTMLDocument = (*fakeDocument)(nil)

// fakeJSONWriter captures the last written report.
type fakeJSONWriter struct {
	written any
}

func (w *fakeJSONWriter) Write(v any) error {
	w.written = v
	return nil
}

var _ infra.JSONFileWriter = (*fakeJSONWriter)(nil)
