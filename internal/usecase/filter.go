package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/logger"
)

// FilterArgs holds the dependencies of the title filter.
type FilterArgs struct {
	Store    infra.VacancyStore
	Keywords []string
	Logger   logger.AppLogger
}

// FilterVacanciesUseCase keeps only vacancies whose title contains at least
// one of the configured keywords and rewrites the collection artifact.
type FilterVacanciesUseCase struct {
	store    infra.VacancyStore
	keywords []string
	logger   logger.AppLogger
}

func NewFilterVacanciesUseCase(args FilterArgs) *FilterVacanciesUseCase {
	return &FilterVacanciesUseCase{
		store:    args.Store,
		keywords: args.Keywords,
		logger:   args.Logger,
	}
}

func (u *FilterVacanciesUseCase) Run(_ context.Context) error {
	if len(u.keywords) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}

	collection, err := u.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load vacancy collection: %w", err)
	}

	kept, removed := u.Partition(collection.Vacancies)

	for _, v := range removed {
		u.logger.Info("removing vacancy", "title", v.Title, "vacancy_id", v.ID)
	}

	if err := u.store.Save(kept); err != nil {
		return fmt.Errorf("failed to rewrite vacancy collection: %w", err)
	}

	u.logger.Info("filter finished", "kept", len(kept), "removed", len(removed))
	return nil
}

// Partition splits vacancies into kept and removed based on a
// case-insensitive title match against the keywords.
func (u *FilterVacanciesUseCase) Partition(vacancies []model.Vacancy) (kept, removed []model.Vacancy) {
	for _, v := range vacancies {
		title := strings.ToLower(v.Title)
		matched := false
		for _, keyword := range u.keywords {
			if strings.Contains(title, strings.ToLower(keyword)) {
				matched = true
				break
			}
		}
		if matched {
			kept = append(kept, v)
		} else {
			removed = append(removed, v)
		}
	}
	return kept, removed
}
