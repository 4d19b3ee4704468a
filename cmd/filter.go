package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nrad-K/go-hh-agent/internal/config"
	"github.com/nrad-K/go-hh-agent/internal/constants"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/logger"
	"github.com/nrad-K/go-hh-agent/internal/usecase"
	"github.com/spf13/cobra"
)

var filterKeywords []string

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Keeps only vacancies whose title matches a keyword",
	Long: `Rewrites vacancies.json keeping only the vacancies whose title
contains at least one of the given keywords (case-insensitive).`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAgentConfig(cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		appLogger := logger.NewAppLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

		store := infra.NewVacancyFileStore(filepath.Join(cfg.OutputDir, constants.VacanciesFileName))
		filter := usecase.NewFilterVacanciesUseCase(usecase.FilterArgs{
			Store:    store,
			Keywords: filterKeywords,
			Logger:   appLogger,
		})

		if err := filter.Run(context.Background()); err != nil {
			appLogger.Error("filtering failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().StringSliceVarP(&filterKeywords, "keyword", "k", nil, "title keyword to keep (repeatable)")
}
