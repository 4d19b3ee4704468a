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

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregates collected vacancies into a market report",
	Long: `Reads vacancies.json and writes analysis_results.json with skill,
salary, company, title, location and description statistics plus short
actionable insights.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAgentConfig(cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		appLogger := logger.NewAppLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

		store := infra.NewVacancyFileStore(filepath.Join(cfg.OutputDir, constants.VacanciesFileName))
		writer := infra.NewJSONFileWriter(filepath.Join(cfg.OutputDir, constants.AnalysisFileName))
		analyzer := usecase.NewAnalyzeVacanciesUseCase(usecase.AnalyzerArgs{
			Store:  store,
			Writer: writer,
			Logger: appLogger,
		})

		if err := analyzer.Run(context.Background()); err != nil {
			appLogger.Error("analysis failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
