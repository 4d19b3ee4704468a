package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/nrad-K/go-hh-agent/internal/config"
	"github.com/nrad-K/go-hh-agent/internal/constants"
	"github.com/nrad-K/go-hh-agent/internal/domain/repository"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/logger"
	"github.com/nrad-K/go-hh-agent/internal/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	scrapeCollect bool
	scrapeExecute bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collects vacancy links and extracts structured records",
	Long: `Walks the configured search results and enqueues unseen vacancies
(--collect), then visits each pending vacancy and extracts a structured
record into vacancies.json (--execute).`,
	Run: func(cmd *cobra.Command, args []string) {
		if !scrapeCollect && !scrapeExecute {
			cmd.Help()
			return
		}

		ctx := context.Background()
		rt := mustSetupRuntime(ctx)
		defer rt.browser.Close()

		if scrapeCollect {
			collector := usecase.NewCollectVacancyJobsUseCase(usecase.CollectorArgs{
				Cfg:    rt.cfg,
				Client: rt.browser,
				Parser: rt.parser,
				Jobs:   rt.jobs,
				States: rt.states,
				Logger: rt.logger,
			})
			rt.logger.Info("starting vacancy collection")
			if err := collector.Run(ctx); err != nil {
				rt.logger.Error("vacancy collection failed", "error", err)
				os.Exit(1)
			}
		}

		if scrapeExecute {
			store := infra.NewVacancyFileStore(filepath.Join(rt.cfg.OutputDir, constants.VacanciesFileName))
			scraper := usecase.NewScrapeVacanciesUseCase(usecase.ScraperArgs{
				Cfg:      rt.cfg,
				Client:   rt.browser,
				Document: infra.NewHTMLDocument(),
				Parser:   rt.parser,
				Store:    store,
				Jobs:     rt.jobs,
				Logger:   rt.logger,
			})
			rt.logger.Info("starting vacancy scraping")
			if err := scraper.Run(ctx); err != nil {
				rt.logger.Error("vacancy scraping failed", "error", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().BoolVarP(&scrapeCollect, "collect", "c", false, "collect vacancy links into the worklist")
	scrapeCmd.Flags().BoolVarP(&scrapeExecute, "execute", "e", false, "scrape pending vacancies from the worklist")
}

// runtime bundles the shared wiring of the browser-backed commands.
type runtime struct {
	cfg     config.AgentConfig
	logger  logger.AppLogger
	browser infra.BrowserClient
	jobs    repository.ApplyJobRepository
	states  repository.SessionStateRepository
	parser  *infra.VacancyParser
}

// mustSetupRuntime loads configuration and brings up every external
// collaborator. An unavailable browser or Redis at startup is the one fatal
// error class: the run cannot proceed without them.
func mustSetupRuntime(ctx context.Context) *runtime {
	// .env is optional; real environments set the variables directly.
	godotenv.Load()

	cfg, err := config.LoadAgentConfig(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logHandler := slog.NewTextHandler(os.Stdout, nil)
	appLogger := logger.NewAppLogger(slog.New(logHandler))

	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		appLogger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	appLogger.Info("connected to redis")

	browser, err := infra.NewBrowserClient(&cfg)
	if err != nil {
		appLogger.Error("failed to initialize browser client", "error", err)
		os.Exit(1)
	}

	statePath := filepath.Join(cfg.OutputDir, constants.SessionStateFileName)

	return &runtime{
		cfg:     cfg,
		logger:  appLogger,
		browser: browser,
		jobs:    infra.NewApplyJobClient(rdb),
		states:  infra.NewSessionStateClient(statePath, appLogger),
		parser: infra.NewVacancyParser(
			constants.GetAgentCompiledPatterns(),
			constants.GetCurrencyMarkers(),
			constants.GetGrossMarkers(),
		),
	}
}
