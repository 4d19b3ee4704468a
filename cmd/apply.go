package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/nrad-K/go-hh-agent/internal/constants"
	"github.com/nrad-K/go-hh-agent/internal/infra"
	"github.com/nrad-K/go-hh-agent/internal/usecase"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Processes the pending worklist and submits applications",
	Long: `Visits every pending vacancy, classifies the application page into a
single terminal outcome and submits where a plain one-click response is
possible. Vacancies that require a survey or a cover letter are recorded in
ignored.json instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := mustSetupRuntime(ctx)
		defer rt.browser.Close()

		ledger := infra.NewIgnoredLedgerStore(filepath.Join(rt.cfg.OutputDir, constants.IgnoredFileName))
		applier := usecase.NewApplyVacanciesUseCase(usecase.ApplierArgs{
			Cfg:    rt.cfg,
			Client: rt.browser,
			Jobs:   rt.jobs,
			States: rt.states,
			Ledger: ledger,
			Logger: rt.logger,
		})

		rt.logger.Info("starting application run")
		if err := applier.Run(ctx); err != nil {
			rt.logger.Error("application run failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
