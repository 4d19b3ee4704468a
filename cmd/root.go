package cmd

import (
	"fmt"
	"os"

	"github.com/nrad-K/go-hh-agent/internal/constants"
	"github.com/spf13/cobra"
)

var cfgPath string

// rootCmd is the entry point of the application.
var rootCmd = &cobra.Command{
	Use:   "go-hh-agent",
	Short: "Collects hh.ru vacancies and automates responses to them",
	Long: `go-hh-agent walks hh.ru search results, extracts structured vacancy
records, and in a companion mode decides per vacancy whether an application
can be submitted automatically or must be left to a human. Decisions are
persisted so repeated runs never reprocess the same vacancy.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", constants.DefaultConfigPath, "path to the YAML configuration file")
}
