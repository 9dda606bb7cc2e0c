// Package cli provides the unisearch command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
	"github.com/custodia-labs/unisearch/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by main.
var (
	answerService   driving.AnswerService
	ingestService   driving.IngestService
	documentService driving.DocumentService
	settingsService driving.SettingsService
)

var verbose bool

// startupWarnings are reported once the verbose flag is known.
var startupWarnings []string

var rootCmd = &cobra.Command{
	Use:   "unisearch",
	Short: "Ask questions about university prospectuses",
	Long: `unisearch indexes university prospectuses and answers questions about
fees, admissions, programmes and accommodation from them.

Add prospectuses with 'unisearch add', then ask with 'unisearch ask'.
Answers cite the documents they came from.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		for _, w := range startupWarnings {
			logger.Warn("%s", w)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, so long-running commands
// stop when it is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by 'unisearch version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetAnswerService sets the answer service.
func SetAnswerService(s driving.AnswerService) {
	answerService = s
}

// SetIngestService sets the ingest service.
func SetIngestService(s driving.IngestService) {
	ingestService = s
}

// SetDocumentService sets the document service.
func SetDocumentService(s driving.DocumentService) {
	documentService = s
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetStartupWarnings sets non-fatal wiring issues to report in verbose mode.
func SetStartupWarnings(warnings []string) {
	startupWarnings = warnings
}
