package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Index the library and follow changes",
	Long: `Indexes every file in the library directory, then keeps the index in step
with it: new and changed files are added, deleted files are removed.
Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()

	report, err := ingestService.IngestLibrary(ctx)
	if err != nil {
		return fmt.Errorf("indexing library: %w", err)
	}
	cmd.Printf("Indexed %d file(s) as %d document(s).\n", report.Files, report.Documents)
	for name, reason := range report.Failed {
		cmd.Printf("  skipped %s: %s\n", name, reason)
	}

	cmd.Println("Watching for changes (Ctrl+C to stop)...")
	return ingestService.Follow(ctx)
}
