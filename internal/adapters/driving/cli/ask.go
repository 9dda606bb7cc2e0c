package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the loaded prospectuses",
	Long: `Ranks the loaded documents against the question, builds a context from the
best matches and asks the configured completion model to answer from it.

Examples:
  unisearch ask "what are the fees at UCT"
  unisearch ask --json "admission requirements for engineering"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of documents to use (0 = configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	question := strings.Join(args, " ")
	result := answerService.SearchWithAI(cmd.Context(), question, domain.SearchOptions{TopK: askTopK})

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, result)
	return nil
}

func printAnswer(cmd *cobra.Command, result domain.AnswerResult) {
	cmd.Println(result.Answer)

	if result.Outcome == domain.OutcomeModelError {
		cmd.Printf("\n(%s: %s)\n", result.ErrorKind, result.Error)
		if result.ErrorKind == domain.ErrorKindNotConfigured {
			cmd.Println("Run 'unisearch settings llm' to configure a completion model.")
		}
	}

	if result.Success() && len(result.Sources) > 0 {
		cmd.Println("\nSources:")
		for i, src := range result.Sources {
			cmd.Printf("  [%d] %s (%s)\n", i+1, src.DisplayName, src.SourceName)
			if src.Excerpt != "" {
				cmd.Printf("      %s\n", src.Excerpt)
			}
		}
	}

	if result.DocumentsSearched > 0 {
		cmd.Printf("\nSearched %d document(s), %d relevant.\n", result.DocumentsSearched, result.RelevantDocuments)
	}
}
