package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const timeFormat = "2006-01-02 15:04:05"

var documentListJSON bool

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage loaded documents",
	Long:  `List, view, or remove loaded documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a document with its sections",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [source-name]",
	Short: "Remove every document of a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

func init() {
	documentListCmd.Flags().BoolVar(&documentListJSON, "json", false, "output the inventory as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	inv := documentService.List(cmd.Context())

	if documentListJSON {
		data, err := json.MarshalIndent(inv, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal inventory: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if inv.TotalDocuments == 0 {
		cmd.Println("No documents loaded. Add one with 'unisearch add <file>'.")
		return nil
	}

	for _, doc := range inv.Documents {
		cmd.Printf("  %s\n", doc.ID)
		cmd.Printf("    Name:    %s\n", doc.DisplayName)
		cmd.Printf("    Words:   %d\n", doc.WordCount)
		cmd.Printf("    Updated: %s\n", doc.LastUpdated.Local().Format(timeFormat))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", inv.TotalDocuments)
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:    %s\n", doc.DisplayName)
	cmd.Printf("  Source:  %s\n", doc.SourceName)
	cmd.Printf("  Words:   %d\n", doc.WordCount)
	cmd.Printf("  Updated: %s\n", doc.LastUpdated.Local().Format(timeFormat))

	sections := []struct {
		label string
		text  string
	}{
		{"Fees", doc.Sections.Fees},
		{"Admissions", doc.Sections.Admissions},
		{"Programs", doc.Sections.Programs},
		{"Accommodation", doc.Sections.Accommodation},
		{"Contact", doc.Sections.Contact},
		{"Application process", doc.Sections.ApplicationProcess},
	}
	if !doc.Sections.IsEmpty() {
		cmd.Println("\n  Sections:")
		for _, s := range sections {
			if s.text != "" {
				cmd.Printf("    %s: %s\n", s.label, preview(s.text, snippetLength))
			}
		}
	}

	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if !documentService.Remove(cmd.Context(), args[0]) {
		return fmt.Errorf("no documents found for source: %s", args[0])
	}

	cmd.Printf("Removed documents of %s.\n", args[0])
	return nil
}
