package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
)

var (
	addName     string
	addManifest string
	addText     string
)

var addCmd = &cobra.Command{
	Use:   "add [files...]",
	Short: "Add prospectuses to the library",
	Long: `Copies files into the library and indexes them. PDF, Markdown, HTML and
plain text are supported. Re-adding a file replaces its documents.

A manifest names several files at once, with optional institution names:

  documents:
    - file: uct-2025.pdf
      displayName: University of Cape Town
    - file: wits.md

Examples:
  unisearch add uct-2025.pdf --name "University of Cape Town"
  unisearch add --manifest prospectuses.yaml
  unisearch add --text uct-fees < fees.txt`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "institution display name")
	addCmd.Flags().StringVarP(&addManifest, "manifest", "m", "", "YAML manifest listing files to add")
	addCmd.Flags().StringVar(&addText, "text", "", "read raw text from stdin and store it under this source name")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if addText != "" {
		return runAddText(cmd, args)
	}

	var items []driving.BatchItem
	if addManifest != "" {
		manifestItems, err := loadManifest(addManifest)
		if err != nil {
			return err
		}
		items = append(items, manifestItems...)
	}

	if addName != "" && len(args) != 1 {
		return errors.New("--name needs exactly one file")
	}
	for _, path := range args {
		item, err := fileItem(path, addName)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return errors.New("nothing to add: pass files, --manifest or --text")
	}

	report, err := ingestService.IngestBatch(cmd.Context(), items)
	if err != nil {
		return fmt.Errorf("add interrupted: %w", err)
	}
	return printBatchReport(cmd, report)
}

func runAddText(cmd *cobra.Command, args []string) error {
	if len(args) > 0 || addManifest != "" {
		return errors.New("--text reads from stdin and takes no files")
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	docs, err := ingestService.AddDocument(cmd.Context(), addText, string(data), domain.IngestOptions{DisplayName: addName})
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", addText, err)
	}

	cmd.Printf("Added %s as %d document(s) for %s.\n", addText, len(docs), docs[0].DisplayName)
	return nil
}

func printBatchReport(cmd *cobra.Command, report *driving.BatchReport) error {
	cmd.Printf("Added %d file(s) as %d document(s).\n", report.Files, report.Documents)
	if len(report.Failed) == 0 {
		return nil
	}

	names := make([]string, 0, len(report.Failed))
	for name := range report.Failed {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd.Println("\nFailed:")
	for _, name := range names {
		cmd.Printf("  %s: %s\n", name, report.Failed[name])
	}
	return fmt.Errorf("%d file(s) could not be added", len(report.Failed))
}

// manifest lists files to add. Paths are relative to the manifest file.
type manifest struct {
	Documents []manifestEntry `yaml:"documents"`
}

type manifestEntry struct {
	File        string `yaml:"file"`
	DisplayName string `yaml:"displayName"`
}

func loadManifest(path string) ([]driving.BatchItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Documents) == 0 {
		return nil, fmt.Errorf("manifest %s lists no documents", path)
	}

	base := filepath.Dir(path)
	items := make([]driving.BatchItem, 0, len(m.Documents))
	for i, entry := range m.Documents {
		if entry.File == "" {
			return nil, fmt.Errorf("manifest %s: document %d has no file", path, i+1)
		}
		file := entry.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(base, file)
		}
		item, err := fileItem(file, entry.DisplayName)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// fileItem reads a local file into a batch item named after its base name.
func fileItem(path, displayName string) (driving.BatchItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return driving.BatchItem{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return driving.BatchItem{
		Name:    filepath.Base(path),
		Content: content,
		Options: domain.IngestOptions{DisplayName: displayName},
	}, nil
}
