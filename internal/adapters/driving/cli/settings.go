package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the completion model, retrieval and storage.

Settings live in ~/.unisearch/config.toml. UNISEARCH_* environment variables
and a .env file override it.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the completion model used to answer questions.`,
	RunE:  runSettingsLLM,
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage [json|sqlite]",
	Short: "Set the snapshot backend",
	Long: `Select where the document store is persisted between runs.

  json   - a single documents.json file (default)
  sqlite - a documents.db SQLite database

Takes effect on the next start. Documents are not migrated.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.StorageBackendJSON), string(domain.StorageBackendSQLite)},
	RunE:      runSettingsStorage,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	if settings.LLM.Provider == "" {
		cmd.Printf("  Provider: (not set)\n")
	} else {
		cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.LLM.Model)
	}
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Chunk size: %d (overlap %d)\n", settings.Pipeline.ChunkSize, settings.Pipeline.ChunkOverlap)
	cmd.Printf("  Break threshold: %.2f\n", settings.Pipeline.BreakThreshold)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Context budget: %d characters\n", settings.Retrieval.ContextBudget)
	cmd.Printf("  Bonuses: name +%d, topic +%d\n", settings.Retrieval.NameBonus, settings.Retrieval.TopicBonus)
	cmd.Println()

	cmd.Println("[Answer]")
	cmd.Printf("  Timeout: %s\n", settings.Answer.Timeout)
	cmd.Printf("  Max tokens: %d\n", settings.Answer.MaxTokens)
	cmd.Printf("  Temperature: %.2f\n", settings.Answer.Temperature)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	if settings.Storage.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	}
	if settings.Storage.BlobDir != "" {
		cmd.Printf("  Library: %s\n", settings.Storage.BlobDir)
	}
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'unisearch settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	in := cmd.InOrStdin()
	return configureLLMProvider(cmd, in, bufio.NewReader(in))
}

func configureLLMProvider(cmd *cobra.Command, in io.Reader, reader *bufio.Reader) error {
	cmd.Println("Select LLM provider:")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	provider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[provider]
	cmd.Printf("Model [%s]: ", defaultModel)
	model := readLine(reader)

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("API key: ")
		apiKey = readPassword(in, reader)
		cmd.Println()
	}

	if err := settingsService.SetLLMProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to set LLM provider: %w", err)
	}
	cmd.Printf("Set LLM provider to: %s\n", provider.Description())

	cmd.Println("Checking connection...")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Settings were saved; questions will fail until the provider is reachable.")
		return nil
	}
	cmd.Println("Connection OK.")
	return nil
}

func runSettingsStorage(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	backend := domain.StorageBackend(strings.ToLower(args[0]))
	if err := settingsService.SetStorageBackend(backend); err != nil {
		return err
	}
	cmd.Printf("Storage backend set to %s. Restart unisearch to apply.\n", backend)
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal and falls back to reader otherwise.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
