package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, the poster catalogue, the corpus
location and server options.

Settings live in ~/.cinepick/config.toml. Environment variables such as
OPENAI_API_KEY and TMDB_API_TOKEN override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its dot key, for example:

  cinepick settings set llm.model gpt-4o
  cinepick settings set corpus.path ~/movies.txt

Credential keys prompt for the value without echo when it is omitted.
Run 'cinepick settings keys' for the full list.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the essential settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check provider connectivity",
	Long:  `Pings the configured embedding and LLM providers with the stored credentials.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

// secretKeys are prompted for without echo and masked on display.
var secretKeys = map[string]bool{
	"embedding.api_key": true,
	"llm.api_key":       true,
	"poster.api_key":    true,
	"poster.token":      true,
	"corpus.s3_secret":  true,
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

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	cmd.Printf("  API Key: %s\n", displaySecret(settings.Embedding.APIKey))
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	cmd.Printf("  API Key: %s\n", displaySecret(settings.LLM.APIKey))
	cmd.Printf("  Temperature: %g\n", settings.LLM.Temperature)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Posters]")
	cmd.Printf("  Base URL: %s\n", settings.Poster.BaseURL)
	cmd.Printf("  Image URL: %s\n", settings.Poster.ImageBaseURL)
	cmd.Printf("  API Key: %s\n", displaySecret(settings.Poster.APIKey))
	cmd.Printf("  Token: %s\n", displaySecret(settings.Poster.Token))
	cmd.Printf("  Rate limit: %g/s\n", settings.Poster.RequestsPerSecond)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Poster.IsConfigured()))
	cmd.Println()

	cmd.Println("[Corpus]")
	printCorpus(cmd, settings.Corpus)
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Processors: %s\n", strings.Join(settings.Pipeline.Processors, ", "))
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Requests per minute: %d\n", settings.Server.RequestsPerMinute)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'cinepick settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printCorpus(cmd *cobra.Command, c domain.CorpusSettings) {
	switch {
	case c.Path != "":
		cmd.Printf("  File: %s\n", c.Path)
	case c.UsesS3():
		cmd.Printf("  S3: s3://%s/%s\n", c.S3Bucket, c.S3Key)
		if c.S3Region != "" {
			cmd.Printf("  Region: %s\n", c.S3Region)
		}
		if c.S3Endpoint != "" {
			cmd.Printf("  Endpoint: %s\n", c.S3Endpoint)
		}
	default:
		cmd.Println("  Location: (not set)")
	}
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case secretKeys[key]:
		cmd.Printf("%s: ", key)
		value = readPassword(cmd.InOrStdin())
		cmd.Println()
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if secretKeys[key] {
		shown = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var failed bool
	if err := settingsService.ProbeEmbedding(cmd.Context()); err != nil {
		cmd.Printf("Embedding: %v\n", err)
		failed = true
	} else {
		cmd.Println("Embedding: ok")
	}
	if err := settingsService.ProbeLLM(cmd.Context()); err != nil {
		cmd.Printf("LLM: %v\n", err)
		failed = true
	} else {
		cmd.Println("LLM: ok")
	}

	if failed {
		return errors.New("provider validation failed")
	}
	return nil
}

// wizardStep is one prompt of the setup wizard.
type wizardStep struct {
	key    string
	prompt string
}

var wizardSteps = []wizardStep{
	{key: "llm.api_key", prompt: "OpenAI API key"},
	{key: "llm.model", prompt: "Chat model"},
	{key: "embedding.model", prompt: "Embedding model"},
	{key: "poster.token", prompt: "TMDB read access token (optional)"},
	{key: "corpus.path", prompt: "Corpus file path (optional)"},
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("cinepick Setup Wizard")
	cmd.Println("=====================")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	for _, step := range wizardSteps {
		var input string
		if secretKeys[step.key] {
			cmd.Printf("%s: ", step.prompt)
			input = readSecretLine(cmd.InOrStdin(), reader)
			cmd.Println()
		} else {
			cmd.Printf("%s: ", step.prompt)
			input = readLine(reader)
		}
		if input == "" {
			continue
		}

		if err := settingsService.Set(step.key, input); err != nil {
			return fmt.Errorf("failed to set %s: %w", step.key, err)
		}
		// The chat key doubles as the embedding key for a single OpenAI account
		if step.key == "llm.api_key" {
			if err := settingsService.Set("embedding.api_key", input); err != nil {
				return fmt.Errorf("failed to set embedding.api_key: %w", err)
			}
		}
	}

	cmd.Println()
	cmd.Println("Settings saved.")
	return nil
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func displaySecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	return maskAPIKey(value)
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readSecretLine reads without echo from a terminal and falls back to the
// buffered reader otherwise.
func readSecretLine(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func readPassword(in io.Reader) string {
	return readSecretLine(in, bufio.NewReader(in))
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
