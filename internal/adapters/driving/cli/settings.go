package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, retrieval tuning, and other options.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for answering and query classification.`,
	RunE:  runSettingsLLM,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for indexing and retrieval.`,
	RunE:  runSettingsEmbedding,
}

var settingsRerankCmd = &cobra.Command{
	Use:   "rerank",
	Short: "Configure rerank backend",
	Long: `Configure how retrieved chunks are scored for relevance.

The local backend scores by lexical overlap, needs no setup and is
deterministic. Cohere uses a cloud rerank model and needs an API key.`,
	RunE: runSettingsRerank,
}

var (
	retrievalTopK   int
	retrievalTopN   int
	retrievalMinRel float64
)

var settingsRetrievalCmd = &cobra.Command{
	Use:   "retrieval",
	Short: "Tune retrieval parameters",
	Long: `Show or set the retrieval tuning knobs.

Without flags the current values are shown. Flags set new values:
  --top-k           chunks returned by vector search
  --rerank-top-n    chunks kept after reranking
  --min-relevance   rerank score floor in [0, 1]; chunks below it are
                    dropped, and if nothing clears it the question is
                    declined instead of guessed at`,
	RunE: runSettingsRetrieval,
}

func init() {
	settingsRetrievalCmd.Flags().IntVar(&retrievalTopK, "top-k", 0, "chunks returned by vector search")
	settingsRetrievalCmd.Flags().IntVar(&retrievalTopN, "rerank-top-n", 0, "chunks kept after reranking")
	settingsRetrievalCmd.Flags().Float64Var(&retrievalMinRel, "min-relevance", -1, "rerank relevance floor in [0, 1]")

	for _, sub := range []*cobra.Command{
		settingsShowCmd, settingsWizardCmd, settingsLLMCmd,
		settingsEmbeddingCmd, settingsRerankCmd, settingsRetrievalCmd,
	} {
		settingsCmd.AddCommand(sub)
	}
	rootCmd.AddCommand(settingsCmd)
}

// row is a single "Label: value" line in settings output.
type row struct{ label, value string }

func printSection(cmd *cobra.Command, heading string, rows []row) {
	cmd.Printf("[%s]\n", heading)
	for _, r := range rows {
		cmd.Printf("  %s: %s\n", r.label, r.value)
	}
	cmd.Println()
}

// providerRows renders the shared shape of the LLM and embedding
// sections: provider, model, then URL or key depending on locality.
func providerRows(provider domain.AIProvider, model, baseURL, apiKey string, configured bool) []row {
	rows := []row{
		{"Provider", provider.Description()},
		{"Model", model},
	}
	if provider.IsLocal() {
		rows = append(rows, row{"Base URL", baseURL})
	}
	if provider.RequiresAPIKey() {
		rows = append(rows, row{"API Key", keyDisplay(apiKey)})
	}
	return append(rows, row{"Status", configuredLabel(configured)})
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	routerModel := settings.LLM.RouterModel
	if routerModel == "" {
		routerModel = "(same as model)"
	}
	llmRows := []row{
		{"Provider", settings.LLM.Provider.Description()},
		{"Model", settings.LLM.Model},
		{"Router model", routerModel},
	}
	if settings.LLM.Provider.IsLocal() {
		llmRows = append(llmRows, row{"Base URL", settings.LLM.BaseURL})
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		llmRows = append(llmRows, row{"API Key", keyDisplay(settings.LLM.APIKey)})
	}
	llmRows = append(llmRows, row{"Status", configuredLabel(settings.LLM.IsConfigured())})
	printSection(cmd, "LLM", llmRows)

	printSection(cmd, "Embedding", providerRows(settings.Embedding.Provider,
		settings.Embedding.Model, settings.Embedding.BaseURL,
		settings.Embedding.APIKey, settings.Embedding.IsConfigured()))

	rerankRows := []row{{"Provider", settings.Rerank.Provider.Description()}}
	if settings.Rerank.Provider == domain.RerankProviderCohere {
		rerankRows = append(rerankRows,
			row{"Model", settings.Rerank.Model},
			row{"API Key", keyDisplay(settings.Rerank.APIKey)})
	}
	printSection(cmd, "Rerank", rerankRows)

	printSection(cmd, "Retrieval", []row{
		{"Top K", strconv.Itoa(settings.Retrieval.TopK)},
		{"Rerank top N", strconv.Itoa(settings.Retrieval.RerankTopN)},
		{"Min relevance", fmt.Sprintf("%.2f", settings.Retrieval.MinRelevance)},
	})

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'norma settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Norma Settings Wizard")
	cmd.Println("=====================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	steps := []struct {
		title, note string
		run         func(*cobra.Command, *bufio.Reader) error
	}{
		{"Step 1: Configure LLM Provider",
			"The LLM answers questions and classifies their intent.",
			configureLLMProvider},
		{"Step 2: Configure Embedding Provider",
			"Embeddings power retrieval; indexing and asking both need them.",
			configureEmbeddingProvider},
		{"Step 3: Configure Rerank Backend",
			"Reranking scores retrieved chunks. The local backend needs no setup.",
			configureRerankProvider},
	}

	for _, step := range steps {
		cmd.Println(step.title)
		cmd.Println(strings.Repeat("-", len(step.title)))
		cmd.Println(step.note)
		cmd.Println()
		if err := step.run(cmd, reader); err != nil {
			return err
		}
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings saved and valid.")
		cmd.Println("Next: run 'norma ingest <dir>' to index your documents.")
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureLLMProvider(cmd, bufio.NewReader(os.Stdin))
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureEmbeddingProvider(cmd, bufio.NewReader(os.Stdin))
}

func runSettingsRerank(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureRerankProvider(cmd, bufio.NewReader(os.Stdin))
}

func runSettingsRetrieval(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}

	changed := cmd.Flags().Changed("top-k") ||
		cmd.Flags().Changed("rerank-top-n") ||
		cmd.Flags().Changed("min-relevance")

	if !changed {
		cmd.Printf("Top K: %d\n", settings.Retrieval.TopK)
		cmd.Printf("Rerank top N: %d\n", settings.Retrieval.RerankTopN)
		cmd.Printf("Min relevance: %.2f\n", settings.Retrieval.MinRelevance)
		return nil
	}

	topK := settings.Retrieval.TopK
	if cmd.Flags().Changed("top-k") {
		topK = retrievalTopK
	}
	topN := settings.Retrieval.RerankTopN
	if cmd.Flags().Changed("rerank-top-n") {
		topN = retrievalTopN
	}
	minRel := settings.Retrieval.MinRelevance
	if cmd.Flags().Changed("min-relevance") {
		minRel = retrievalMinRel
	}

	if err := settingsService.SetRetrieval(topK, topN, minRel); err != nil {
		return fmt.Errorf("set retrieval parameters: %w", err)
	}

	cmd.Printf("Retrieval set: top_k=%d rerank_top_n=%d min_relevance=%.2f\n", topK, topN, minRel)
	return nil
}

// askProviderSetup walks the common menu-model-key sequence and returns
// the choices.
func askProviderSetup(cmd *cobra.Command, reader *bufio.Reader, heading string,
	providers []domain.AIProvider, defaults map[domain.AIProvider]string,
) (domain.AIProvider, string, string, error) {
	provider := chooseFromMenu(cmd, reader, heading, providers)
	model := promptModel(cmd, reader, defaults[provider])

	apiKey, err := promptAPIKeyIfNeeded(cmd, provider.RequiresAPIKey())
	if err != nil {
		return provider, "", "", err
	}
	return provider, model, apiKey, nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	provider, model, apiKey, err := askProviderSetup(cmd, reader,
		"Select LLM Provider", domain.AllLLMProviders(), domain.DefaultLLMModels())
	if err != nil {
		return err
	}

	if err := settingsService.SetLLMProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("validate LLM configuration: %w", err)
	}
	cmd.Println("OK")

	// A smaller router model speeds up classification; optional.
	cmd.Print("Router model for classification (optional, Enter to reuse the main model): ")
	if err := setRouterModel(readEntry(reader)); err != nil {
		return fmt.Errorf("set router model: %w", err)
	}

	cmd.Printf("LLM provider configured: %s (%s)\n\n", provider.Description(), model)
	return nil
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	provider, model, apiKey, err := askProviderSetup(cmd, reader,
		"Select Embedding Provider", domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels())
	if err != nil {
		return err
	}

	if err := settingsService.SetEmbeddingProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("validate embedding configuration: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", provider.Description(), model)
	return nil
}

func configureRerankProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	providers := domain.AllRerankProviders()
	cmd.Println("Select Rerank Backend")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	provider := providers[menuChoice(readEntry(reader), len(providers), 1)-1]

	var model, apiKey string
	if provider.RequiresAPIKey() {
		model = promptModel(cmd, reader, domain.DefaultRerankModels()[provider])

		var err error
		apiKey, err = promptAPIKeyIfNeeded(cmd, true)
		if err != nil {
			return err
		}
	}

	if err := settingsService.SetRerankProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("configure rerank backend: %w", err)
	}

	cmd.Printf("Rerank backend configured: %s\n\n", provider.Description())
	return nil
}

// chooseFromMenu shows a numbered menu and returns the selection,
// defaulting to the first entry.
func chooseFromMenu(cmd *cobra.Command, reader *bufio.Reader, heading string, providers []domain.AIProvider) domain.AIProvider {
	cmd.Println(heading)
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	return providers[menuChoice(readEntry(reader), len(providers), 1)-1]
}

// promptModel asks for a model name, offering defaultModel.
func promptModel(cmd *cobra.Command, reader *bufio.Reader, defaultModel string) string {
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	if model := readEntry(reader); model != "" {
		return model
	}
	return defaultModel
}

// promptAPIKeyIfNeeded reads a key without echo when the provider
// requires one.
func promptAPIKeyIfNeeded(cmd *cobra.Command, required bool) (string, error) {
	if !required {
		return "", nil
	}
	cmd.Print("Enter API key: ")
	apiKey := readSecret()
	cmd.Println()
	if apiKey == "" {
		return "", errors.New("API key is required for this provider")
	}
	return apiKey, nil
}

// setRouterModel persists the optional dedicated routing model.
func setRouterModel(model string) error {
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	settings.LLM.RouterModel = model
	return settingsService.Save(settings)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readEntry(reader *bufio.Reader) string {
	entry, _ := reader.ReadString('\n')
	return strings.TrimSpace(entry)
}

// menuChoice parses a 1-based menu selection, falling back when the
// entry is blank or out of range.
func menuChoice(entry string, itemCount, fallback int) int {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return fallback
	}
	n, err := strconv.Atoi(entry)
	if err != nil || n < 1 || n > itemCount {
		return fallback
	}
	return n
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		if secret, err := term.ReadPassword(fd); err == nil {
			return string(secret)
		}
	}
	// Not a terminal (tests, pipes): fall back to a plain read.
	entry, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(entry)
}

func keyDisplay(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskKey(key)
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

// maskKey keeps the first and last four characters of a stored key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
