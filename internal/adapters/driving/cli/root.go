// Package cli implements the norma command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/norma-labs/norma-cli/internal/adapters/driven/ai"
	"github.com/norma-labs/norma-cli/internal/adapters/driven/config/file"
	"github.com/norma-labs/norma-cli/internal/adapters/driven/storage/sqlite"
	"github.com/norma-labs/norma-cli/internal/connectors/filesystem"
	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/core/ports/driving"
	"github.com/norma-labs/norma-cli/internal/core/services"
	"github.com/norma-labs/norma-cli/internal/logger"
	"github.com/norma-labs/norma-cli/internal/normalisers"
	"github.com/norma-labs/norma-cli/internal/normalisers/docx"
	"github.com/norma-labs/norma-cli/internal/normalisers/html"
	"github.com/norma-labs/norma-cli/internal/normalisers/markdown"
	"github.com/norma-labs/norma-cli/internal/normalisers/pdf"
	"github.com/norma-labs/norma-cli/internal/normalisers/plaintext"
	"github.com/norma-labs/norma-cli/internal/postprocessors"
	"github.com/norma-labs/norma-cli/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are wired once in Execute and nil-checked in each command,
// so tests can swap in mocks before calling rootCmd.Execute directly.
var (
	answerService      driving.AnswerService
	ingestOrchestrator driving.IngestOrchestrator
	retrievalService   driving.RetrievalService
	scopeService       driving.ScopeService
	settingsService    driving.SettingsService
	sessionManager     *services.SessionManager
)

// cleanups close stores and AI clients after the command finishes.
var cleanups []func()

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "norma",
	Short: "Question answering over regulatory documents",
	Long: `Norma answers questions about a regulatory document corpus.

Documents are ingested from a directory into a local index. Questions
are answered from that index with citations back to the source
documents; questions outside the corpus are declined rather than
guessed at.

Get started:
  norma settings wizard    configure AI providers
  norma ingest ./docs      index a document directory
  norma ask "..."          ask a question`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose pipeline logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.norma)")
}

// Execute wires the services and runs the root command.
// Wiring failures other than an unusable config directory are warnings:
// each command checks for the services it needs, so 'norma version' and
// 'norma settings' work on an unconfigured install.
func Execute() error {
	parseGlobalFlags()
	logger.SetVerbose(flagVerbose)

	if err := initServices(); err != nil {
		return err
	}
	defer runCleanups()

	return rootCmd.Execute()
}

// parseGlobalFlags extracts --config and --verbose ahead of wiring.
// Cobra re-parses the full command line afterwards; unknown flags here
// belong to subcommands and are skipped.
func parseGlobalFlags() {
	fs := pflag.NewFlagSet("norma", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.AddFlagSet(rootCmd.PersistentFlags())
	_ = fs.Parse(os.Args[1:]) //nolint:errcheck // Help/parse errors are cobra's to report
}

// initServices builds the pipeline from configuration.
func initServices() error {
	configStore, err := file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settingsService = settingsSvc

	settings, err := settingsService.Get()
	if err != nil {
		warn("loading settings: %v", err)
		defaults := settingsService.GetDefaults()
		settings = &defaults
	}

	sessionManager = services.NewSessionManager(settings.Answer.MaxHistoryTurns)

	var (
		docStore    driven.DocumentStore
		vectorIndex driven.VectorIndex
	)
	store, err := sqlite.NewStore(dataDir())
	if err != nil {
		warn("opening index: %v", err)
	} else {
		cleanups = append(cleanups, func() { _ = store.Close() })
		docStore = store.DocumentStore()
		vectorIndex = store.VectorIndex()
	}

	var promptStore driven.PromptStore
	if ps, err := file.NewPromptStore(flagConfigDir); err != nil {
		warn("opening prompt store: %v", err)
	} else {
		promptStore = ps
	}

	var scopeStore driven.ScopeStore
	if ss, err := file.NewScopeStore(flagConfigDir); err != nil {
		warn("opening scope store: %v", err)
	} else {
		scopeStore = ss
	}

	aiResult, err := ai.InitAIServices(settings)
	if err != nil {
		warn("%v", err)
		aiResult = &ai.InitResult{}
	}
	for _, w := range aiResult.Warnings {
		warn("%s", w)
	}
	cleanups = append(cleanups, aiResult.Close)

	scopeSvc := services.NewScopeService(scopeStore, docStore, aiResult.LLMService)
	if promptStore != nil {
		scopeSvc.SetPromptStore(promptStore)
	}
	scopeService = scopeSvc

	// The retriever tolerates missing backends per call, so it is
	// always wired; MCP clients see a clean unavailability error.
	retrievalService = services.NewRetriever(
		aiResult.EmbeddingService,
		vectorIndex,
		docStore,
	)

	// The answer pipeline needs a model; with one configured, missing
	// pieces downstream degrade per turn instead of failing here.
	if aiResult.LLMService != nil {
		answerSvc := services.NewAnswerService(
			aiResult.LLMService,
			aiResult.RouterLLM,
			aiResult.EmbeddingService,
			vectorIndex,
			docStore,
			aiResult.Reranker,
			scopeService,
			settings.Retrieval,
			settings.Answer,
		)
		if promptStore != nil {
			answerSvc.SetPromptStore(promptStore)
		}
		answerService = answerSvc
	}

	if aiResult.EmbeddingService != nil && docStore != nil {
		pipeline, err := buildPostProcessorPipeline(settingsSvc.GetPipelineConfig())
		if err != nil {
			warn("building processor pipeline, using defaults: %v", err)
			pipeline = postprocessors.NewPipeline(chunker.New())
		}

		ingestOrchestrator = services.NewIngestOrchestrator(
			func(dir string) (driven.Connector, error) {
				return filesystem.New(dir), nil
			},
			buildNormaliserRegistry(),
			pipeline,
			aiResult.EmbeddingService,
			docStore,
			vectorIndex,
		)
	}

	return nil
}

// buildPostProcessorPipeline assembles the configured stage chain.
func buildPostProcessorPipeline(cfg domain.PipelineConfig) (driven.PostProcessorPipeline, error) {
	registry := postprocessors.Builtin()

	stages := make([]driven.PostProcessor, 0, len(cfg.Processors))
	for _, name := range cfg.Processors {
		stage, err := registry.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return postprocessors.NewPipeline(stages...), nil
}

// buildNormaliserRegistry registers every format the corpus may contain.
// PDF support needs the pdftotext tool; without it PDF files are
// counted as skipped rather than failing the run.
func buildNormaliserRegistry() driven.NormaliserRegistry {
	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(html.New())
	registry.Register(docx.New())

	if err := pdf.CheckAvailable(); err == nil {
		registry.Register(pdf.New())
	} else {
		logger.Warn("PDF support disabled: %v", err)
	}

	return registry
}

// dataDir derives the index location from --config. Empty means the
// store's own ~/.norma/data default.
func dataDir() string {
	if flagConfigDir == "" {
		return ""
	}
	return filepath.Join(flagConfigDir, "data")
}

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
