package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// runSettings executes a settings invocation and captures its output.
func runSettings(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"settings"}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetRetrievalFlags()
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetRetrievalFlags clears flag state that cobra keeps across runs.
func resetRetrievalFlags() {
	retrievalTopK = 0
	retrievalTopN = 0
	retrievalMinRel = -1
	for _, name := range []string{"top-k", "rerank-top-n", "min-relevance"} {
		settingsRetrievalCmd.Flags().Lookup(name).Changed = false
	}
}

func TestSettingsCmd(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
	assert.Equal(t, "Manage application settings", settingsCmd.Short)

	names := make([]string, 0, len(settingsCmd.Commands()))
	for _, sub := range settingsCmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"show", "wizard", "llm", "embedding", "rerank", "retrieval"} {
		assert.Contains(t, names, want)
	}
}

func TestSettingsShow(t *testing.T) {
	t.Run("errors without service", func(t *testing.T) {
		old := settingsService
		settingsService = nil
		t.Cleanup(func() { settingsService = old })

		_, err := runSettings(t)
		assert.ErrorContains(t, err, "settings service not configured")
	})

	t.Run("lists every section", func(t *testing.T) {
		cleanup := setupTestServices()
		defer cleanup()

		out, err := runSettings(t, "show")
		require.NoError(t, err)
		assert.Contains(t, out, "[LLM]")
		assert.Contains(t, out, "[Embedding]")
		assert.Contains(t, out, "[Rerank]")
		assert.Contains(t, out, "[Retrieval]")
		assert.Contains(t, out, "Status: not configured")
		assert.Contains(t, out, "Configuration is valid.")
	})

	t.Run("masks the stored key", func(t *testing.T) {
		cleanup := setupTestServices()
		defer cleanup()

		settings := domain.DefaultAppSettings()
		settings.LLM = domain.LLMSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "gpt-4o-mini",
			APIKey:   "sk-proj-1234567890abcdef",
		}
		settingsService = &mockSettingsService{settings: settings}

		out, err := runSettings(t, "show")
		require.NoError(t, err)
		assert.Contains(t, out, "sk-p...cdef")
		assert.NotContains(t, out, "sk-proj-1234567890abcdef")
	})

	t.Run("warns when invalid", func(t *testing.T) {
		cleanup := setupTestServices()
		defer cleanup()

		settingsService = &mockSettingsService{
			settings:    domain.DefaultAppSettings(),
			validateErr: errors.New("LLM provider is not configured"),
		}

		out, err := runSettings(t, "show")
		require.NoError(t, err)
		assert.Contains(t, out, "Warning: LLM provider is not configured")
		assert.Contains(t, out, "norma settings wizard")
	})
}

func TestSettingsRetrieval(t *testing.T) {
	t.Run("without flags shows current values", func(t *testing.T) {
		cleanup := setupTestServices()
		defer cleanup()

		out, err := runSettings(t, "retrieval")
		require.NoError(t, err)
		assert.Contains(t, out, "Top K: 20")
		assert.Contains(t, out, "Rerank top N: 8")
		assert.Contains(t, out, "Min relevance: 0.10")
	})

	t.Run("unset flags keep their stored values", func(t *testing.T) {
		cleanup := setupTestServices()
		defer cleanup()
		mock := settingsService.(*mockSettingsService)

		out, err := runSettings(t, "retrieval", "--top-k", "30")
		require.NoError(t, err)
		assert.Contains(t, out, "Retrieval set: top_k=30 rerank_top_n=8 min_relevance=0.10")
		assert.Equal(t, 30, mock.settings.Retrieval.TopK)
		assert.Equal(t, 8, mock.settings.Retrieval.RerankTopN)
	})

	t.Run("all flags set all values", func(t *testing.T) {
		cleanup := setupTestServices()
		defer cleanup()
		mock := settingsService.(*mockSettingsService)

		out, err := runSettings(t, "retrieval",
			"--top-k", "50", "--rerank-top-n", "10", "--min-relevance", "0.25")
		require.NoError(t, err)
		assert.Contains(t, out, "Retrieval set: top_k=50 rerank_top_n=10 min_relevance=0.25")
		assert.Equal(t, 50, mock.settings.Retrieval.TopK)
		assert.Equal(t, 10, mock.settings.Retrieval.RerankTopN)
		assert.InDelta(t, 0.25, mock.settings.Retrieval.MinRelevance, 0.001)
	})
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", "****"},
		{"short", "abc123", "****"},
		{"boundary at eight characters", "12345678", "****"},
		{"typical key", "sk-1234567890abcdef", "sk-1...cdef"},
		{"project-scoped key", "sk-proj-1234567890abcdefghijklmnop", "sk-p...mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskKey(tt.key))
		})
	}
}

func TestMenuChoice(t *testing.T) {
	tests := []struct {
		name      string
		entry     string
		itemCount int
		fallback  int
		want      int
	}{
		{"blank entry falls back", "", 5, 1, 1},
		{"whitespace falls back", "   ", 5, 1, 1},
		{"in-range selection", "3", 5, 1, 3},
		{"first item", "1", 5, 3, 1},
		{"last item", "5", 5, 1, 5},
		{"zero falls back", "0", 5, 1, 1},
		{"negative falls back", "-1", 5, 1, 1},
		{"past the end falls back", "6", 5, 1, 1},
		{"non-numeric falls back", "abc", 5, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, menuChoice(tt.entry, tt.itemCount, tt.fallback))
		})
	}
}
