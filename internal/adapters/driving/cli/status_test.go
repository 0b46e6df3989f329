package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

func TestStatusCmd_Use(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
}

func TestStatusCmd_Short(t *testing.T) {
	assert.Equal(t, "Show pipeline health", statusCmd.Short)
}

func TestStatusCmd_UnconfiguredReportsDegraded(t *testing.T) {
	oldAnswerService := answerService
	answerService = nil
	defer func() {
		answerService = oldAnswerService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "State: degraded")
	assert.Contains(t, buf.String(), "No LLM provider configured")
}

func TestStatusCmd_OperationalListsComponents(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "State: operational")
	assert.Contains(t, out, "LLM")
	assert.Contains(t, out, "Router model")
	assert.Contains(t, out, "Embeddings")
	assert.Contains(t, out, "Document index")
	assert.Contains(t, out, "Reranker")
	assert.Contains(t, out, "Indexed chunks: 12")
	assert.Contains(t, out, "Scope topics:   2")
}

func TestStatusCmd_DegradedNamesTheFix(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	answerService = &mockAnswerService{
		status: &domain.SystemStatus{
			LLMAvailable:       true,
			RouterAvailable:    true,
			EmbeddingAvailable: false,
			IndexAvailable:     true,
			RerankerAvailable:  true,
			DocumentCount:      0,
			State:              domain.StateDegraded,
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "State: degraded")
	assert.Contains(t, buf.String(), "unavailable")
	assert.Contains(t, buf.String(), "norma settings embedding")
}

func TestStatusCmd_UncountableIndexShowsUnknown(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	answerService = &mockAnswerService{
		status: &domain.SystemStatus{
			LLMAvailable:  true,
			DocumentCount: -1,
			State:         domain.StateDegraded,
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed chunks: unknown")
}

func TestStatusCmd_EmptyIndexSuggestsIngest(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	answerService = &mockAnswerService{
		status: &domain.SystemStatus{
			LLMAvailable:       true,
			RouterAvailable:    true,
			EmbeddingAvailable: true,
			IndexAvailable:     true,
			RerankerAvailable:  true,
			DocumentCount:      0,
			State:              domain.StateDegraded,
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "norma ingest <dir>")
}
