package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

func TestScopeCmd_Use(t *testing.T) {
	assert.Equal(t, "scope", scopeCmd.Use)
}

func TestScopeCmd_Short(t *testing.T) {
	assert.Equal(t, "Manage the knowledge scope", scopeCmd.Short)
}

func TestScopeCmd_HasSubcommands(t *testing.T) {
	commands := scopeCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "generate")
	assert.Contains(t, commandNames, "reload")
}

func TestScopeCmd_ErrorsWithoutScopeService(t *testing.T) {
	oldScope := scopeService
	scopeService = nil
	defer func() {
		scopeService = oldScope
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"scope"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestScopeCmd_ShowsTopics(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"scope"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Financial conduct regulations")
	assert.Contains(t, buf.String(), "reporting obligations")
	assert.Contains(t, buf.String(), "licensing requirements")
	assert.Contains(t, buf.String(), "Version: 2")
}

func TestScopeShowCmd_EmptyScope(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	scopeService = &mockScopeService{scope: domain.KnowledgeScope{}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"scope", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No specific topics defined.")
}

func TestScopeGenerateCmd_PrintsGeneratedScope(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"scope", "generate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Generating scope from indexed content...")
	assert.Contains(t, buf.String(), "Scope generated.")
	assert.Contains(t, buf.String(), "reporting obligations")
}

func TestScopeGenerateCmd_EmptyIndexError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	scopeService = &mockScopeService{generateErr: domain.ErrIndexEmpty}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"scope", "generate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "the index is empty")
	assert.Contains(t, err.Error(), "norma ingest")
}

func TestScopeGenerateCmd_NoLLMError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	scopeService = &mockScopeService{generateErr: domain.ErrLLMUnavailable}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"scope", "generate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM provider configured")
	assert.Contains(t, err.Error(), "norma settings wizard")
}

func TestScopeReloadCmd_PrintsReloadedScope(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"scope", "reload"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Scope reloaded.")
	assert.Contains(t, buf.String(), "licensing requirements")
}
