package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "norma", rootCmd.Use)
}

func TestRootCmd_Short(t *testing.T) {
	assert.Equal(t, "Question answering over regulatory documents", rootCmd.Short)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "ask")
	assert.Contains(t, commandNames, "chat")
	assert.Contains(t, commandNames, "ingest")
	assert.Contains(t, commandNames, "scope")
	assert.Contains(t, commandNames, "status")
	assert.Contains(t, commandNames, "settings")
	assert.Contains(t, commandNames, "mcp")
	assert.Contains(t, commandNames, "version")
}

func TestRootCmd_HasGlobalFlags(t *testing.T) {
	verbose := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	config := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, config)
	assert.Equal(t, "", config.DefValue)
}

func TestDataDir(t *testing.T) {
	oldConfigDir := flagConfigDir
	defer func() {
		flagConfigDir = oldConfigDir
	}()

	flagConfigDir = ""
	assert.Equal(t, "", dataDir(), "empty config dir means the store default")

	flagConfigDir = "/tmp/norma-test"
	assert.Equal(t, filepath.Join("/tmp/norma-test", "data"), dataDir())
}

func TestBuildNormaliserRegistry_CoversCorpusFormats(t *testing.T) {
	registry := buildNormaliserRegistry()
	supported := registry.SupportedMIMETypes()

	for _, mimeType := range []string{
		"text/plain",
		"text/markdown",
		"text/html",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	} {
		assert.Contains(t, supported, mimeType)
	}
}

func TestBuildPostProcessorPipeline_DefaultConfig(t *testing.T) {
	pipeline, err := buildPostProcessorPipeline(domain.DefaultPipelineConfig())

	require.NoError(t, err)
	assert.NotNil(t, pipeline)
}

func TestBuildPostProcessorPipeline_UnknownProcessor(t *testing.T) {
	cfg := domain.PipelineConfig{Processors: []string{"no-such-processor"}}

	_, err := buildPostProcessorPipeline(cfg)

	assert.Error(t, err)
}

func TestRunCleanups_RunsInReverseOrder(t *testing.T) {
	oldCleanups := cleanups
	defer func() {
		cleanups = oldCleanups
	}()

	var order []int
	cleanups = []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}

	runCleanups()

	assert.Equal(t, []int{2, 1}, order)
	assert.Nil(t, cleanups)
}
