package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Manage the knowledge scope",
	Long: `Shows and maintains the knowledge scope: the topics the corpus covers.

The scope grounds question classification and is listed in refusals,
so users learn what they can ask. It lives in knowledge_scope.json in
the config directory and can be edited by hand; run 'norma scope
reload' to pick up manual edits, or 'norma scope generate' to derive
topics from the indexed corpus.`,
	RunE: runScopeShow,
}

var scopeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current scope",
	RunE:  runScopeShow,
}

var scopeGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Derive scope topics from the indexed corpus",
	Long: `Samples indexed content and asks the LLM to identify the main topics.

The result replaces the current scope. Requires an LLM provider and a
non-empty index.`,
	RunE: runScopeGenerate,
}

var scopeReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Re-read the scope file, picking up manual edits",
	RunE:  runScopeReload,
}

func init() {
	scopeCmd.AddCommand(scopeShowCmd)
	scopeCmd.AddCommand(scopeGenerateCmd)
	scopeCmd.AddCommand(scopeReloadCmd)
	rootCmd.AddCommand(scopeCmd)
}

func runScopeShow(cmd *cobra.Command, _ []string) error {
	if scopeService == nil {
		return errors.New("scope service not configured")
	}

	scope, err := scopeService.Get()
	if err != nil {
		return fmt.Errorf("failed to load scope: %w", err)
	}

	printScope(cmd, scope)
	return nil
}

func runScopeGenerate(cmd *cobra.Command, _ []string) error {
	if scopeService == nil {
		return errors.New("scope service not configured")
	}

	cmd.Println("Generating scope from indexed content...")

	scope, err := scopeService.Generate(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrIndexEmpty) {
			return errors.New("the index is empty. Run 'norma ingest <dir>' first")
		}
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return errors.New("no LLM provider configured. Run 'norma settings wizard' first")
		}
		return fmt.Errorf("scope generation failed: %w", err)
	}

	cmd.Println(styleGood.Render("Scope generated."))
	cmd.Println()
	printScope(cmd, scope)
	return nil
}

func runScopeReload(cmd *cobra.Command, _ []string) error {
	if scopeService == nil {
		return errors.New("scope service not configured")
	}

	scope, err := scopeService.Reload()
	if err != nil {
		return fmt.Errorf("failed to reload scope: %w", err)
	}

	cmd.Println("Scope reloaded.")
	cmd.Println()
	printScope(cmd, scope)
	return nil
}

func printScope(cmd *cobra.Command, scope domain.KnowledgeScope) {
	if scope.Description != "" {
		cmd.Println(styleHeading.Render(scope.Description))
	}
	cmd.Println(scope.FormatTopics())

	if scope.Version != "" || !scope.UpdatedAt.IsZero() {
		cmd.Println()
	}
	if scope.Version != "" {
		cmd.Println(styleMuted.Render(fmt.Sprintf("Version: %s", scope.Version)))
	}
	if !scope.UpdatedAt.IsZero() {
		cmd.Println(styleMuted.Render(fmt.Sprintf("Updated: %s", scope.UpdatedAt.Format("2006-01-02 15:04"))))
	}
}
