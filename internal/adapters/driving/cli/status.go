package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline health",
	Long: `Checks each pipeline component and reports its availability.

A degraded state means some questions will get fallback responses;
the report shows which component to fix.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	return printStatus(cmd)
}

func printStatus(cmd *cobra.Command) error {
	if answerService == nil {
		cmd.Println(styleBad.Render("State: degraded"))
		cmd.Println()
		cmd.Println("No LLM provider configured. Run 'norma settings wizard' to set one up.")
		return nil
	}

	status, err := answerService.Status(context.Background())
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if status.Operational() {
		cmd.Println(styleGood.Render("State: operational"))
	} else {
		cmd.Println(styleWarn.Render("State: degraded"))
	}
	cmd.Println()

	printComponent(cmd, "LLM", status.LLMAvailable)
	printComponent(cmd, "Router model", status.RouterAvailable)
	printComponent(cmd, "Embeddings", status.EmbeddingAvailable)
	printComponent(cmd, "Document index", status.IndexAvailable)
	printComponent(cmd, "Reranker", status.RerankerAvailable)
	cmd.Println()

	if status.DocumentCount >= 0 {
		cmd.Printf("Indexed chunks: %d\n", status.DocumentCount)
	} else {
		cmd.Println("Indexed chunks: unknown")
	}
	cmd.Printf("Scope topics:   %d\n", status.ScopeTopics)

	if !status.Operational() {
		cmd.Println()
		printStatusGuidance(cmd, status)
	}

	return nil
}

func printComponent(cmd *cobra.Command, name string, available bool) {
	mark := styleGood.Render("ok")
	if !available {
		mark = styleBad.Render("unavailable")
	}
	cmd.Printf("  %-16s %s\n", name, mark)
}

// printStatusGuidance names the fix for each missing component.
func printStatusGuidance(cmd *cobra.Command, status *domain.SystemStatus) {
	switch {
	case !status.LLMAvailable:
		cmd.Println("The LLM is unreachable. Run 'norma settings wizard' or check the provider.")
	case !status.EmbeddingAvailable:
		cmd.Println("Embeddings are unreachable. Run 'norma settings embedding' or check the provider.")
	case !status.IndexAvailable:
		cmd.Println("The document index is unavailable. Run 'norma ingest <dir>' to build it.")
	case status.DocumentCount == 0:
		cmd.Println("The index is empty. Run 'norma ingest <dir>' to index documents.")
	}
}
