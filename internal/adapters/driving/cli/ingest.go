package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Index documents from a directory",
	Long: `Indexes every supported document under the given directory.

Files are normalised, chunked, embedded and stored in the local index.
Unsupported file types are skipped; individual document failures are
counted without aborting the run.

With --watch the command keeps running after the initial pass and
re-indexes documents as they change on disk, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the directory for changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured. Run 'norma settings wizard' to set up an embedding provider")
	}

	dir := args[0]

	if ingestWatch {
		return runIngestWatch(cmd, dir)
	}

	cmd.Printf("Ingesting documents from %s...\n", dir)

	result, err := ingestOrchestrator.Ingest(context.Background(), dir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printIngestResult(cmd, result.Documents, result.Chunks, result.Skipped, result.Failures)
	cmd.Printf("Completed in %s.\n", result.Duration.Round(time.Millisecond))

	return nil
}

// runIngestWatch ingests then watches until Ctrl+C.
func runIngestWatch(cmd *cobra.Command, dir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Ingesting documents from %s, then watching for changes (Ctrl+C to stop)...\n", dir)

	err := ingestOrchestrator.Watch(ctx, dir)
	if errors.Is(err, context.Canceled) {
		cmd.Println("\nStopped watching.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func printIngestResult(cmd *cobra.Command, documents, chunks, skipped, failures int) {
	cmd.Printf("Indexed %d documents (%d chunks).\n", documents, chunks)
	if skipped > 0 {
		cmd.Printf("Skipped %d unsupported files.\n", skipped)
	}
	if failures > 0 {
		cmd.Println(styleWarn.Render(fmt.Sprintf("%d documents failed to index. Re-run with --verbose for details.", failures)))
	}
}
