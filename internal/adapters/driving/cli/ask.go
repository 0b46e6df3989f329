package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the document corpus",
	Long: `Asks a single question and prints the answer with citations.

The question is classified first: regulatory questions are answered
from the indexed corpus, small talk gets a conversational reply, and
anything outside the corpus scope is declined. Answers cite the
documents they draw on as [doc-N] markers.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured. Run 'norma settings wizard' to set up an LLM provider")
	}
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}

	session := sessionManager.Create()
	defer sessionManager.Remove(session.ID)

	response, err := answerService.Ask(cmd.Context(), session, args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputResponseJSON(cmd, response)
	}

	outputResponseText(cmd, response)
	return nil
}

// responseJSON is the command's JSON output shape.
type responseJSON struct {
	Answer    string         `json:"answer"`
	Citations []citationJSON `json:"citations,omitempty"`
	Intent    string         `json:"intent,omitempty"`
	Outcome   string         `json:"outcome"`
	Model     string         `json:"model,omitempty"`
}

type citationJSON struct {
	Marker  int    `json:"marker"`
	ChunkID string `json:"chunk_id"`
	Source  string `json:"source"`
	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

func outputResponseJSON(cmd *cobra.Command, response *domain.Response) error {
	out := responseJSON{
		Answer:  response.Answer,
		Intent:  response.Intent.String(),
		Outcome: response.Outcome.String(),
		Model:   response.Model,
	}
	for _, c := range response.Citations {
		out.Citations = append(out.Citations, citationJSON{
			Marker:  c.Marker,
			ChunkID: c.ChunkID,
			Source:  c.Source,
			Title:   c.Title,
			Excerpt: c.Excerpt,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResponseText(cmd *cobra.Command, response *domain.Response) {
	cmd.Println(response.Answer)

	if response.Cited() {
		cmd.Println()
		cmd.Println(styleMuted.Render("Sources:"))
		for _, c := range response.Citations {
			line := fmt.Sprintf("  [%s] %s", c.Label(), citationName(c))
			cmd.Println(styleCitation.Render(line))
		}
	}

	if response.Outcome == domain.OutcomeDegraded {
		cmd.Println()
		cmd.Println(styleWarn.Render("Pipeline degraded. Run 'norma status' for diagnostics."))
	}
}

// citationName prefers the document title, falling back to its URI.
func citationName(c domain.Citation) string {
	if c.Title != "" {
		return fmt.Sprintf("%s (%s)", c.Title, c.Source)
	}
	return c.Source
}
