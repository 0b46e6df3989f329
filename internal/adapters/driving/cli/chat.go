package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question session",
	Long: `Starts an interactive session for asking questions about the corpus.

Conversation history carries across turns, so follow-up questions can
refer back to earlier answers. Type /help inside the session for the
available commands; Ctrl+D or /quit exits.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured. Run 'norma settings wizard' to set up an LLM provider")
	}
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	historyPath := chatHistoryPath()
	loadChatHistory(line, historyPath)
	defer saveChatHistory(line, historyPath)

	session := sessionManager.Create()
	defer func() { sessionManager.Remove(session.ID) }()

	cmd.Println(styleHeading.Render("norma interactive session"))
	cmd.Println(styleMuted.Render("Ask about the document corpus. /help for commands, /quit to exit."))
	cmd.Println()

	for {
		input, err := line.Prompt(stylePrompt.Render("norma> "))
		if err != nil {
			// Ctrl+C or Ctrl+D both end the session.
			cmd.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			switch strings.ToLower(strings.Fields(input)[0]) {
			case "/quit", "/q", "/exit":
				return nil
			case "/clear", "/c":
				sessionManager.Remove(session.ID)
				session = sessionManager.Create()
				cmd.Println(styleMuted.Render("Conversation cleared."))
			default:
				handleChatCommand(cmd, input)
			}
			continue
		}

		response, err := answerService.Ask(cmd.Context(), session, input)
		if err != nil {
			cmd.Println(styleBad.Render(fmt.Sprintf("error: %v", err)))
			continue
		}

		cmd.Println()
		outputResponseText(cmd, response)
		cmd.Println()
	}
}

// handleChatCommand processes the session-independent slash commands.
func handleChatCommand(cmd *cobra.Command, input string) {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/help", "/h":
		cmd.Println("Commands:")
		cmd.Println("  /scope    show what the corpus covers")
		cmd.Println("  /status   show pipeline health")
		cmd.Println("  /clear    forget the conversation so far")
		cmd.Println("  /quit     exit the session")

	case "/scope":
		if scopeService == nil {
			cmd.Println(styleBad.Render("scope service not configured"))
			return
		}
		scope, err := scopeService.Get()
		if err != nil {
			cmd.Println(styleBad.Render(fmt.Sprintf("error: %v", err)))
			return
		}
		cmd.Println(scope.FormatTopics())

	case "/status":
		if err := printStatus(cmd); err != nil {
			cmd.Println(styleBad.Render(fmt.Sprintf("error: %v", err)))
		}

	default:
		cmd.Println(styleMuted.Render("Unknown command. Type /help for commands."))
	}
}

// chatHistoryPath returns the liner history file location.
func chatHistoryPath() string {
	dir := flagConfigDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".norma")
	}
	return filepath.Join(dir, "chat_history")
}

func loadChatHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.ReadHistory(f) //nolint:errcheck // History is best effort
}

func saveChatHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f) //nolint:errcheck // History is best effort
}
