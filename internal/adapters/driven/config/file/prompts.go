package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves the pipeline's prompt templates from editable
// files under a prompt directory, falling back to the embedded
// defaults when a file is missing. The directory and its default
// files are materialised lazily on first Load, so constructing a
// store performs no I/O.
type PromptStore struct {
	dir string

	once    sync.Once
	initErr error

	mu    sync.Mutex
	cache map[string]string
}

// defaultPrompts are the built-in templates, written to disk on first
// use so operators can tune them. They must keep their %s placeholders
// in order: the services fill them positionally.
//
//nolint:lll // Prompt text reads better unwrapped.
var defaultPrompts = map[string]string{
	driven.PromptRoute: `Classify the following query for a regulatory compliance assistant.

The assistant's corpus covers these topics:
%s

CLASSIFICATION CRITERIA:
- "regulatory": questions about regulations, compliance, labelling, safety requirements, and related topics above.
- "chitchat": greetings, thanks, questions about the assistant itself.
- "off_topic": anything else (sport, politics, history, etc).

Reply with exactly one label: regulatory, chitchat or off_topic.

QUERY: '%s'`,

	driven.PromptAnswer: `You are a professional consultant on regulatory compliance.

OPERATING INSTRUCTIONS:
1. Carefully analyse the context provided by the numbered documents [doc-1], [doc-2], etc.
2. Answer EXCLUSIVELY from these official documents.
3. MANDATORY CITATIONS: After every specific claim, immediately cite the source using [doc-N]. Example: "The maximum limit is 5 mg/kg [doc-2]."
4. For claims supported by multiple sources, cite them all: "Labelling must be clear [doc-1, doc-3]."
5. Do NOT group citations at the end - they must be integrated into the text.
6. If the information is not sufficient, state: "The available documents do not contain enough information to answer completely."

DOCUMENT CONTEXT:
%s

QUESTION:
%s

PROFESSIONAL ANSWER WITH INLINE CITATIONS:`,

	driven.PromptRefusal: `I am an assistant specialised in regulatory compliance, and I am not able to answer the question: '%s'

My knowledge is limited to the documents in my corpus.
To get accurate answers, try asking about the topics I know well.

The main topics I can help with include:
%s

Please rephrase your question around one of these subjects.`,

	driven.PromptChatSystem: `You are a friendly AI assistant specialised in regulatory compliance. Reply to greetings and small talk warmly and concisely. If asked what you can do, explain that you answer questions about the regulatory documents in your corpus, with citations.`,

	driven.PromptScopeExtract: `Analyse the following text extracted from regulatory documents. Identify the 5-7 main topics or themes covered.

Reply ONLY with a JSON object holding a single key "scope" containing a list of short topic strings. No prose, no code fences.

TEXT TO ANALYSE:
%s`,
}

// NewPromptStore builds a store rooted at dir, defaulting to
// ~/.norma/prompts when dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".norma", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the template for name, preferring the on-disk file over
// the embedded default. Results are cached until Reload.
func (s *PromptStore) Load(name string) (string, error) {
	s.once.Do(s.seed)
	if s.initErr != nil {
		// Seeding the directory failed; the embedded defaults still work.
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("seed prompt directory: %w", s.initErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prompt, ok := s.cache[name]; ok {
		return prompt, nil
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	prompt := strings.TrimSpace(string(data))
	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops the cache so edited files take effect on the next Load.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed creates the prompt directory and writes each default template
// that does not already have a file, plus a README. Existing files are
// never overwritten.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		if err := writeIfAbsent(s.path(name), content); err != nil {
			s.initErr = fmt.Errorf("seed prompt %q: %w", name, err)
			return
		}
	}

	if err := writeIfAbsent(filepath.Join(s.dir, "README.md"), promptReadme); err != nil {
		s.initErr = fmt.Errorf("seed prompt README: %w", err)
	}
}

func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}

const promptReadme = `# Norma Prompts

This directory contains the prompt templates used by Norma's answer
pipeline. Edit any file to customise behaviour; changes take effect on
the next command or after restarting a chat session.

| File | Used for |
|------|----------|
| route.txt | Classifying a query as regulatory, chitchat or off-topic |
| answer.txt | Synthesising a cited answer from retrieved passages |
| refusal.txt | Declining off-topic questions and listing known topics |
| chat_system.txt | System prompt for greetings and small talk |
| scope_extract.txt | Deriving the knowledge scope from indexed content |

The templates are Go format strings. Keep every %s placeholder and
keep them in their original order: values are substituted positionally.
`
