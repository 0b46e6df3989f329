package domain

import "time"

// Role identifies who produced a conversation turn.
type Role string

// Available roles.
const (
	// RoleUser is the person asking questions.
	RoleUser Role = "user"

	// RoleAssistant is the pipeline's reply.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Turn is a single message in a conversation.
type Turn struct {
	// Role is who produced the turn.
	Role Role

	// Content is the message text.
	Content string

	// At is when the turn was recorded.
	At time.Time
}

// DefaultMaxTurns caps how much history a session retains.
// Older turns are dropped in pairs so the window always starts
// with a user turn.
const DefaultMaxTurns = 20

// Session holds the conversation history for one dialogue.
//
// History is append-only within a turn's lifetime: the pipeline reads
// a snapshot at turn start and the owner appends the completed
// exchange afterwards. A Session belongs to a single conversation and
// is not safe for concurrent use; concurrent conversations each get
// their own Session.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// MaxTurns caps retained history. Zero means DefaultMaxTurns.
	MaxTurns int

	// StartedAt is when the session was created.
	StartedAt time.Time

	turns []Turn
}

// NewSession creates an empty session with the given identifier.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		StartedAt: time.Now(),
	}
}

// Append records a completed turn, pruning the oldest turns once
// the cap is exceeded.
func (s *Session) Append(role Role, content string) {
	s.turns = append(s.turns, Turn{
		Role:    role,
		Content: content,
		At:      time.Now(),
	})

	max := s.MaxTurns
	if max <= 0 {
		max = DefaultMaxTurns
	}
	if excess := len(s.turns) - max; excess > 0 {
		s.turns = append([]Turn(nil), s.turns[excess:]...)
	}
}

// History returns a copy of the retained turns, oldest first.
func (s *Session) History() []Turn {
	if len(s.turns) == 0 {
		return nil
	}
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of retained turns.
func (s *Session) Len() int {
	return len(s.turns)
}
