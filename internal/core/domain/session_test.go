package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRole_Constants tests role constant values
func TestRole_Constants(t *testing.T) {
	assert.Equal(t, Role("user"), RoleUser)
	assert.Equal(t, Role("assistant"), RoleAssistant)
}

// TestRole_IsValid tests role validation
func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"user is valid", RoleUser, true},
		{"assistant is valid", RoleAssistant, true},
		{"empty is invalid", Role(""), false},
		{"system is invalid", Role("system"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.IsValid())
		})
	}
}

// TestRole_String tests string conversion
func TestRole_String(t *testing.T) {
	assert.Equal(t, "user", RoleUser.String())
	assert.Equal(t, "assistant", RoleAssistant.String())
}

// TestNewSession tests session creation
func TestNewSession(t *testing.T) {
	session := NewSession("session-123")

	assert.Equal(t, "session-123", session.ID)
	assert.False(t, session.StartedAt.IsZero())
	assert.Zero(t, session.MaxTurns)
	assert.Equal(t, 0, session.Len())
	assert.Nil(t, session.History())
}

// TestSession_Append tests recording turns
func TestSession_Append(t *testing.T) {
	session := NewSession("session-123")

	session.Append(RoleUser, "What does Annex II list?")
	session.Append(RoleAssistant, "Annex II lists the fourteen allergens.")

	require.Equal(t, 2, session.Len())

	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "What does Annex II list?", history[0].Content)
	assert.Equal(t, RoleAssistant, history[1].Role)
	assert.Equal(t, "Annex II lists the fourteen allergens.", history[1].Content)
	assert.False(t, history[0].At.IsZero())
}

// TestSession_Append_PrunesAtDefaultCap tests pruning with the default cap
func TestSession_Append_PrunesAtDefaultCap(t *testing.T) {
	session := NewSession("session-123")

	// Record more exchanges than the cap retains
	for i := 0; i < DefaultMaxTurns; i++ {
		session.Append(RoleUser, fmt.Sprintf("question %d", i))
		session.Append(RoleAssistant, fmt.Sprintf("answer %d", i))
	}

	assert.Equal(t, DefaultMaxTurns, session.Len())

	// Oldest turns are gone; the window holds the most recent ones
	history := session.History()
	require.Len(t, history, DefaultMaxTurns)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "question 10", history[0].Content)
	assert.Equal(t, "answer 19", history[DefaultMaxTurns-1].Content)
}

// TestSession_Append_PrunesAtCustomCap tests pruning with an explicit cap
func TestSession_Append_PrunesAtCustomCap(t *testing.T) {
	session := NewSession("session-123")
	session.MaxTurns = 4

	session.Append(RoleUser, "q1")
	session.Append(RoleAssistant, "a1")
	session.Append(RoleUser, "q2")
	session.Append(RoleAssistant, "a2")
	session.Append(RoleUser, "q3")
	session.Append(RoleAssistant, "a3")

	require.Equal(t, 4, session.Len())

	history := session.History()
	assert.Equal(t, "q2", history[0].Content)
	assert.Equal(t, "a2", history[1].Content)
	assert.Equal(t, "q3", history[2].Content)
	assert.Equal(t, "a3", history[3].Content)
}

// TestSession_Append_WindowStartsWithUserTurn tests the pruned window shape
func TestSession_Append_WindowStartsWithUserTurn(t *testing.T) {
	session := NewSession("session-123")
	session.MaxTurns = 2

	session.Append(RoleUser, "q1")
	session.Append(RoleAssistant, "a1")
	session.Append(RoleUser, "q2")
	session.Append(RoleAssistant, "a2")

	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, RoleAssistant, history[1].Role)
}

// TestSession_History_ReturnsCopy tests that history is detached from the session
func TestSession_History_ReturnsCopy(t *testing.T) {
	session := NewSession("session-123")
	session.Append(RoleUser, "original")

	history := session.History()
	history[0].Content = "mutated"

	// The session's own record is unaffected
	assert.Equal(t, "original", session.History()[0].Content)
}

// TestSession_History_EmptyIsNil tests history of an empty session
func TestSession_History_EmptyIsNil(t *testing.T) {
	session := NewSession("session-123")

	assert.Nil(t, session.History())
	assert.Equal(t, 0, session.Len())
}

// TestSession_IndependentSessions tests that sessions do not share history
func TestSession_IndependentSessions(t *testing.T) {
	first := NewSession("session-1")
	second := NewSession("session-2")

	first.Append(RoleUser, "first question")
	second.Append(RoleUser, "second question")
	second.Append(RoleAssistant, "second answer")

	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 2, second.Len())
	assert.Equal(t, "first question", first.History()[0].Content)
}
