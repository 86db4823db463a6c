package job

import (
	"context"
	"fmt"
	"sync"

	"github.com/looplab/fsm"
)

const (
	EventSelectTranscribe = "select_transcribe"
	EventSelectSummarize  = "select_summarize"
	EventSelectBoth       = "select_both"
)

// Session tracks the processing mode a conversation has picked.
// Mode changes go through a state machine so a conversation is never
// caught between modes while a switch is in flight.
type Session struct {
	ConversationID string
	machine        *fsm.FSM
	mu             sync.Mutex
}

func NewSession(conversationID string) *Session {
	return &Session{
		ConversationID: conversationID,
		machine: fsm.NewFSM(
			string(ModeBoth),
			fsm.Events{
				{Name: EventSelectTranscribe, Src: allModes(), Dst: string(ModeTranscribeOnly)},
				{Name: EventSelectSummarize, Src: allModes(), Dst: string(ModeSummarizeOnly)},
				{Name: EventSelectBoth, Src: allModes(), Dst: string(ModeBoth)},
			},
			fsm.Callbacks{},
		),
	}
}

func allModes() []string {
	return []string{
		string(ModeTranscribeOnly),
		string(ModeSummarizeOnly),
		string(ModeBoth),
	}
}

// Mode returns the currently selected mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Mode(s.machine.Current())
}

// Select switches the session to the given mode.
func (s *Session) Select(ctx context.Context, mode Mode) error {
	if !mode.IsValid() {
		return fmt.Errorf("unknown mode %q", mode)
	}

	var event string
	switch mode {
	case ModeTranscribeOnly:
		event = EventSelectTranscribe
	case ModeSummarizeOnly:
		event = EventSelectSummarize
	case ModeBoth:
		event = EventSelectBoth
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.Event(ctx, event); err != nil {
		// Re-selecting the current mode is a no-op, not a failure.
		if _, ok := err.(fsm.NoTransitionError); ok {
			return nil
		}
		return fmt.Errorf("switch mode to %s: %w", mode, err)
	}
	return nil
}

// SessionManager hands out one session per conversation.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Get returns the session for a conversation, creating one on first use.
func (m *SessionManager) Get(conversationID string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[conversationID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[conversationID]; ok {
		return s
	}
	s = NewSession(conversationID)
	m.sessions[conversationID] = s
	return s
}
