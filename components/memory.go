package components

import (
	"sync"

	"github.com/srijan-op/Brain-Chain/schema"
)

type MemoryStore interface {
	RunID() string
	NewMessage(author string, content schema.Schema) *Message
	Append(msgs ...*Message)
	History() []Message
	First() (Message, bool)
	Last() (Message, bool)
	MessageCount() int
}

// Memory holds the shared conversation of one workflow run.
// threadsafe
//
// The history is append-only: messages are never edited, reordered or removed.
type Memory struct {
	//	history is a list of messages representing the conversation.
	history []Message
	//	runID is the ID of the workflow run owning the conversation.
	runID string
	// mtx sync lock
	mtx *sync.RWMutex
}

var _ MemoryStore = (*Memory)(nil)

// NewMemory initializes the Memory with an empty history.
// A new run ID is generated when runID is empty.
func NewMemory(runID string) *Memory {
	if runID == "" {
		runID = NewRunID()
	}
	return &Memory{
		runID:   runID,
		history: make([]Message, 0, 8),
		mtx:     new(sync.RWMutex),
	}
}

// RunID returns the run ID
func (m *Memory) RunID() string {
	return m.runID
}

// NewMessage appends an agent message to the conversation.
func (m *Memory) NewMessage(author string, content schema.Schema) *Message {
	msg := NewMessage(UserRole, content).SetAuthor(author)
	m.Append(msg)
	return msg
}

// Append adds messages at the end of the conversation, stamped with the run ID.
func (m *Memory) Append(msgs ...*Message) {
	m.mtx.Lock()
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		msg.SetRunID(m.runID)
		m.history = append(m.history, *msg)
	}
	m.mtx.Unlock()
}

// History returns a copy of the conversation.
func (m *Memory) History() []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	ret := make([]Message, len(m.history))
	copy(ret, m.history)
	return ret
}

// First returns the first message, the original user query.
func (m *Memory) First() (Message, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	if len(m.history) == 0 {
		return Message{}, false
	}
	return m.history[0], true
}

// Last returns the most recent message.
func (m *Memory) Last() (Message, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	l := len(m.history)
	if l == 0 {
		return Message{}, false
	}
	return m.history[l-1], true
}

// MessageCount returns the number of messages in the conversation.
func (m *Memory) MessageCount() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.history)
}
