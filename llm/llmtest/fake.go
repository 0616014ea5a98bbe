// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/llm"
)

// ErrExhausted is returned when a script has no answer left
var ErrExhausted = errors.New("llmtest: script exhausted")

// Kind is the kind of model turn
type Kind string

const (
	KindGenerate   Kind = "generate"
	KindStructured Kind = "structured"
	KindTools      Kind = "tools"
)

// Call records one request received by the fake
type Call struct {
	Kind     Kind
	Messages []components.Message
	Tools    []components.ToolDefinition
}

// Fake answers from FIFO scripts, one per kind of turn.
// threadsafe
type Fake struct {
	mtx        sync.Mutex
	texts      []string
	structured []string
	replies    []llm.Reply
	err        error
	calls      []Call
}

var _ llm.Client = (*Fake)(nil)

// New returns an empty Fake
func New() *Fake {
	return new(Fake)
}

// Text queues free-text answers
func (f *Fake) Text(texts ...string) *Fake {
	f.mtx.Lock()
	f.texts = append(f.texts, texts...)
	f.mtx.Unlock()
	return f
}

// JSON queues raw structured answers
func (f *Fake) JSON(answers ...string) *Fake {
	f.mtx.Lock()
	f.structured = append(f.structured, answers...)
	f.mtx.Unlock()
	return f
}

// Decision queues a structured {"next","reason"} answer
func (f *Fake) Decision(next string, reason string) *Fake {
	bs, _ := json.Marshal(map[string]string{"next": next, "reason": reason})
	return f.JSON(string(bs))
}

// Reply queues tool-calling turn answers
func (f *Fake) Reply(replies ...llm.Reply) *Fake {
	f.mtx.Lock()
	f.replies = append(f.replies, replies...)
	f.mtx.Unlock()
	return f
}

// ToolCall queues a turn requesting a single tool call
func (f *Fake) ToolCall(id string, name string, arguments string) *Fake {
	return f.Reply(llm.Reply{ToolCalls: []components.ToolCall{{ID: id, Name: name, Arguments: arguments}}})
}

// Fail makes every following call return err
func (f *Fake) Fail(err error) *Fake {
	f.mtx.Lock()
	f.err = err
	f.mtx.Unlock()
	return f
}

// Calls returns the recorded requests
func (f *Fake) Calls() []Call {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	ret := make([]Call, len(f.calls))
	copy(ret, f.calls)
	return ret
}

// Pending reports how many scripted answers were not consumed
func (f *Fake) Pending() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return len(f.texts) + len(f.structured) + len(f.replies)
}

func (f *Fake) record(kind Kind, messages []components.Message, tools []components.ToolDefinition) error {
	msgs := make([]components.Message, len(messages))
	copy(msgs, messages)
	f.calls = append(f.calls, Call{Kind: kind, Messages: msgs, Tools: tools})
	return f.err
}

// Generate implements llm.Client
func (f *Fake) Generate(ctx context.Context, messages []components.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if err := f.record(KindGenerate, messages, nil); err != nil {
		return "", err
	}
	if len(f.texts) == 0 {
		return "", fmt.Errorf("%w: %s", ErrExhausted, KindGenerate)
	}
	ret := f.texts[0]
	f.texts = f.texts[1:]
	return ret, nil
}

// Structured implements llm.Client
func (f *Fake) Structured(ctx context.Context, messages []components.Message, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if err := f.record(KindStructured, messages, nil); err != nil {
		return err
	}
	if len(f.structured) == 0 {
		return fmt.Errorf("%w: %s", ErrExhausted, KindStructured)
	}
	ret := f.structured[0]
	f.structured = f.structured[1:]
	return json.Unmarshal([]byte(ret), out)
}

// ChatWithTools implements llm.Client
func (f *Fake) ChatWithTools(ctx context.Context, messages []components.Message, tools []components.ToolDefinition) (*llm.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if err := f.record(KindTools, messages, tools); err != nil {
		return nil, err
	}
	if len(f.replies) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrExhausted, KindTools)
	}
	ret := f.replies[0]
	f.replies = f.replies[1:]
	return &ret, nil
}
