package simple

import (
	"github.com/srijan-op/Brain-Chain/components/systemprompt"
)

// Generator renders a free-form instruction followed by the context section,
// used by nodes answering with free text
type Generator struct {
	systemprompt.BaseGenerator
	instruction string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(instruction string, providers ...systemprompt.ContextProvider) *Generator {
	ret := &Generator{instruction: instruction}
	ret.AddContextProviders(providers...)
	return ret
}

func (g *Generator) Generate() string {
	return systemprompt.Join(append([]string{g.instruction, ""}, g.ContextSection()...))
}
