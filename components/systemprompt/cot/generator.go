package cot

import (
	"github.com/srijan-op/Brain-Chain/components/systemprompt"
)

// Sections are the bullet lists of a chain-of-thought prompt.
// Lines are rendered as "- line".
type Sections struct {
	// Background is rendered under IDENTITY and PURPOSE
	Background []string
	// Steps is rendered under INTERNAL ASSISTANT STEPS
	Steps []string
	// Output is rendered under OUTPUT INSTRUCTIONS, ahead of the JSON schema reminder
	Output []string
}

var (
	defaultBackground = []string{"You are a member of a team of agents working on a user request."}
	schemaReminder    = []string{
		"Always respond using the proper JSON schema.",
		"Always use the available additional information and context to enhance the response.",
	}
)

// Generator is Chain-of-Thought system prompt generator, used by nodes
// answering with structured output
type Generator struct {
	systemprompt.BaseGenerator
	sections Sections
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(sections Sections, providers ...systemprompt.ContextProvider) *Generator {
	ret := &Generator{sections: sections}
	if len(ret.sections.Background) == 0 {
		ret.sections.Background = defaultBackground
	}
	ret.AddContextProviders(providers...)
	return ret
}

func (g *Generator) Generate() string {
	var parts []string
	parts = section(parts, "IDENTITY and PURPOSE", g.sections.Background)
	parts = section(parts, "INTERNAL ASSISTANT STEPS", g.sections.Steps)
	output := make([]string, 0, len(g.sections.Output)+len(schemaReminder))
	output = append(append(output, g.sections.Output...), schemaReminder...)
	parts = section(parts, "OUTPUT INSTRUCTIONS", output)
	parts = append(parts, g.ContextSection()...)
	return systemprompt.Join(parts)
}

func section(parts []string, title string, lines []string) []string {
	if len(lines) == 0 {
		return parts
	}
	parts = append(parts, "# "+title)
	for _, l := range lines {
		parts = append(parts, "- "+l)
	}
	return append(parts, "")
}
