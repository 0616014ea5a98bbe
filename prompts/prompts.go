// Package prompts holds the role instructions of the agent team.
//
// The defaults are embedded from prompts.yaml; a file with the same layout can
// override any of them.
package prompts

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/srijan-op/Brain-Chain/components/systemprompt"
	"github.com/srijan-op/Brain-Chain/components/systemprompt/cot"
	"github.com/srijan-op/Brain-Chain/components/systemprompt/simple"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Structured is the prompt of a node answering with a routing decision
type Structured struct {
	Background []string `yaml:"background"`
	Steps      []string `yaml:"steps"`
	Output     []string `yaml:"output"`
}

// Generator returns the chain-of-thought generator for the prompt
func (p Structured) Generator(providers ...systemprompt.ContextProvider) systemprompt.Generator {
	return cot.New(cot.Sections{Background: p.Background, Steps: p.Steps, Output: p.Output}, providers...)
}

// FreeText is the prompt of a node answering with free text
type FreeText struct {
	Instruction string `yaml:"instruction"`
}

// Generator returns the simple generator for the prompt
func (p FreeText) Generator(providers ...systemprompt.ContextProvider) systemprompt.Generator {
	return simple.New(p.Instruction, providers...)
}

// Set is the full set of role prompts
type Set struct {
	Supervisor Structured `yaml:"supervisor"`
	Enhancer   FreeText   `yaml:"enhancer"`
	Researcher FreeText   `yaml:"researcher"`
	Coder      FreeText   `yaml:"coder"`
	Validator  Structured `yaml:"validator"`
}

// Default returns the embedded prompts
func Default() *Set {
	set := new(Set)
	if err := yaml.Unmarshal(defaultPrompts, set); err != nil {
		panic(fmt.Sprintf("prompts: embedded prompts.yaml is invalid: %v", err))
	}
	return set
}

// Load returns the embedded prompts overridden by the file at path.
// Roles missing from the file keep their defaults.
func Load(path string) (*Set, error) {
	set := Default()
	if path == "" {
		return set, nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	var override Set
	if err := yaml.Unmarshal(bs, &override); err != nil {
		return nil, fmt.Errorf("parse prompts file %s: %w", path, err)
	}
	set.merge(&override)
	return set, nil
}

func (s *Set) merge(o *Set) {
	mergeStructured(&s.Supervisor, o.Supervisor)
	mergeStructured(&s.Validator, o.Validator)
	mergeFreeText(&s.Enhancer, o.Enhancer)
	mergeFreeText(&s.Researcher, o.Researcher)
	mergeFreeText(&s.Coder, o.Coder)
}

func mergeStructured(dst *Structured, src Structured) {
	if len(src.Background) > 0 {
		dst.Background = src.Background
	}
	if len(src.Steps) > 0 {
		dst.Steps = src.Steps
	}
	if len(src.Output) > 0 {
		dst.Output = src.Output
	}
}

func mergeFreeText(dst *FreeText, src FreeText) {
	if src.Instruction != "" {
		dst.Instruction = src.Instruction
	}
}
