package llm

import (
	"encoding/json"
	"slices"

	cohere "github.com/cohere-ai/cohere-go/v2"
	gemini "github.com/google/generative-ai-go/genai"
	"github.com/rs/xid"

	"github.com/srijan-op/Brain-Chain/components"
)

// parameters is the subset of a tool argument JSON schema understood by
// providers that do not accept raw JSON schema
type parameters struct {
	Type        string                 `json:"type,omitempty"`
	Description string                 `json:"description,omitempty"`
	Enum        []any                  `json:"enum,omitempty"`
	Properties  map[string]*parameters `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Items       *parameters            `json:"items,omitempty"`
}

func parseParameters(def components.ToolDefinition) *parameters {
	ret := new(parameters)
	if def.Parameters == nil {
		return ret
	}
	bs, err := json.Marshal(def.Parameters)
	if err != nil {
		return ret
	}
	_ = json.Unmarshal(bs, ret)
	return ret
}

// cohereTool flattens top level properties into cohere parameter definitions
func cohereTool(def components.ToolDefinition) *cohere.Tool {
	params := parseParameters(def)
	ret := &cohere.Tool{
		Name:                 def.Name,
		Description:          def.Description,
		ParameterDefinitions: make(map[string]*cohere.ToolParameterDefinitionsValue, len(params.Properties)),
	}
	for name, prop := range params.Properties {
		value := &cohere.ToolParameterDefinitionsValue{
			Type:     cohereType(prop.Type),
			Required: ptr(slices.Contains(params.Required, name)),
		}
		if prop.Description != "" {
			value.Description = ptr(prop.Description)
		}
		ret.ParameterDefinitions[name] = value
	}
	return ret
}

func cohereType(t string) string {
	switch t {
	case "integer":
		return "int"
	case "number":
		return "float"
	case "boolean":
		return "bool"
	case "array":
		return "list"
	case "object":
		return "dict"
	}
	return "str"
}

func geminiTool(defs []components.ToolDefinition) *gemini.Tool {
	ret := &gemini.Tool{FunctionDeclarations: make([]*gemini.FunctionDeclaration, 0, len(defs))}
	for _, def := range defs {
		ret.FunctionDeclarations = append(ret.FunctionDeclarations, &gemini.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  geminiSchema(parseParameters(def)),
		})
	}
	return ret
}

func geminiSchema(src *parameters) *gemini.Schema {
	ret := &gemini.Schema{
		Type:        geminiType(src.Type),
		Description: src.Description,
		Required:    src.Required,
	}
	for _, v := range src.Enum {
		if str, ok := v.(string); ok {
			ret.Enum = append(ret.Enum, str)
		}
	}
	if len(src.Properties) > 0 {
		ret.Properties = make(map[string]*gemini.Schema, len(src.Properties))
		for name, prop := range src.Properties {
			ret.Properties[name] = geminiSchema(prop)
		}
	}
	if src.Items != nil {
		ret.Items = geminiSchema(src.Items)
	}
	return ret
}

func geminiType(t string) gemini.Type {
	switch t {
	case "string":
		return gemini.TypeString
	case "integer":
		return gemini.TypeInteger
	case "number":
		return gemini.TypeNumber
	case "boolean":
		return gemini.TypeBoolean
	case "array":
		return gemini.TypeArray
	}
	return gemini.TypeObject
}

// callID names a tool call for providers that do not return call IDs
func callID() string {
	return "call_" + xid.New().String()
}

func ptr[T any](v T) *T {
	return &v
}
