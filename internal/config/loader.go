package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

//go:embed defaults.yaml
var defaults []byte

// sections accepted from SECTION_FIELD environment variables
var sections = map[string]struct{}{
	"server":   {},
	"llm":      {},
	"search":   {},
	"code":     {},
	"workflow": {},
	"agents":   {},
	"log":      {},
	"prompts":  {},
}

// alias maps a vendor environment variable onto a config key.
// It applies only when the key is still empty and, if when is set,
// the provider key named by whenKey equals when.
type alias struct {
	env     string
	key     string
	whenKey string
	when    string
}

// first match wins
var aliases = []alias{
	{env: "GROQ_API_KEY", key: "llm.api_key", whenKey: "llm.provider", when: "openai"},
	{env: "OPENAI_API_KEY", key: "llm.api_key", whenKey: "llm.provider", when: "openai"},
	{env: "ANTHROPIC_API_KEY", key: "llm.api_key", whenKey: "llm.provider", when: "anthropic"},
	{env: "COHERE_API_KEY", key: "llm.api_key", whenKey: "llm.provider", when: "cohere"},
	{env: "GEMINI_API_KEY", key: "llm.api_key", whenKey: "llm.provider", when: "gemini"},
	{env: "TAVILY_API_KEY", key: "search.api_key"},
	{env: "RIZA_API_KEY", key: "code.api_key"},
}

// Load reads the configuration.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SERVER_PORT, LLM_MODEL, WORKFLOW_MAX_STEPS, ...)
//  2. Vendor key variables (GROQ_API_KEY, TAVILY_API_KEY, RIZA_API_KEY, ...)
//     when the matching key is still empty
//  3. YAML config file at configPath, skipped when configPath is empty
//  4. Built-in defaults
//
// A .env file in the working directory is loaded first; it never overrides
// variables already present in the environment. Empty variables count as unset.
//
// Environment variables split on the first underscore:
//
//	SERVER_PORT -> server.port
//	AGENTS_MAX_TOOL_ITERATIONS -> agents.max_tool_iterations
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Read loads the configuration like Load without validating it
func Read(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return transformEnv(key), value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := applyAliases(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)
	cfg.Search.Provider = strings.ToLower(cfg.Search.Provider)
	cfg.Code.Provider = strings.ToLower(cfg.Code.Provider)
	return &cfg, nil
}

// transformEnv maps SECTION_FIELD_NAME to section.field_name and drops
// variables outside the known sections.
func transformEnv(s string) string {
	lower := strings.ToLower(s)
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return ""
	}
	if _, ok := sections[parts[0]]; !ok {
		return ""
	}
	return parts[0] + "." + parts[1]
}

func applyAliases(k *koanf.Koanf) error {
	for _, a := range aliases {
		if k.String(a.key) != "" {
			continue
		}
		if a.whenKey != "" && !strings.EqualFold(k.String(a.whenKey), a.when) {
			continue
		}
		v := os.Getenv(a.env)
		if v == "" {
			continue
		}
		if err := k.Set(a.key, v); err != nil {
			return fmt.Errorf("failed to apply %s: %w", a.env, err)
		}
	}
	return nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
