// Package chatconfig loads the per-dialect ChatSyntax presets that drive
// github.com/go-skynet/chatparser/pkg/chatparser, the way
// core/config.BackendConfigLoader loads per-model backend configs: built-in
// defaults for every known dialect, optionally overridden or extended by a
// YAML file on disk.
package chatconfig

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-skynet/chatparser/pkg/chatparser"
	"github.com/go-skynet/chatparser/pkg/reasoning"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Preset is a YAML-serialisable description of one dialect's parse options,
// kept separate from chatparser.ChatSyntax so the wire format can evolve
// (string enum values, omitempty) independently of the driver's types.
type Preset struct {
	Name               string `yaml:"name" json:"name"`
	Dialect            string `yaml:"dialect" json:"dialect"`
	ReasoningFormat     string `yaml:"reasoning_format,omitempty" json:"reasoning_format,omitempty"`
	ReasoningInContent bool   `yaml:"reasoning_in_content,omitempty" json:"reasoning_in_content,omitempty"`
	ParseToolCalls     bool   `yaml:"parse_tool_calls" json:"parse_tool_calls"`
}

func (p Preset) syntax() chatparser.ChatSyntax {
	format := chatparser.ReasoningFormatNone
	if p.ReasoningFormat == string(chatparser.ReasoningFormatDeepSeek) {
		format = chatparser.ReasoningFormatDeepSeek
	}
	return chatparser.ChatSyntax{
		Format:             chatparser.Dialect(p.Dialect),
		ReasoningFormat:    format,
		ReasoningInContent: p.ReasoningInContent,
		ParseToolCalls:     p.ParseToolCalls,
	}
}

// defaultPresets mirrors spec.md §4.C's per-dialect grammar: every dialect
// that carries a <think>/<|START_THINKING|> block gets ReasoningFormat set
// so Parser.TryParseReasoning actually looks for it.
var defaultPresets = map[string]Preset{
	"deepseek-r1": {Name: "deepseek-r1", Dialect: string(chatparser.DeepSeekR1), ReasoningFormat: string(chatparser.ReasoningFormatDeepSeek), ParseToolCalls: true},
	"hermes-2-pro": {Name: "hermes-2-pro", Dialect: string(chatparser.Hermes2Pro), ReasoningFormat: string(chatparser.ReasoningFormatDeepSeek), ParseToolCalls: true},
	"functionary-v3.2": {Name: "functionary-v3.2", Dialect: string(chatparser.FunctionaryV32), ParseToolCalls: true},
	"llama-3.x": {Name: "llama-3.x", Dialect: string(chatparser.Llama3x), ParseToolCalls: true},
	"command-r7b": {Name: "command-r7b", Dialect: string(chatparser.CommandR7B), ReasoningFormat: string(chatparser.ReasoningFormatDeepSeek), ParseToolCalls: true},
	"firefunction-v2": {Name: "firefunction-v2", Dialect: string(chatparser.FireFunctionV2), ParseToolCalls: true},
	"mistral-nemo": {Name: "mistral-nemo", Dialect: string(chatparser.MistralNemo), ParseToolCalls: true},
	"generic": {Name: "generic", Dialect: string(chatparser.Generic), ParseToolCalls: true},
}

// Registry resolves a named preset to the ChatSyntax chatparser.Parse needs.
// Build one with NewRegistry, which seeds every built-in dialect; the zero
// value holds no presets and its LoadFile panics on the nil map.
type Registry struct {
	mu       sync.RWMutex
	presets  map[string]Preset
}

// NewRegistry returns a Registry seeded with the built-in preset for every
// dialect chatparser ships a handler for.
func NewRegistry() *Registry {
	r := &Registry{presets: make(map[string]Preset, len(defaultPresets))}
	for name, p := range defaultPresets {
		r.presets[name] = p
	}
	return r
}

// LoadFile merges presets defined in a YAML file (a top-level list of
// Preset) into r, overriding any built-in of the same name. A missing or
// malformed file is logged and returned as an error; it never panics,
// mirroring readBackendConfigFromFile's "log and skip" behaviour for a
// directory of config files.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Msgf("chatconfig: cannot read preset file: %s", path)
		return fmt.Errorf("cannot read preset file %q: %w", path, err)
	}

	var loaded []Preset
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		log.Error().Err(err).Msgf("chatconfig: cannot unmarshal preset file: %s", path)
		return fmt.Errorf("cannot unmarshal preset file %q: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range loaded {
		if p.Name == "" || p.Dialect == "" {
			log.Warn().Msgf("chatconfig: skipping preset with no name/dialect in %s", path)
			continue
		}
		r.presets[p.Name] = p
	}
	return nil
}

// Resolve returns the ChatSyntax for a named preset. When prompt is
// non-empty, reasoning.DetectThinkingStartToken checks whether the model's
// prompt template already opened the thinking block, in which case
// ThinkingForcedOpen is set so TryParseReasoning doesn't look for an opening
// tag that will never arrive in the completion itself.
func (r *Registry) Resolve(name, prompt string) (chatparser.ChatSyntax, error) {
	r.mu.RLock()
	p, ok := r.presets[name]
	r.mu.RUnlock()
	if !ok {
		return chatparser.ChatSyntax{}, fmt.Errorf("chatconfig: unknown preset %q", name)
	}

	syntax := p.syntax()
	if prompt != "" && reasoning.DetectThinkingStartToken(prompt) != "" {
		syntax.ThinkingForcedOpen = true
	}
	return syntax, nil
}

// Names reports every preset currently registered, built-in and loaded.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	return names
}
