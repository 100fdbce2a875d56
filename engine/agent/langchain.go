package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/weftworks/weft/engine/core"
	"github.com/weftworks/weft/engine/task"
)

// LangchainRunner runs conversation turns through langchaingo models. Models
// are constructed lazily per assignment config and cached by assignment ID;
// the cache is shared by the concurrently executing tasks of a job run.
type LangchainRunner struct {
	mu     sync.Mutex
	models map[string]llms.Model
}

func NewLangchainRunner() *LangchainRunner {
	return &LangchainRunner{models: make(map[string]llms.Model)}
}

func (r *LangchainRunner) RunConversation(ctx context.Context, cfg *Config, thread *task.Thread) (*Reply, error) {
	model, err := r.modelFor(cfg)
	if err != nil {
		return nil, err
	}
	messages := buildMessages(cfg, thread)
	resp, err := model.GenerateContent(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("conversation turn failed for assignment %s: %w", cfg.ID, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("conversation returned no choices for assignment %s", cfg.ID)
	}
	return &Reply{Content: resp.Choices[0].Content}, nil
}

func (r *LangchainRunner) modelFor(cfg *Config) (llms.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if model, ok := r.models[cfg.ID]; ok {
		return model, nil
	}
	model, err := createModel(cfg)
	if err != nil {
		return nil, err
	}
	r.models[cfg.ID] = model
	return model, nil
}

func createModel(cfg *Config) (llms.Model, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(cfg.Model)}
		if cfg.APIKey != "" {
			opts = append(opts, openai.WithToken(cfg.APIKey))
		}
		return openai.New(opts...)
	case ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithModel(cfg.Model)}
		if cfg.APIKey != "" {
			opts = append(opts, anthropic.WithToken(cfg.APIKey))
		}
		return anthropic.New(opts...)
	case ProviderOllama:
		return ollama.New(ollama.WithModel(cfg.Model))
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// buildMessages renders the seeded thread as chat messages: the assignment's
// standing instructions as the system message, then one human message per
// thread entry in seeding order.
func buildMessages(cfg *Config, thread *task.Thread) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(thread.Entries)+1)
	if cfg.Instructions != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, cfg.Instructions))
	}
	for _, entry := range thread.Entries {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, renderEntry(entry)))
	}
	return messages
}

func renderEntry(entry task.Entry) string {
	var b strings.Builder
	if entry.Text != "" {
		b.WriteString(entry.Text)
	}
	if entry.Data != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.Write(core.StableJSONBytes(entry.Data))
	}
	for _, f := range entry.Files {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("[attached file: %s (%s)]", f.Name, f.Mime))
	}
	return b.String()
}
