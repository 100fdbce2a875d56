package agent

import "fmt"

// Provider identifies which LLM backend an assignment runs against.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// Config binds a job to an actor responsible for executing its tasks: an
// agent configuration with a model and standing instructions. A job may carry
// several assignments, each producing a parallel task per tuple.
type Config struct {
	ID           string   `json:"id"           yaml:"id"           validate:"required"`
	Name         string   `json:"name"         yaml:"name"`
	Provider     Provider `json:"provider"     yaml:"provider"     validate:"required,oneof=openai anthropic ollama"`
	Model        string   `json:"model"        yaml:"model"        validate:"required"`
	Instructions string   `json:"instructions" yaml:"instructions"`
	APIKey       string   `json:"-"            yaml:"api_key,omitempty"`
}

func (c *Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("assignment is missing an id")
	}
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderOllama:
	default:
		return fmt.Errorf("assignment %s: unsupported provider %q", c.ID, c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("assignment %s: model is required", c.ID)
	}
	return nil
}
