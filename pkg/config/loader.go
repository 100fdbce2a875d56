package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "WEFT_"

// Load builds the runtime configuration: defaults from the Default struct,
// overridden by WEFT_-prefixed environment variables
// (WEFT_RUNTIME_TASK_CONCURRENCY=8, WEFT_LOG_LEVEL=debug), then validated.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}
	envProvider := env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			// Only the leading segment is a section; leaf keys keep their
			// underscores (WEFT_RUNTIME_TASK_CONCURRENCY -> runtime.task_concurrency).
			for _, section := range []string{"log", "runtime"} {
				if strings.HasPrefix(key, section+"_") {
					return section + "." + strings.TrimPrefix(key, section+"_"), value
				}
			}
			return key, value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
