package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/engine/agent"
	"github.com/weftworks/weft/engine/tool"
)

func validConfig() *Config {
	return &Config{
		ID: "review",
		Jobs: []JobConfig{
			{ID: "extract", Tool: tool.KindConversation, UsesInput: true, Assignments: []string{"reader"}},
			{
				ID:   "summarize",
				Tool: tool.KindConversation,
				Dependencies: []DependencyConfig{
					{DependsOn: "extract", GroupBy: []string{"category"}, IncludeFields: []string{"value"}},
				},
				Assignments: []string{"reader"},
			},
		},
		Agents: []agent.Config{
			{ID: "reader", Provider: agent.ProviderOpenAI, Model: "gpt-4o"},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("Should accept a valid workflow", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})
	t.Run("Should reject unknown tool kinds", func(t *testing.T) {
		cfg := validConfig()
		cfg.Jobs[0].Tool = "shell"
		assert.ErrorContains(t, cfg.Validate(), "unknown tool kind")
	})
	t.Run("Should reject duplicate job ids", func(t *testing.T) {
		cfg := validConfig()
		cfg.Jobs[1].ID = "extract"
		assert.ErrorContains(t, cfg.Validate(), "duplicate job id")
	})
	t.Run("Should reject assignments to unknown agents", func(t *testing.T) {
		cfg := validConfig()
		cfg.Jobs[0].Assignments = []string{"ghost"}
		assert.ErrorContains(t, cfg.Validate(), `unknown agent "ghost"`)
	})
	t.Run("Should reject dependencies on unknown jobs", func(t *testing.T) {
		cfg := validConfig()
		cfg.Jobs[1].Dependencies[0].DependsOn = "missing"
		assert.ErrorContains(t, cfg.Validate(), `unknown job "missing"`)
	})
	t.Run("Should reject self-dependencies", func(t *testing.T) {
		cfg := validConfig()
		cfg.Jobs[1].Dependencies[0].DependsOn = "summarize"
		assert.ErrorContains(t, cfg.Validate(), "depends on itself")
	})
	t.Run("Should reject malformed grouping paths", func(t *testing.T) {
		cfg := validConfig()
		cfg.Jobs[1].Dependencies[0].GroupBy = []string{""}
		assert.ErrorContains(t, cfg.Validate(), "empty field path")
	})
	t.Run("Should reject dependency cycles", func(t *testing.T) {
		cfg := validConfig()
		cfg.Jobs[0].Dependencies = []DependencyConfig{{DependsOn: "summarize"}}
		assert.ErrorContains(t, cfg.Validate(), "dependency cycle")
	})
	t.Run("Should reject agents without a model", func(t *testing.T) {
		cfg := validConfig()
		cfg.Agents[0].Model = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestSortedJobs(t *testing.T) {
	t.Run("Should order prerequisites first", func(t *testing.T) {
		cfg := &Config{
			ID: "wf",
			Jobs: []JobConfig{
				{ID: "c", Tool: tool.KindConversation, Dependencies: []DependencyConfig{{DependsOn: "b"}}},
				{ID: "a", Tool: tool.KindConversation},
				{ID: "b", Tool: tool.KindConversation, Dependencies: []DependencyConfig{{DependsOn: "a"}}},
			},
		}
		sorted, err := cfg.SortedJobs()
		require.NoError(t, err)
		ids := make([]string, 0, len(sorted))
		for _, j := range sorted {
			ids = append(ids, j.ID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})
	t.Run("Should keep declaration order for independent jobs", func(t *testing.T) {
		cfg := &Config{
			ID: "wf",
			Jobs: []JobConfig{
				{ID: "x", Tool: tool.KindConversation},
				{ID: "y", Tool: tool.KindConversation},
			},
		}
		sorted, err := cfg.SortedJobs()
		require.NoError(t, err)
		assert.Equal(t, "x", sorted[0].ID)
		assert.Equal(t, "y", sorted[1].ID)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Should load a workflow from YAML", func(t *testing.T) {
		raw := `
id: review
description: grouped review pipeline
agents:
  - id: reader
    provider: openai
    model: gpt-4o
    instructions: Extract findings as JSON.
jobs:
  - id: extract
    tool: conversation
    uses_input: true
    assignments: [reader]
  - id: summarize
    tool: conversation
    dependencies:
      - depends_on: extract
        group_by: [category]
        include_fields: [value]
        order_by: rank
        order_dir: desc
    assignments: [reader]
`
		path := filepath.Join(t.TempDir(), "workflow.yaml")
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "review", cfg.ID)
		require.Len(t, cfg.Jobs, 2)

		job, ok := cfg.Job("summarize")
		require.True(t, ok)
		require.Len(t, job.Dependencies, 1)
		spec := job.Dependencies[0].GroupingSpec()
		assert.Equal(t, []string{"category"}, spec.GroupBy)
		assert.True(t, spec.OrderDesc)

		index := cfg.AgentIndex()
		require.Contains(t, index, "reader")
		assert.Equal(t, agent.ProviderOpenAI, index["reader"].Provider)
	})
	t.Run("Should reject unreadable files", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "failed to read workflow file")
	})
	t.Run("Should reject invalid YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("jobs: [}"), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "failed to parse workflow file")
	})
	t.Run("Should reject workflows without jobs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("id: empty\njobs: []\n"), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "failed validation")
	})
}
