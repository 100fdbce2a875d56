package workflow

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/weftworks/weft/engine/agent"
	"github.com/weftworks/weft/engine/grouping"
	"github.com/weftworks/weft/engine/tool"
)

// DependencyConfig is one edge of the job graph: this job consumes the
// artifacts of the job named by DependsOn, optionally split into groups and
// projected down to an allowlist of fields.
type DependencyConfig struct {
	DependsOn     string   `json:"depends_on"               yaml:"depends_on"               validate:"required"`
	GroupBy       []string `json:"group_by,omitempty"       yaml:"group_by,omitempty"`
	IncludeFields []string `json:"include_fields,omitempty" yaml:"include_fields,omitempty"`
	ForceSchema   bool     `json:"force_schema,omitempty"   yaml:"force_schema,omitempty"`
	OrderBy       string   `json:"order_by,omitempty"       yaml:"order_by,omitempty"`
	OrderDir      string   `json:"order_dir,omitempty"      yaml:"order_dir,omitempty"      validate:"omitempty,oneof=asc desc"`
}

// GroupingSpec translates the edge into the resolver's input.
func (d *DependencyConfig) GroupingSpec() *grouping.Spec {
	return &grouping.Spec{
		GroupBy:       d.GroupBy,
		IncludeFields: d.IncludeFields,
		ForceSchema:   d.ForceSchema,
		OrderBy:       d.OrderBy,
		OrderDesc:     d.OrderDir == "desc",
	}
}

// JobConfig is a named stage in the workflow graph.
type JobConfig struct {
	ID           string             `json:"id"                     yaml:"id"                     validate:"required"`
	Name         string             `json:"name,omitempty"         yaml:"name,omitempty"`
	UsesInput    bool               `json:"uses_input,omitempty"   yaml:"uses_input,omitempty"`
	Tool         tool.Kind          `json:"tool"                   yaml:"tool"                   validate:"required"`
	Dependencies []DependencyConfig `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Assignments  []string           `json:"assignments,omitempty"  yaml:"assignments,omitempty"`
}

// Config is a full workflow definition: the job DAG plus the assignment
// (agent) configurations jobs bind to.
type Config struct {
	ID          string         `json:"id"                    yaml:"id"          validate:"required"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Jobs        []JobConfig    `json:"jobs"                  yaml:"jobs"        validate:"required,min=1,dive"`
	Agents      []agent.Config `json:"agents,omitempty"      yaml:"agents,omitempty"`
}

// Load reads and validates a workflow definition from a YAML file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural validity: field constraints, unique job IDs,
// known tool kinds, dependency edges that reference declared jobs, parseable
// grouping paths, assignments that reference declared agents, and an acyclic
// graph.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("workflow %s failed validation: %w", c.ID, err)
	}
	agents := make(map[string]struct{}, len(c.Agents))
	for i := range c.Agents {
		a := &c.Agents[i]
		if err := a.Validate(); err != nil {
			return fmt.Errorf("workflow %s: %w", c.ID, err)
		}
		if _, dup := agents[a.ID]; dup {
			return fmt.Errorf("workflow %s: duplicate agent id %q", c.ID, a.ID)
		}
		agents[a.ID] = struct{}{}
	}
	jobs := make(map[string]struct{}, len(c.Jobs))
	for i := range c.Jobs {
		if _, dup := jobs[c.Jobs[i].ID]; dup {
			return fmt.Errorf("workflow %s: duplicate job id %q", c.ID, c.Jobs[i].ID)
		}
		jobs[c.Jobs[i].ID] = struct{}{}
	}
	for i := range c.Jobs {
		if err := c.validateJob(&c.Jobs[i], jobs, agents); err != nil {
			return err
		}
	}
	if _, err := c.SortedJobs(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateJob(job *JobConfig, jobs, agents map[string]struct{}) error {
	if !job.Tool.IsValid() {
		return fmt.Errorf("job %s: unknown tool kind %q", job.ID, job.Tool)
	}
	for _, assignment := range job.Assignments {
		if _, ok := agents[assignment]; !ok {
			return fmt.Errorf("job %s: assignment references unknown agent %q", job.ID, assignment)
		}
	}
	for i := range job.Dependencies {
		dep := &job.Dependencies[i]
		if _, ok := jobs[dep.DependsOn]; !ok {
			return fmt.Errorf("job %s: dependency references unknown job %q", job.ID, dep.DependsOn)
		}
		if dep.DependsOn == job.ID {
			return fmt.Errorf("job %s: depends on itself", job.ID)
		}
		if _, err := grouping.ParsePaths(dep.GroupBy); err != nil {
			return fmt.Errorf("job %s: %w", job.ID, err)
		}
		if _, err := grouping.ParsePaths(dep.IncludeFields); err != nil {
			return fmt.Errorf("job %s: %w", job.ID, err)
		}
	}
	return nil
}

// Job returns the job config by ID.
func (c *Config) Job(id string) (*JobConfig, bool) {
	for i := range c.Jobs {
		if c.Jobs[i].ID == id {
			return &c.Jobs[i], true
		}
	}
	return nil, false
}

// Agent returns the agent config by ID.
func (c *Config) Agent(id string) (*agent.Config, bool) {
	for i := range c.Agents {
		if c.Agents[i].ID == id {
			return &c.Agents[i], true
		}
	}
	return nil, false
}

// AgentIndex returns the agent configs keyed by ID.
func (c *Config) AgentIndex() map[string]*agent.Config {
	index := make(map[string]*agent.Config, len(c.Agents))
	for i := range c.Agents {
		index[c.Agents[i].ID] = &c.Agents[i]
	}
	return index
}

// SortedJobs returns the jobs in topological order (prerequisites first,
// declaration order as the tiebreak) or an error naming a job on a cycle.
func (c *Config) SortedJobs() ([]*JobConfig, error) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(c.Jobs))
	sorted := make([]*JobConfig, 0, len(c.Jobs))

	var visit func(job *JobConfig) error
	visit = func(job *JobConfig) error {
		switch state[job.ID] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("workflow %s: dependency cycle through job %q", c.ID, job.ID)
		}
		state[job.ID] = visiting
		for i := range job.Dependencies {
			upstream, ok := c.Job(job.Dependencies[i].DependsOn)
			if !ok {
				return fmt.Errorf("job %s: dependency references unknown job %q", job.ID, job.Dependencies[i].DependsOn)
			}
			if err := visit(upstream); err != nil {
				return err
			}
		}
		state[job.ID] = done
		sorted = append(sorted, job)
		return nil
	}
	for i := range c.Jobs {
		if err := visit(&c.Jobs[i]); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
