// Package depot holds the static depot (agent) configuration and the query
// scope that confines rows to one agent.
package depot

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

type Depot struct {
	AgentID string   `yaml:"agent_id"`
	Name    string   `yaml:"name"`
	Address string   `yaml:"address"`
	Clients []string `yaml:"clients"`
}

type File struct {
	Depots []Depot `yaml:"depots"`
}

type Registry struct {
	mu     sync.RWMutex
	depots map[string]*Depot
}

func NewRegistry() *Registry {
	return &Registry{
		depots: make(map[string]*Depot),
	}
}

func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read depots config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse depots config: %w", err)
	}

	registry := NewRegistry()
	for i := range file.Depots {
		d := &file.Depots[i]
		if d.AgentID == "" {
			return nil, fmt.Errorf("depot %d has no agent_id", i)
		}
		if registry.Exists(d.AgentID) {
			return nil, fmt.Errorf("duplicate depot %q", d.AgentID)
		}
		registry.Register(d)
	}
	return registry, nil
}

func (r *Registry) Register(d *Depot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depots[d.AgentID] = d
}

func (r *Registry) Get(agentID string) *Depot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.depots[agentID]
}

func (r *Registry) Exists(agentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.depots[agentID]
	return ok
}

// Name falls back to the agent id for unknown depots.
func (r *Registry) Name(agentID string) string {
	if d := r.Get(agentID); d != nil && d.Name != "" {
		return d.Name
	}
	return agentID
}

// Clients returns the configured clients of a depot, or nil.
func (r *Registry) Clients(agentID string) []string {
	if d := r.Get(agentID); d != nil {
		return d.Clients
	}
	return nil
}

// All returns the depots sorted by agent id.
func (r *Registry) All() []*Depot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Depot, 0, len(r.depots))
	for _, d := range r.depots {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AgentID < result[j].AgentID })
	return result
}
