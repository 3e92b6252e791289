package depgraph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// serviceEntry mirrors one value in the dependency graph file:
//
//	auth:
//	  depends_on: []
//	api:
//	  depends_on: [auth]
type serviceEntry struct {
	DependsOn []string `yaml:"depends_on"`
}

// LoadFile reads a dependency graph from a YAML file. A missing file or an
// empty document loads as an empty snapshot so an unavailable source never
// crashes the service; every assessment then fails unknown-service
// validation instead. Malformed YAML is returned as an error so callers can
// decide whether to keep a previous snapshot.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return EmptySnapshot(), nil
		}
		return nil, fmt.Errorf("read dependency graph: %w", err)
	}

	var entries map[string]serviceEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse dependency graph: %w", err)
	}
	if entries == nil {
		return EmptySnapshot(), nil
	}

	services := make(map[string][]string, len(entries))
	for name, entry := range entries {
		services[name] = entry.DependsOn
	}
	return NewSnapshot(services), nil
}
