package depgraph

import "sort"

// Snapshot is an immutable view of the service dependency graph.
// Keys are the universe of known services; values list the services each
// one depends on. A Snapshot is never mutated after construction, so it is
// safe to share across concurrent assessments.
type Snapshot struct {
	services map[string][]string
}

// NewSnapshot builds a snapshot from a service -> depends_on mapping.
// The input map is copied so later mutation by the caller cannot leak in.
func NewSnapshot(services map[string][]string) *Snapshot {
	copied := make(map[string][]string, len(services))
	for name, deps := range services {
		copied[name] = append([]string(nil), deps...)
	}
	return &Snapshot{services: copied}
}

// EmptySnapshot returns a snapshot with no known services.
func EmptySnapshot() *Snapshot {
	return &Snapshot{services: map[string][]string{}}
}

// Has reports whether the service is known to the graph.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.services[name]
	return ok
}

// Len returns the number of known services.
func (s *Snapshot) Len() int {
	return len(s.services)
}

// Known returns the sorted universe of known service names.
func (s *Snapshot) Known() []string {
	out := make([]string, 0, len(s.services))
	for name := range s.services {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Propagate returns the sorted set of services that depend, directly or
// transitively, on any service in direct. Services in direct never appear
// in the result, even when they are also downstream of another direct
// service.
//
// Breadth-first over reverse dependencies: the queue is seeded with the
// direct set, and each discovered dependent is marked and enqueued at most
// once, so cycles terminate. The impacted set is intentionally NOT seeded
// with the direct services; doing so would suppress dependents shared
// between two directly-touched services.
func (s *Snapshot) Propagate(direct []string) []string {
	impacted := make(map[string]bool)
	queue := append([]string(nil), direct...)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for service, deps := range s.services {
			if impacted[service] {
				continue
			}
			for _, dep := range deps {
				if dep == current {
					impacted[service] = true
					queue = append(queue, service)
					break
				}
			}
		}
	}

	for _, name := range direct {
		delete(impacted, name)
	}

	out := make([]string, 0, len(impacted))
	for name := range impacted {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
