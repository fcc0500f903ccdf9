package scenario

import (
	"sort"
	"strings"
)

// Named pairs a scenario with the identity lookup key that selects it.
type Named struct {
	Lookup   string
	Scenario Scenario
}

// Resolver maps identities to scenarios. It is a pure function of the
// identity and the table it was built with; unknown identities get a seeded
// fallback and never an error.
type Resolver struct {
	table    map[string]Scenario
	fallback func(id Identity) Scenario
}

// NewStalkerResolver returns a resolver over the built-in Stalker table,
// with extra scenarios (keyed by MAC address) layered on top.
func NewStalkerResolver(extra map[string]Scenario) *Resolver {
	table := StalkerScenarios()
	for mac, s := range extra {
		if normalized, ok := NormalizeMAC(mac); ok {
			table[normalized] = s
		}
	}
	return &Resolver{
		table: table,
		fallback: func(id Identity) Scenario {
			return autoScenario("Auto-generated from MAC "+id.Label, MACSeed(id.Lookup))
		},
	}
}

// NewXtreamResolver returns a resolver over the built-in Xtream table,
// with extra scenarios (keyed by "username:password") layered on top.
func NewXtreamResolver(extra map[string]Scenario) *Resolver {
	table := XtreamScenarios()
	for key, s := range extra {
		table[key] = s
	}
	return &Resolver{
		table: table,
		fallback: func(id Identity) Scenario {
			password := strings.TrimPrefix(id.Lookup, id.Label+":")
			return autoScenario("Auto-generated for "+id.Label, CredentialsSeed(id.Label, password))
		},
	}
}

// Resolve returns the scenario for id.
func (r *Resolver) Resolve(id Identity) Scenario {
	if s, ok := r.table[id.Lookup]; ok {
		return s
	}
	return r.fallback(id)
}

// Named returns the predefined scenarios sorted by lookup key.
func (r *Resolver) Named() []Named {
	out := make([]Named, 0, len(r.table))
	for k, s := range r.table {
		out = append(out, Named{Lookup: k, Scenario: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lookup < out[j].Lookup })
	return out
}
