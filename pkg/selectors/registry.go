package selectors

import (
	"sort"
	"sync"
)

// Registry holds every table compiled once at startup
type Registry struct {
	chains map[string]Chain // "table.field" -> chain
}

// Load compiles the given tables, failing fast on the first invalid pattern.
// Fields are compiled in sorted order so the reported failure is deterministic.
func Load(tables ...Table) (*Registry, error) {
	r := &Registry{chains: make(map[string]Chain)}
	for _, t := range tables {
		fields := make([]string, 0, len(t.Fields))
		for f := range t.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		for _, f := range fields {
			c, err := Compile(t.Name+"."+f, t.Fields[f]...)
			if err != nil {
				return nil, err
			}
			r.chains[t.Name+"."+f] = c
		}
	}
	return r, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the registry of built-in tables, compiled on first use
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load(Tables()...)
	})
	return defaultReg, defaultErr
}

// Validate compiles every built-in table and reports the first invalid pattern
func Validate() error {
	_, err := Default()
	return err
}

// Chain looks up a compiled chain. An unknown field yields an empty chain, which never matches.
func (r *Registry) Chain(t Table, field string) Chain {
	if c, ok := r.chains[t.Name+"."+field]; ok {
		return c
	}
	return Chain{Field: t.Name + "." + field}
}

// Count returns the number of compiled chains
func (r *Registry) Count() int {
	return len(r.chains)
}
