package shell

import (
	"bytes"
	"os"
	"sort"
	"strings"
	"sync"
)

// Environ is the environment fragments inherit and shared fragments write
// back into.
type Environ interface {
	Environ() []string
	Setenv(key, value string) error
	Unsetenv(key string) error
}

// OSEnviron is the process environment.
type OSEnviron struct{}

func (OSEnviron) Environ() []string               { return os.Environ() }
func (OSEnviron) Setenv(key, value string) error { return os.Setenv(key, value) }
func (OSEnviron) Unsetenv(key string) error      { return os.Unsetenv(key) }

// MapEnviron is an in-memory Environ, seeded from a KEY=VALUE list.
type MapEnviron struct {
	mu   sync.Mutex
	vars map[string]string
}

// NewMapEnviron copies kv into a new MapEnviron.
func NewMapEnviron(kv []string) *MapEnviron {
	return &MapEnviron{vars: parseEnv(kv)}
}

// Environ returns the variables as a sorted KEY=VALUE list.
func (m *MapEnviron) Environ() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.vars))
	for k, v := range m.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func (m *MapEnviron) Setenv(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
	return nil
}

func (m *MapEnviron) Unsetenv(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, key)
	return nil
}

// Lookup returns the value of key and whether it is set.
func (m *MapEnviron) Lookup(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vars[key]
	return v, ok
}

// shellManaged are variables the host shell maintains on its own; they
// describe the host shell, not the fragment's intent.
var shellManaged = map[string]bool{
	"PWD":    true,
	"OLDPWD": true,
	"SHLVL":  true,
	"_":      true,
}

// EnvChange is the result of importing a shared fragment's environment.
type EnvChange struct {
	Set   []string // Keys added or changed, sorted.
	Unset []string // Keys removed, sorted.
}

// Empty reports whether the import changed nothing.
func (c EnvChange) Empty() bool { return len(c.Set) == 0 && len(c.Unset) == 0 }

// ImportEnv applies the difference between before and the NUL-separated
// dump to env. Shell-managed variables are ignored.
func ImportEnv(env Environ, before []string, dump []byte) (EnvChange, error) {
	prev := parseEnv(before)
	next := parseEnv(splitDump(dump))

	var change EnvChange
	for k, v := range next {
		if shellManaged[k] {
			continue
		}
		if old, ok := prev[k]; ok && old == v {
			continue
		}
		if err := env.Setenv(k, v); err != nil {
			return change, err
		}
		change.Set = append(change.Set, k)
	}
	for k := range prev {
		if shellManaged[k] {
			continue
		}
		if _, ok := next[k]; ok {
			continue
		}
		if err := env.Unsetenv(k); err != nil {
			return change, err
		}
		change.Unset = append(change.Unset, k)
	}
	sort.Strings(change.Set)
	sort.Strings(change.Unset)
	return change, nil
}

func splitDump(dump []byte) []string {
	var out []string
	for _, rec := range bytes.Split(dump, []byte{0}) {
		if len(rec) > 0 {
			out = append(out, string(rec))
		}
	}
	return out
}

// parseEnv maps KEY=VALUE entries. Entries without '=' or with an empty key
// are dropped; the last duplicate wins.
func parseEnv(kv []string) map[string]string {
	m := make(map[string]string, len(kv))
	for _, e := range kv {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = v
	}
	return m
}
