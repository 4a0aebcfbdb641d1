package config

import (
	"maps"
	"os"
	"strings"
)

// Source supplies raw settings by name.
// Implementations are read on every lookup, so changes to the underlying
// store become visible to the next caller without a restart.
type Source interface {
	// Lookup returns the value of key and whether it was present.
	Lookup(key string) (string, bool)
	// Environ returns a snapshot of every setting as a key/value map.
	Environ() map[string]string
}

// OSEnv returns a Source backed by the process environment.
// The default .env file is loaded into the environment on first use.
func OSEnv() Source {
	loadDefaultEnv()
	return osEnv{}
}

type osEnv struct{}

func (osEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (osEnv) Environ() map[string]string {
	vars := os.Environ()
	m := make(map[string]string, len(vars))
	for _, kv := range vars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}

// Static returns an immutable Source over a copy of values.
func Static(values map[string]string) Source {
	return static(maps.Clone(values))
}

type static map[string]string

func (s static) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

func (s static) Environ() map[string]string {
	m := make(map[string]string, len(s))
	maps.Copy(m, s)
	return m
}
