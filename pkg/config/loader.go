package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	cacheMu sync.Mutex
	cache   = map[reflect.Type]any{}
)

// loadDefaultEnv reads ./.env into the process environment at most once.
// A missing file is ignored.
func loadDefaultEnv() {
	dotenvOnce.Do(func() { _ = godotenv.Load() })
}

// LoadEnv loads the given .env files into the process environment.
// Variables that are already set keep their values.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Parse fills v from src using its `env` struct tags. Nothing is cached, and
// the process environment is not consulted.
func Parse[T any](src Source, v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	environ := src.Environ()
	if environ == nil {
		environ = map[string]string{}
	}
	if err := env.ParseWithOptions(v, env.Options{Environment: environ}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// Load fills v from the process environment (after ./.env). The first
// successful parse of each type is cached; failures are not, so a later call
// can succeed once the environment is fixed.
//
//	var cfg struct {
//		Transport string `env:"MAILER_TRANSPORT" envDefault:"brevo"`
//	}
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	key := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := Parse(OSEnv(), &parsed); err != nil {
		return err
	}
	cache[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// ResetCache forgets every loaded configuration.
func ResetCache() {
	cacheMu.Lock()
	clear(cache)
	cacheMu.Unlock()
}
