package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	loaded = &cache{values: make(map[reflect.Type]any)}

	dotenvOnce sync.Once
	dotenvFile = ".env"
)

// Load parses the environment into v once per type and caches the result.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDotenv()

	key := reflect.TypeFor[T]()

	loaded.mu.Lock()
	defer loaded.mu.Unlock()

	if cached, ok := loaded.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	loaded.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load that panics on failure. Use it in main for required settings.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: load %s: %v", reflect.TypeFor[T](), err))
	}
}

// Parse fills v from the environment with no caching.
func Parse[T any](v *T, opts ...env.Options) error {
	if v == nil {
		return ErrNilPointer
	}

	var o env.Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if err := env.ParseWithOptions(v, o); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// Cached returns the value Load stored for T.
func Cached[T any]() (T, error) {
	loaded.mu.Lock()
	defer loaded.mu.Unlock()

	cached, ok := loaded.values[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, ErrConfigNotLoaded
	}
	return cached.(T), nil
}

// Reset drops every cached configuration. Intended for tests.
func Reset() {
	loaded.mu.Lock()
	loaded.values = make(map[reflect.Type]any)
	loaded.mu.Unlock()
}

func loadDotenv() {
	dotenvOnce.Do(func() {
		// a missing .env is the normal case outside local development
		_ = godotenv.Load(dotenvFile)
	})
}
