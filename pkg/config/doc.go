// Package config loads environment driven configuration structs.
//
// Structs are described with caarlos0/env tags. A .env file in the working directory is
// read once per process (missing files are fine) before the first struct is parsed, so
// local development needs no exported variables.
//
//	type Config struct {
//		URL     string        `env:"MONGODB_URL,required"`
//		Timeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Load caches the parsed value per type; later calls for the same type return the cached
// copy. Parse skips the cache and accepts env.Options, which tests use to inject an
// environment map.
package config
