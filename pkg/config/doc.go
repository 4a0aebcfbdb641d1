// Package config loads application configuration from environment variables
// and exposes settings sources that can be passed explicitly to subsystems.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - Load parses the environment into any Go struct using `env` tags and
//     caches the result per type for the lifetime of the process.
//   - Parse fills a struct from any Source without caching, which keeps
//     tests independent of the process environment.
//   - LoadEnv loads additional .env files before parsing.
//   - Source is a read-through settings view. OSEnv reads the live process
//     environment on every call; Static serves a fixed map and is handy in
//     tests or when the composition root has already collected settings.
//
// # Usage
//
//	type MailerConfig struct {
//	    Transport string `env:"MAILER_TRANSPORT" envDefault:"brevo"`
//	}
//
//	var cfg MailerConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
//	src := config.OSEnv()
//	key, ok := src.Lookup("BREVO_API_KEY")
//
// Sources are resolved lazily by their consumers, so a setting changed after
// start-up is picked up by the next lookup. Load, by contrast, caches.
//
// # Error Handling
//
//   - ErrParsingConfig: env vars could not be parsed into the struct.
//   - ErrNilPointer: nil pointer passed to Load, MustLoad or Parse.
//   - ErrLoadingEnvFile: LoadEnv could not read a file.
//
// Use ResetCache between tests that load the same type with different values.
package config
