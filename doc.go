// File: lixenwraith/gs/config/doc.go

// Package config builds typed configuration objects from plain Go struct
// declarations. The struct type is the schema: its exported fields, their
// types and a handful of struct tags describe every configuration key, the
// key's default value and an optional external (environment) name.
//
// Features:
//   - Schema derived from the struct declaration, cached per type
//   - Defaults from `default` tags and an optional SetDefaults hook
//   - External name indirection via `env` tags or an ENV:<name> token in `desc`
//   - Sources: mappings, JSON text, YAML text, file paths (JSON/YAML/TOML) and
//     environment snapshots
//   - Recursive coercion into ints, floats, bools, strings, time.Time, Date,
//     time.Duration, nested schemas and lists of all of them
//   - Sample and Snapshot projections that render back into plain mappings
//   - Builder for layering several sources with validation
//
// Quick Start:
//
//	type Database struct {
//	    Host string `default:"localhost"`
//	    Port int    `default:"5432"`
//	}
//
//	type Config struct {
//	    Debug    bool     `env:"APP_DEBUG"`
//	    Database Database `desc:"primary database"`
//	    Replicas []Database
//	}
//
//	cfg, err := config.Load[Config]("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	env, err := config.Load[Config](config.ProcessEnviron())
//
// Supported Tags:
//   - env:"NAME"       external name used to look the field up in a source
//   - desc:"text"      free-text description; an ENV:NAME token binds the name
//   - default:"value"  default value, parsed as YAML and coerced to the field type
//   - config:"-"       skip the field
//
// Errors:
// Construction either returns a complete instance or fails with a SchemaError,
// CoercionError or SourceLoadError. Use errors.Is with ErrSchema, ErrCoercion
// and ErrSourceLoad to classify failures.
package config
