// File: lixenwraith/gs/config/builder.go
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/lixenwraith/gs/config/dotenv"
)

// ValidatorFunc validates a fully loaded configuration.
type ValidatorFunc[T any] func(cfg *T) error

// layer is one source of a Builder, resolved at Build time.
type layer struct {
	name string
	load func() (map[string]any, error)
}

// Builder layers several sources into one *T. Later sources override earlier
// ones; nested mappings are merged key by key.
type Builder[T any] struct {
	layers     []layer
	args       []string
	envPrefix  string
	logger     *zap.Logger
	validators []ValidatorFunc[T]
}

// NewBuilder creates a new configuration builder
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{
		args:   os.Args[1:],
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used while building.
func (b *Builder[T]) WithLogger(logger *zap.Logger) *Builder[T] {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithArgs sets the command-line arguments searched by WithFileDiscovery.
func (b *Builder[T]) WithArgs(args []string) *Builder[T] {
	b.args = args
	return b
}

// WithEnvPrefix keeps only environment entries starting with prefix and strips
// it before lookup. It applies to WithEnviron, WithProcessEnv and WithEnvFile.
func (b *Builder[T]) WithEnvPrefix(prefix string) *Builder[T] {
	b.envPrefix = prefix
	return b
}

// WithSource adds any source accepted by Normalize.
func (b *Builder[T]) WithSource(source any) *Builder[T] {
	b.layers = append(b.layers, layer{
		name: fmt.Sprintf("source(%T)", source),
		load: func() (map[string]any, error) { return Normalize(source) },
	})
	return b
}

// WithFile adds a config file. A missing file is skipped.
func (b *Builder[T]) WithFile(path string) *Builder[T] {
	b.layers = append(b.layers, layer{
		name: "file:" + path,
		load: func() (map[string]any, error) { return b.loadFile(path) },
	})
	return b
}

// WithFileDiscovery adds the first config file found by DiscoverFile.
func (b *Builder[T]) WithFileDiscovery(opts FileDiscoveryOptions) *Builder[T] {
	b.layers = append(b.layers, layer{
		name: "discovery:" + opts.Name,
		load: func() (map[string]any, error) {
			path, err := DiscoverFile(opts, b.args, ProcessEnviron())
			if errors.Is(err, ErrConfigNotFound) {
				b.logger.Debug("no config file discovered", zap.String("name", opts.Name))
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			b.logger.Debug("config file discovered", zap.String("path", path))
			return b.loadFile(path)
		},
	})
	return b
}

// WithEnviron adds an environment snapshot.
func (b *Builder[T]) WithEnviron(env Environ) *Builder[T] {
	b.layers = append(b.layers, layer{
		name: "environ",
		load: func() (map[string]any, error) { return b.environ(env).mapping(), nil },
	})
	return b
}

// WithProcessEnv adds the environment of the current process, read at Build
// time.
func (b *Builder[T]) WithProcessEnv() *Builder[T] {
	b.layers = append(b.layers, layer{
		name: "process-env",
		load: func() (map[string]any, error) { return b.environ(ProcessEnviron()).mapping(), nil },
	})
	return b
}

// WithEnvFile adds the KEY=VALUE assignments of a dotenv file without
// publishing them to the process. A missing file is skipped.
func (b *Builder[T]) WithEnvFile(path string) *Builder[T] {
	b.layers = append(b.layers, layer{
		name: "env-file:" + path,
		load: func() (map[string]any, error) {
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				b.logger.Debug("env file not found, skipping", zap.String("path", path))
				return nil, nil
			}
			entries, err := dotenv.Read(path)
			if err != nil {
				return nil, &SourceLoadError{Source: path, Err: err}
			}
			return b.environ(entries).mapping(), nil
		},
	})
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder[T]) WithValidator(fn ValidatorFunc[T]) *Builder[T] {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build merges every source in order, loads the result and runs the
// validators.
func (b *Builder[T]) Build() (*T, error) {
	merged := make(map[string]any)
	for _, l := range b.layers {
		m, err := l.load()
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		mergeMaps(merged, normalizeValue(m).(map[string]any))
		b.logger.Debug("config source applied", zap.String("source", l.name), zap.Int("keys", len(m)))
	}

	cfg, err := Load[T](merged)
	if err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	b.logger.Info("configuration loaded", zap.Int("sources", len(b.layers)))
	return cfg, nil
}

// MustBuild is like Build but panics on error
func (b *Builder[T]) MustBuild() *T {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

func (b *Builder[T]) loadFile(path string) (map[string]any, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		b.logger.Debug("config file not found, skipping", zap.String("path", path))
		return nil, nil
	}
	return parseFile(path)
}

func (b *Builder[T]) environ(env map[string]string) Environ {
	if b.envPrefix == "" {
		return Environ(env)
	}
	return Environ(env).Filter(b.envPrefix)
}
