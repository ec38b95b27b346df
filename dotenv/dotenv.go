// File: lixenwraith/gs/config/dotenv/dotenv.go

// Package dotenv publishes KEY=VALUE assignments into the process environment.
package dotenv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// DefaultFile is read by Load when no file name is given.
const DefaultFile = ".env"

// Parse reads KEY=VALUE lines. Blank lines, lines starting with '#' and lines
// without '=' are ignored. Keys and values are trimmed; the value keeps any
// further '=' characters.
func Parse(r io.Reader) (map[string]string, error) {
	entries := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		entries[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read env data: %w", err)
	}
	return entries, nil
}

// Read parses the file at fileName.
func Read(fileName string) (map[string]string, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open env file '%s': %w", fileName, err)
	}
	defer file.Close()

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file '%s': %w", fileName, err)
	}
	return entries, nil
}

// Option configures Load.
type Option func(*options)

type options struct {
	extra   map[string]string
	verbose bool
	logger  *zap.Logger
}

// WithExtra publishes m instead of reading the file when m is not empty.
func WithExtra(m map[string]string) Option {
	return func(o *options) {
		o.extra = m
	}
}

// WithVerbose logs the published entries at info level.
func WithVerbose() Option {
	return func(o *options) {
		o.verbose = true
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Load publishes environment assignments into the process environment and
// reports whether it succeeded. Failures are logged, never returned. An empty
// fileName selects DefaultFile.
func Load(fileName string, opts ...Option) bool {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.Named("dotenv")

	if len(o.extra) > 0 {
		if o.verbose {
			log.Info("loading extra source", zap.Any("entries", o.extra))
		}
		return publish(o.extra, log)
	}

	if fileName == "" {
		fileName = DefaultFile
	}
	entries, err := Read(fileName)
	if err != nil {
		log.Error("load env failed", zap.String("file", fileName), zap.Error(err))
		return false
	}

	if o.verbose {
		if len(entries) == 0 {
			log.Info("env file has no data", zap.String("file", fileName))
		} else {
			log.Info("loading env file", zap.String("file", fileName), zap.Any("entries", entries))
		}
	}
	return publish(entries, log)
}

func publish(entries map[string]string, log *zap.Logger) bool {
	for key, value := range entries {
		if err := os.Setenv(key, value); err != nil {
			log.Error("setenv failed", zap.String("key", key), zap.Error(err))
			return false
		}
	}
	return true
}
