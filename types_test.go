// FILE: lixenwraith/gs/config/types_test.go
package config

import (
	"errors"
	"strings"
	"time"
)

// Schemas shared by the package tests.

type subConfig struct {
	Arg1 int    `env:"ARG_1" default:"0"`
	Arg2 string `env:"ARG_2"`
}

type rootConfig struct {
	IntArg    int       `env:"INT_ARG" default:"1"`
	SubConfig subConfig `env:"SUB_CONFIG"`
}

type listConfig struct {
	Name string      `env:"NAME" default:"list"`
	Subs []subConfig `env:"SUBS"`
	Tags []string    `env:"TAGS"`
}

type envConfig struct {
	Alpha string `desc:"alpha value ENV:TEST_ALPHA" default:"alpha"`
	Beta  string `default:"beta"`
}

type typedConfig struct {
	Port    int           `env:"PORT" default:"8080"`
	Debug   bool          `env:"DEBUG"`
	Ratio   float64       `env:"RATIO" default:"0.25"`
	Tags    []string      `env:"TAGS" default:"base"`
	Ports   []int         `env:"PORTS"`
	Timeout time.Duration `env:"TIMEOUT"`
	Since   time.Time     `env:"SINCE"`
	Day     Date          `env:"DAY" default:"2024-01-01"`
	Sub     subConfig     `env:"SUB"`
}

func (c *typedConfig) SetDefaults() {
	c.Timeout = 30 * time.Second
	c.Since = time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
}

var errEmptyHost = errors.New("host must not be empty")

type serverConfig struct {
	Host string `env:"HOST" default:"localhost"`
	Port int    `env:"PORT" default:"80"`
}

// PostLoad normalizes the host and rejects an empty one.
func (c *serverConfig) PostLoad() error {
	c.Host = strings.ToLower(strings.TrimSpace(c.Host))
	if c.Host == "" {
		return errEmptyHost
	}
	return nil
}

type hookedConfig struct {
	Name    string       `env:"NAME" default:"app"`
	Server  serverConfig `env:"SERVER"`
	Servers []serverConfig
}

type baseConfig struct {
	Alpha string `env:"TEST_ALPHA" default:"alpha"`
	Beta  int    `default:"1"`
}

type childConfig struct {
	baseConfig
	Alpha string `default:"child"`
	Gamma bool   `desc:"gamma switch ENV:TEST_GAMMA"`
}
