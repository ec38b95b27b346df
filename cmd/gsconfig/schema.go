package main

import (
	"errors"
	"strings"
	"time"

	"github.com/lixenwraith/gs/config"
)

// SMTPConfig is the outgoing mail section of the demo application.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" default:"smtp.example.com"`
	Port     int    `env:"SMTP_PORT" default:"587"`
	FromAddr string `desc:"sender address ENV:SMTP_FROM" default:"noreply@example.com"`
	AuthUser string `env:"SMTP_USER"`
	AuthPass string `env:"SMTP_PASS"`
}

// ServerConfig is the listener section of the demo application.
type ServerConfig struct {
	Host         string        `desc:"listen host" default:"localhost"`
	Port         int           `desc:"listen port" default:"8080"`
	ReadTimeout  time.Duration `desc:"read timeout"`
	WriteTimeout time.Duration `desc:"write timeout"`
	MaxConns     int           `desc:"connection limit" default:"1000"`
}

// AppConfig is the schema shown and loaded by gsconfig.
type AppConfig struct {
	Name     string         `env:"APP_NAME" desc:"application name" default:"gsconfig-demo"`
	Debug    bool           `desc:"debug mode (ENV:APP_DEBUG)"`
	Started  config.Date    `desc:"deployment date" default:"2024-01-01"`
	Server   ServerConfig   `env:"APP_SERVER" desc:"HTTP server"`
	SMTP     SMTPConfig     `env:"APP_SMTP" desc:"mail delivery"`
	Replicas []ServerConfig `env:"APP_REPLICAS" desc:"read replicas"`
	Tags     []string       `env:"APP_TAGS" desc:"free-form tags" default:"[demo]"`
}

func (c *AppConfig) SetDefaults() {
	c.Server.ReadTimeout = 5 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
}

func (c *AppConfig) PostLoad() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.New("APP_NAME must not be empty")
	}
	return nil
}
