// FILE: lixenwraith/gs/config/example_test.go
package config_test

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/lixenwraith/gs/config"
)

type serviceConfig struct {
	Name  string `env:"NAME" default:"demo" desc:"service name"`
	Port  int    `env:"PORT" default:"8080" desc:"listen port"`
	Debug bool   `env:"DEBUG"`
}

func ExampleLoad() {
	cfg, err := config.Load[serviceConfig](config.Environ{"PORT": "9090", "DEBUG": "on"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Name, cfg.Port, cfg.Debug)
	// Output: demo 9090 true
}

func ExampleSnapshot() {
	cfg, _ := config.New[serviceConfig]()
	cfg.Port = 9090

	m, err := config.Snapshot(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = config.Encode(os.Stdout, m, config.FormatJSON)
	// Output:
	// {
	//   "DEBUG": false,
	//   "NAME": "demo",
	//   "PORT": 9090
	// }
}

func ExampleSampleYAML() {
	out, err := config.SampleYAML(serviceConfig{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(string(out))
	// Output:
	// NAME: demo # service name
	// PORT: 8080 # listen port
	// DEBUG: false
}

func ExampleDescribe() {
	cfg, _ := config.Load[serviceConfig](map[string]any{"NAME": "api"})
	fmt.Println(config.Describe(cfg))
	// Output: serviceConfig(NAME="api", PORT=8080, DEBUG=false)
}

type timeoutConfig struct {
	Timeout time.Duration `env:"TIMEOUT"`
}

func ExampleCoerce() {
	d, err := config.Coerce(map[string]any{"minutes": 1, "seconds": 30}, reflect.TypeFor[time.Duration]())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(d)

	cfg, _ := config.Load[timeoutConfig](config.Environ{"TIMEOUT": "{hours: 2}"})
	fmt.Println(cfg.Timeout)
	// Output:
	// 1m30s
	// 2h0m0s
}

func ExampleBuilder() {
	cfg, err := config.NewBuilder[serviceConfig]().
		WithSource(map[string]any{"NAME": "api", "PORT": 80}).
		WithEnvPrefix("SVC_").
		WithEnviron(config.Environ{"SVC_PORT": "8443", "PORT": "1"}).
		Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Name, cfg.Port)
	// Output: api 8443
}
