// FILE: lixenwraith/gs/config/config_test.go
package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests construction of config instances from mappings
func TestLoad(t *testing.T) {
	t.Run("NestedMapping", func(t *testing.T) {
		cfg, err := Load[rootConfig](map[string]any{
			"INT_ARG":    2,
			"SUB_CONFIG": map[string]any{"ARG_1": 1, "ARG_2": "ABCD"},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, cfg.IntArg)
		assert.Equal(t, 1, cfg.SubConfig.Arg1)
		assert.Equal(t, "ABCD", cfg.SubConfig.Arg2)
	})

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := New[rootConfig]()
		require.NoError(t, err)
		assert.Equal(t, &rootConfig{IntArg: 1}, cfg)
	})

	t.Run("MissingAndNullKeysUseDefaults", func(t *testing.T) {
		cfg, err := Load[typedConfig](map[string]any{"PORT": nil, "UNKNOWN": "ignored"})
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 0.25, cfg.Ratio)
		assert.Equal(t, []string{"base"}, cfg.Tags)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 1}, cfg.Day)
	})

	t.Run("PartialNestedKeepsDefaults", func(t *testing.T) {
		cfg, err := Load[hookedConfig](map[string]any{"SERVER": map[string]any{"PORT": 8443}})
		require.NoError(t, err)
		assert.Equal(t, serverConfig{Host: "localhost", Port: 8443}, cfg.Server)
	})

	t.Run("ListOfNested", func(t *testing.T) {
		cfg, err := Load[listConfig](map[string]any{
			"SUBS": []any{
				map[string]any{"ARG_1": 1},
				map[string]any{"ARG_1": "2", "ARG_2": "two"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "list", cfg.Name)
		assert.Equal(t, []subConfig{{Arg1: 1}, {Arg1: 2, Arg2: "two"}}, cfg.Subs)
		assert.Nil(t, cfg.Tags)
	})

	t.Run("NotAStruct", func(t *testing.T) {
		_, err := Load[[]int](nil)
		assert.ErrorIs(t, err, ErrSchema)

		_, err = Load[*rootConfig](nil)
		assert.ErrorIs(t, err, ErrSchema)
	})
}

func TestLoadEnvironment(t *testing.T) {
	t.Run("BoundName", func(t *testing.T) {
		cfg, err := Load[envConfig](Environ{"TEST_ALPHA": "ALPHA"})
		require.NoError(t, err)
		assert.Equal(t, "ALPHA", cfg.Alpha)
		assert.Equal(t, "beta", cfg.Beta)
	})

	t.Run("OwnName", func(t *testing.T) {
		cfg, err := Load[envConfig](Environ{"Beta": "BETA", "Alpha": "not bound"})
		require.NoError(t, err)
		assert.Equal(t, "alpha", cfg.Alpha)
		assert.Equal(t, "BETA", cfg.Beta)
	})

	t.Run("ProcessEnvironment", func(t *testing.T) {
		t.Setenv("TEST_ALPHA", "FROM_PROCESS")
		cfg, err := Load[envConfig](ProcessEnviron())
		require.NoError(t, err)
		assert.Equal(t, "FROM_PROCESS", cfg.Alpha)
	})

	t.Run("StringCoercion", func(t *testing.T) {
		cfg, err := Load[typedConfig](Environ{
			"PORT":    "9090",
			"DEBUG":   "yes",
			"RATIO":   "0.5",
			"TAGS":    "a,b",
			"PORTS":   "[80, 443]",
			"TIMEOUT": `{"minutes": 2}`,
			"SINCE":   "2023-06-15 10:20:30",
			"DAY":     "2023-06-15",
			"SUB":     `{"ARG_1": "3"}`,
		})
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Port)
		assert.True(t, cfg.Debug)
		assert.Equal(t, 0.5, cfg.Ratio)
		assert.Equal(t, []string{"a", "b"}, cfg.Tags)
		assert.Equal(t, []int{80, 443}, cfg.Ports)
		assert.Equal(t, 2*time.Minute, cfg.Timeout)
		assert.Equal(t, time.Date(2023, time.June, 15, 10, 20, 30, 0, time.UTC), cfg.Since)
		assert.Equal(t, Date{Year: 2023, Month: time.June, Day: 15}, cfg.Day)
		assert.Equal(t, subConfig{Arg1: 3}, cfg.Sub)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("CoercionPath", func(t *testing.T) {
		cfg, err := Load[listConfig](map[string]any{
			"SUBS": []any{map[string]any{"ARG_1": 1}, map[string]any{"ARG_1": "bad"}},
		})
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrCoercion)

		var ce *CoercionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "SUBS[1].ARG_1", ce.Path)
		assert.ErrorContains(t, err, "field SUBS[1].ARG_1")
	})

	t.Run("MalformedDate", func(t *testing.T) {
		_, err := Load[typedConfig](map[string]any{"DAY": "15/06/2023"})
		var ce *CoercionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "DAY", ce.Path)
	})

	t.Run("MalformedSource", func(t *testing.T) {
		cfg, err := Load[rootConfig](`{"INT_ARG": [1, 2}`)
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrSourceLoad)
	})

	t.Run("PostLoadError", func(t *testing.T) {
		cfg, err := Load[hookedConfig](map[string]any{"SERVER": map[string]any{"HOST": "   "}})
		assert.Nil(t, cfg)
		assert.Same(t, errEmptyHost, err)
	})

	t.Run("PostLoadErrorInList", func(t *testing.T) {
		_, err := Load[hookedConfig](map[string]any{
			"Servers": []any{map[string]any{"HOST": "a"}, map[string]any{"HOST": ""}},
		})
		assert.ErrorIs(t, err, errEmptyHost)
	})
}

func TestLoadHooks(t *testing.T) {
	cfg, err := Load[hookedConfig](map[string]any{
		"SERVER":  map[string]any{"HOST": "  Example.COM "},
		"Servers": []any{map[string]any{"HOST": "Replica"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "example.com", cfg.Server.Host)
	assert.Equal(t, []serverConfig{{Host: "replica", Port: 80}}, cfg.Servers)
}

func TestLoadInstancesAreIndependent(t *testing.T) {
	first, err := New[typedConfig]()
	require.NoError(t, err)
	second, err := New[typedConfig]()
	require.NoError(t, err)

	first.Tags[0] = "mutated"
	first.Tags = append(first.Tags, "extra")

	assert.Equal(t, []string{"base"}, second.Tags)

	sample, err := Sample(typedConfig{})
	require.NoError(t, err)
	assert.Equal(t, []any{"base"}, sample["TAGS"])
}

func TestLoadInto(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var cfg rootConfig
		require.NoError(t, LoadInto(&cfg, map[string]any{"INT_ARG": "7"}))
		assert.Equal(t, 7, cfg.IntArg)
	})

	t.Run("TargetUntouchedOnError", func(t *testing.T) {
		cfg := rootConfig{IntArg: 99}
		err := LoadInto(&cfg, map[string]any{"INT_ARG": "seven"})
		assert.ErrorIs(t, err, ErrCoercion)
		assert.Equal(t, 99, cfg.IntArg)
	})

	t.Run("InvalidTarget", func(t *testing.T) {
		assert.ErrorIs(t, LoadInto(rootConfig{}, nil), ErrSchema)
		assert.ErrorIs(t, LoadInto((*rootConfig)(nil), nil), ErrSchema)
		assert.ErrorIs(t, LoadInto(nil, nil), ErrSchema)
	})
}

func TestSchemaLoad(t *testing.T) {
	s, err := SchemaFor[rootConfig]()
	require.NoError(t, err)

	v, err := s.Load(map[string]any{"INT_ARG": 3})
	require.NoError(t, err)
	require.IsType(t, &rootConfig{}, v)
	assert.Equal(t, 3, v.(*rootConfig).IntArg)
}

func TestMustLoad(t *testing.T) {
	assert.NotPanics(t, func() {
		cfg := MustLoad[rootConfig](nil)
		assert.Equal(t, 1, cfg.IntArg)
	})
	assert.Panics(t, func() {
		MustLoad[rootConfig](map[string]any{"INT_ARG": "NaN"})
	})
}
