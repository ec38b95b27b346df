// FILE: lixenwraith/gs/config/project_test.go
package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSampleMatchesSnapshot checks that the defaults render identically
// through both projections
func TestSampleMatchesSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		schema any
		load   func() (any, error)
	}{
		{"Root", rootConfig{}, func() (any, error) { return New[rootConfig]() }},
		{"List", listConfig{}, func() (any, error) { return New[listConfig]() }},
		{"Typed", typedConfig{}, func() (any, error) { return New[typedConfig]() }},
		{"Inherited", childConfig{}, func() (any, error) { return New[childConfig]() }},
		{"Inferred", inferredDefaults{}, func() (any, error) { return New[inferredDefaults]() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample, err := Sample(tt.schema)
			require.NoError(t, err)

			cfg, err := tt.load()
			require.NoError(t, err)
			snapshot, err := Snapshot(cfg)
			require.NoError(t, err)

			assert.Equal(t, sample, snapshot)
		})
	}
}

func TestSample(t *testing.T) {
	sample, err := Sample(typedConfig{Port: 1})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"PORT":    8080,
		"DEBUG":   false,
		"RATIO":   0.25,
		"TAGS":    []any{"base"},
		"PORTS":   []any{},
		"TIMEOUT": map[string]any{"days": int64(0), "seconds": int64(30), "microseconds": int64(0)},
		"SINCE":   "2024-01-01 08:00:00",
		"DAY":     "2024-01-01",
		"SUB":     map[string]any{"ARG_1": 0, "ARG_2": ""},
	}, sample)

	t.Run("SchemaSelectors", func(t *testing.T) {
		byType, err := Sample(reflect.TypeFor[typedConfig]())
		require.NoError(t, err)
		assert.Equal(t, sample, byType)

		byNilPointer, err := Sample((*typedConfig)(nil))
		require.NoError(t, err)
		assert.Equal(t, sample, byNilPointer)
	})

	t.Run("NotASchema", func(t *testing.T) {
		_, err := Sample(42)
		assert.ErrorIs(t, err, ErrSchema)
		_, err = Sample(nil)
		assert.ErrorIs(t, err, ErrSchema)
	})
}

func TestSnapshot(t *testing.T) {
	cfg := &typedConfig{
		Port:    9000,
		Ratio:   1.5,
		Tags:    []string{"x", "y"},
		Ports:   []int{1},
		Timeout: 26*time.Hour + 3*time.Second + 500*time.Millisecond,
		Since:   time.Date(2023, time.June, 15, 10, 20, 30, 0, time.UTC),
		Day:     Date{Year: 2023, Month: time.June, Day: 15},
		Sub:     subConfig{Arg1: 5, Arg2: "five"},
	}

	snapshot, err := Snapshot(cfg)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"PORT":    9000,
		"DEBUG":   false,
		"RATIO":   1.5,
		"TAGS":    []any{"x", "y"},
		"PORTS":   []any{1},
		"TIMEOUT": map[string]any{"days": int64(1), "seconds": int64(7203), "microseconds": int64(500000)},
		"SINCE":   "2023-06-15 10:20:30",
		"DAY":     "2023-06-15",
		"SUB":     map[string]any{"ARG_1": 5, "ARG_2": "five"},
	}, snapshot)

	t.Run("RoundTrip", func(t *testing.T) {
		loaded, err := Load[typedConfig](snapshot)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("ByValue", func(t *testing.T) {
		byValue, err := Snapshot(*cfg)
		require.NoError(t, err)
		assert.Equal(t, snapshot, byValue)
	})

	t.Run("RequiresInstance", func(t *testing.T) {
		_, err := Snapshot(reflect.TypeFor[typedConfig]())
		assert.ErrorIs(t, err, ErrSchema)
		_, err = Snapshot((*typedConfig)(nil))
		assert.ErrorIs(t, err, ErrSchema)
	})
}

// TestSnapshotReproducesInput checks that loading a mapping and rendering the
// result gives the mapping back, with defaults filling absent keys
func TestSnapshotReproducesInput(t *testing.T) {
	input := map[string]any{
		"NAME": "replicas",
		"SUBS": []any{
			map[string]any{"ARG_1": 1, "ARG_2": "one"},
			map[string]any{"ARG_1": 2, "ARG_2": "two"},
		},
	}

	cfg, err := Load[listConfig](input)
	require.NoError(t, err)
	snapshot, err := Snapshot(cfg)
	require.NoError(t, err)

	assert.Equal(t, input["NAME"], snapshot["NAME"])
	assert.Equal(t, input["SUBS"], snapshot["SUBS"])
	assert.Equal(t, []any{}, snapshot["TAGS"])
}

func TestDurationMap(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want map[string]any
	}{
		{0, map[string]any{"days": int64(0), "seconds": int64(0), "microseconds": int64(0)}},
		{90 * time.Second, map[string]any{"days": int64(0), "seconds": int64(90), "microseconds": int64(0)}},
		{-time.Second, map[string]any{"days": int64(-1), "seconds": int64(86399), "microseconds": int64(0)}},
		{48*time.Hour + time.Microsecond, map[string]any{"days": int64(2), "seconds": int64(0), "microseconds": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			got := durationMap(tt.d)
			assert.Equal(t, tt.want, got)

			back, err := Coerce(got, durationType)
			require.NoError(t, err)
			assert.Equal(t, tt.d, back)
		})
	}
}

func TestDescribe(t *testing.T) {
	cfg, err := Load[rootConfig](map[string]any{
		"INT_ARG":    2,
		"SUB_CONFIG": map[string]any{"ARG_1": 1, "ARG_2": "ABCD"},
	})
	require.NoError(t, err)

	assert.Equal(t, `rootConfig(INT_ARG=2, SUB_CONFIG=subConfig(ARG_1=1, ARG_2="ABCD"))`, Describe(cfg))
	assert.Equal(t, `rootConfig(INT_ARG=1, SUB_CONFIG=subConfig(ARG_1=0, ARG_2=""))`, Describe(reflect.TypeFor[rootConfig]()))

	list, err := Load[listConfig](map[string]any{"TAGS": "a,b"})
	require.NoError(t, err)
	assert.Equal(t, `listConfig(NAME="list", SUBS=[], TAGS=["a", "b"])`, Describe(list))

	assert.Equal(t, "42", Describe(42))
}
