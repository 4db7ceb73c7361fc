package log

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want zerolog.Level
	}{
		{"default", Config{Getenv: env(nil)}, zerolog.WarnLevel},
		{"explicit", Config{Level: "error", Getenv: env(map[string]string{LevelEnv: "debug"})}, zerolog.ErrorLevel},
		{"env level", Config{Getenv: env(map[string]string{LevelEnv: "INFO"})}, zerolog.InfoLevel},
		{"debug flag", Config{Getenv: env(map[string]string{DebugEnv: "1"})}, zerolog.DebugLevel},
		{"bad level ignored", Config{Level: "loud", Getenv: env(nil)}, zerolog.WarnLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolveLevel(tc.cfg))
		})
	}
}

func TestNewAttachesComponent(t *testing.T) {
	var out bytes.Buffer
	logger := New(Config{Level: "debug", Output: &out, Component: "listener"})
	logger.Debug().Str(FieldEvent, "workspace").Msg("decoded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "listener", entry[FieldComponent])
	assert.Equal(t, "workspace", entry[FieldEvent])
	assert.Equal(t, "decoded", entry["message"])
}

func TestSampledLimitsBurst(t *testing.T) {
	var out bytes.Buffer
	logger := Sampled(New(Config{Level: "warn", Output: &out}), 2, time.Hour)
	for i := 0; i < 10; i++ {
		logger.Warn().Msg("ring full")
	}
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestNopWritesNothing(t *testing.T) {
	logger := Nop()
	logger.Error().Msg("ignored")
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
