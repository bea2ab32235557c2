package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := WithComponent(NewWithWriter(&buf, "info", false), ComponentCategorizer)

	l.Info().Str("category", "Other").Msg("fallback")
	l.Debug().Msg("suppressed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "categorizer", entry["component"])
	assert.Equal(t, "Other", entry["category"])
	assert.Equal(t, "fallback", entry["message"])
	assert.Contains(t, entry, "time")
}
