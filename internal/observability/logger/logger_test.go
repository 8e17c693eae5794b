package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshuman444/hacknovation2.0/internal/observability"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	return parsed
}

func TestJSONLogger_EmitsStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	l := New("audit_pipeline.test", "test", "info", &buf, observability.Fields{
		"component": "test",
	})

	l.Info(context.Background(), "Audit created", observability.Fields{
		"audit_id": 7,
	})

	parsed := decodeLine(t, &buf)
	assert.Equal(t, "info", parsed["level"])
	assert.Equal(t, "audit_pipeline.test", parsed["service"])
	assert.Equal(t, "Audit created", parsed["message"])

	fields, ok := parsed["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(7), fields["audit_id"])
	assert.Equal(t, "test", fields["component"])
}

func TestJSONLogger_ErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	l := New("svc", "test", "info", &buf, nil)

	l.Error(context.Background(), "Request failed", errors.New("boom"), nil)

	parsed := decodeLine(t, &buf)
	assert.Equal(t, "error", parsed["level"])
	assert.Equal(t, "boom", parsed["error"])
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New("svc", "test", "warn", &buf, nil)

	l.Debug(context.Background(), "debug entry", nil)
	l.Info(context.Background(), "info entry", nil)
	assert.Zero(t, buf.Len())

	l.Warn(context.Background(), "warn entry", nil)
	assert.NotZero(t, buf.Len())
}

func TestJSONLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := New("svc", "test", "info", &buf, observability.Fields{"component": "base"})

	scoped := base.WithFields(observability.Fields{"request_id": "abc"})
	scoped.Info(context.Background(), "scoped entry", nil)

	parsed := decodeLine(t, &buf)
	fields, ok := parsed["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "base", fields["component"])
	assert.Equal(t, "abc", fields["request_id"])

	// The base logger must not inherit the scoped fields.
	buf.Reset()
	base.Info(context.Background(), "base entry", nil)
	parsed = decodeLine(t, &buf)
	fields, ok = parsed["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, fields, "request_id")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"info":    InfoLevel,
		"warn":    WarnLevel,
		"error":   ErrorLevel,
		"unknown": InfoLevel,
		"":        InfoLevel,
	}

	for input, expected := range cases {
		assert.Equal(t, expected, ParseLevel(input), "input: %q", input)
	}
}
