package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent(t *testing.T) {
	entry := New().WithComponent("relay")
	assert.Equal(t, "relay", entry.Entry.Data["component"])

	nested := entry.WithComponent("cache").WithField("key", "k")
	assert.Equal(t, "cache", nested.Entry.Data["component"])
	assert.Equal(t, "k", nested.Entry.Data["key"])
}

func TestConfigure_Invalid(t *testing.T) {
	l := New()
	assert.Error(t, l.Configure("loud", "json", "stdout", 0))
	assert.Error(t, l.Configure("info", "xml", "stdout", 0))
}

func TestJSONOutput(t *testing.T) {
	l := New()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.WithComponent("collector").WithError(errors.New("boom")).Warn("fetch failed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warning", line["level"])
	assert.Equal(t, "fetch failed", line["message"])
	assert.Equal(t, "collector", line["component"])
	assert.Equal(t, "boom", line["error"])
}

func TestConfigure_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.log")
	l := New()
	require.NoError(t, l.Configure("debug", "text", path, 0))
	l.WithComponent("test").Debug("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "component=test")
}

func TestGlobal(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	l := New()
	SetLogger(l)
	assert.Same(t, l, GetLogger())
}
