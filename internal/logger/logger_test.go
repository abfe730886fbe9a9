package logger

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	out := buf.String()
	assert.Contains(t, out, "DBG")
	assert.Contains(t, out, "test message arg")
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Info("info message")
	Warn("warn message")
	Section("section")
	Error(errors.New("boom"), "failed")

	assert.Empty(t, buf.String())
}

func TestLevels_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetVerbose(true)
	SetOutput(&buf)

	Info("loading page %d", 2)
	Warn("slow response")
	Section("Catalog")
	Error(errors.New("boom"), "fetch failed")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "loading page 2")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "slow response")
	assert.Contains(t, out, "=== Catalog ===")
	assert.Contains(t, out, "ERR")
	assert.Contains(t, out, "boom")
}

func TestWith_AddsComponent(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	l := With("api")
	l.Debug().Str("method", "GET").Msg("request")

	out := buf.String()
	assert.Contains(t, out, "component=api")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "request")
}
