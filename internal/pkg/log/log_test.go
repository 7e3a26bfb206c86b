package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	color.NoColor = true
	t.Cleanup(func() { SetOutput(color.Output) })
	return buf
}

func TestWithContextIncludesRequestID(t *testing.T) {
	buf := capture(t)
	ctx := WithRequestID(context.Background(), "abc-123")

	WarnWithContext(ctx, "index missing for %s", "comments")

	assert.Contains(t, buf.String(), "[WARN]")
	assert.Contains(t, buf.String(), "[req_id=abc-123] index missing for comments")
}

func TestInfoWithoutRequestID(t *testing.T) {
	buf := capture(t)

	InfoWithContext(context.Background(), "hello")

	assert.NotContains(t, buf.String(), "req_id")
	assert.Contains(t, buf.String(), "hello")
}

func TestDebugIsGated(t *testing.T) {
	buf := capture(t)

	SetDebug(false)
	Debug("hidden")
	assert.Empty(t, buf.String())

	SetDebug(true)
	t.Cleanup(func() { SetDebug(false) })
	Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
