package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

type ctxKey string

const contextKeyRequestID ctxKey = "request_id"

var (
	out   io.Writer = color.Output
	debug atomic.Bool

	infoTag  = color.New(color.FgWhite, color.BgGreen).SprintFunc()
	warnTag  = color.New(color.FgBlack, color.BgYellow).SprintFunc()
	errorTag = color.New(color.FgRed).SprintFunc()
	debugTag = color.New(color.FgCyan).SprintFunc()
)

func init() {
	debug.Store(os.Getenv("DEBUG") == "true")
}

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	out = w
}

// SetDebug toggles Debug output.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// WithRequestID adds request ID to context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// RequestID returns the request ID carried by ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

func emit(tag, requestID, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if requestID != "" {
		msg = fmt.Sprintf("[req_id=%s] %s", requestID, msg)
	}
	fmt.Fprintf(out, "%s %s\n", tag, msg)
}

// Info log information
func Info(format string, a ...interface{}) {
	emit(infoTag("[INFO] "), "", format, a...)
}

// InfoWithContext logs information with the request ID from ctx
func InfoWithContext(ctx context.Context, format string, a ...interface{}) {
	emit(infoTag("[INFO] "), RequestID(ctx), format, a...)
}

// Warn log warning
func Warn(format string, a ...interface{}) {
	emit(warnTag("[WARN] "), "", format, a...)
}

// WarnWithContext logs warning with the request ID from ctx
func WarnWithContext(ctx context.Context, format string, a ...interface{}) {
	emit(warnTag("[WARN] "), RequestID(ctx), format, a...)
}

// Error log error
func Error(format string, a ...interface{}) {
	emit(errorTag("[Error]"), "", format, a...)
}

// ErrorWithContext logs error with the request ID from ctx
func ErrorWithContext(ctx context.Context, format string, a ...interface{}) {
	emit(errorTag("[Error]"), RequestID(ctx), format, a...)
}

// Debug logs only when debug output is enabled
func Debug(format string, a ...interface{}) {
	if !debug.Load() {
		return
	}
	emit(debugTag("[DEBUG]"), "", format, a...)
}

// InfoStruct dumps values with spew.
func InfoStruct(a ...interface{}) {
	emit(infoTag("[INFO] "), "", "%s", spew.Sdump(a...))
}
