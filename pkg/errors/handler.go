package errors

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler is the global error handler used when a component was
	// not given one explicitly. It defaults to a LogHandler.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = &LogHandler{}
	} else {
		DefaultHandler = h
	}
}

// Handler returns h if it is non-nil, otherwise the global handler.
func Handler(h ErrorHandler) ErrorHandler {
	if h != nil {
		return h
	}
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report sends an error to h, or to the global handler when h is nil.
// If err.Timestamp is zero, it is set to the current time.
func Report(h ErrorHandler, err *HostError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h = Handler(h); h != nil {
		h.HandleError(err)
	}
}

// ReportPanic sends a panic error to h, or to the global handler when h is nil.
func ReportPanic(h ErrorHandler, err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h = Handler(h); h != nil {
		h.HandlePanic(err)
	}
}

// Call runs fn, converting a panic into a reported PanicError and a
// returned error into a reported HostError. It reports whether fn
// completed without either.
func Call(h ErrorHandler, op string, kind ErrorKind, source string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ReportPanic(h, &PanicError{
				Op:         op,
				Source:     source,
				Value:      r,
				StackTrace: CaptureStack(),
			})
			ok = false
		}
	}()
	if err := fn(); err != nil {
		Report(h, &HostError{Op: op, Kind: kind, Source: source, Err: err})
		return false
	}
	return true
}

// Recover is a helper for deferred panic recovery.
// Usage: defer errors.Recover(nil, "operation.name")
func Recover(h ErrorHandler, op string) {
	if r := recover(); r != nil {
		ReportPanic(h, &PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
		})
	}
}

// Errorf is shorthand for a HostError wrapping a formatted message.
func Errorf(op string, kind ErrorKind, format string, args ...any) *HostError {
	return &HostError{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
