// Package errors provides structured error reporting for the frame host.
//
// Nothing in the host core is fatal: invariant violations are ignored,
// unresolvable lookups fall back to defaults, and failures raised by
// scripted callbacks are caught at the call site and handed to an
// [ErrorHandler]. This package defines the error values carried to that
// handler.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindScript indicates a failure inside a frame script handler or hook.
	KindScript
	// KindTimer indicates a failure inside a timer callback.
	KindTimer
	// KindConfig indicates an invalid or unreadable configuration.
	KindConfig
	// KindBinding indicates a failure in the script-language binding layer.
	KindBinding
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindTimer:
		return "timer"
	case KindConfig:
		return "config"
	case KindBinding:
		return "binding"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// HostError represents a structured error reported by the host.
type HostError struct {
	// Op is the operation that failed (e.g., "script.Fire").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Source names what raised the error, such as "MyAddonFrame:OnEvent"
	// or "timer 12".
	Source string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *HostError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s [%s] source=%s: %v", e.Op, e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "timer.Tick").
	Op string
	// Source names the callback that panicked, if known.
	Source string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ConfigError describes a configuration value that could not be used.
type ConfigError struct {
	// Field is the dotted path of the offending field (e.g., "simulation.step").
	Field string
	// Value is the raw value found in the file.
	Value string
	// Err is the parse failure, if any.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the host.
type ErrorHandler interface {
	// HandleError is called when a callback or subsystem fails.
	HandleError(err *HostError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
