package errors

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostErrorString(t *testing.T) {
	err := &HostError{
		Op:     "script.Fire",
		Kind:   KindScript,
		Source: "MyFrame:OnEvent",
		Err:    stderrors.New("attempt to index a nil value"),
	}
	assert.Equal(t, "script.Fire [script] source=MyFrame:OnEvent: attempt to index a nil value", err.Error())

	bare := &HostError{Op: "timer.Tick", Kind: KindTimer, Err: stderrors.New("boom")}
	assert.Equal(t, "timer.Tick [timer]: boom", bare.Error())
}

func TestHostErrorUnwrap(t *testing.T) {
	cause := stderrors.New("cause")
	err := &HostError{Op: "x", Err: cause}
	assert.True(t, stderrors.Is(err, cause))
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindScript, "script"},
		{KindTimer, "timer"},
		{KindConfig, "config"},
		{KindBinding, "binding"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestPanicErrorString(t *testing.T) {
	assert.Equal(t, "panic: test panic", (&PanicError{Value: "test panic"}).Error())
	assert.Equal(t, "panic in timer.Tick: test panic", (&PanicError{Op: "timer.Tick", Value: "test panic"}).Error())
}

func TestConfigErrorString(t *testing.T) {
	err := &ConfigError{Field: "simulation.step", Value: "fast", Err: stderrors.New("bad duration")}
	assert.Equal(t, `invalid simulation.step "fast": bad duration`, err.Error())
	assert.Equal(t, `invalid log.format "xml"`, (&ConfigError{Field: "log.format", Value: "xml"}).Error())
}

func TestReportSetsTimestamp(t *testing.T) {
	rec := &Recorder{}
	Report(rec, &HostError{Op: "test.op", Kind: KindScript, Err: stderrors.New("x")})

	errs := rec.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "test.op", errs[0].Op)
	assert.False(t, errs[0].Timestamp.IsZero())
}

func TestReportFallsBackToGlobalHandler(t *testing.T) {
	rec := &Recorder{}
	old := DefaultHandler
	SetHandler(rec)
	defer SetHandler(old)

	Report(nil, &HostError{Op: "global"})
	ReportPanic(nil, &PanicError{Value: "v", Timestamp: time.Now()})

	assert.Len(t, rec.Errors(), 1)
	assert.Len(t, rec.Panics(), 1)
}

func TestCallReportsErrorAndPanic(t *testing.T) {
	rec := &Recorder{}

	ok := Call(rec, "script.Run", KindScript, "F:OnClick", func() error { return nil })
	assert.True(t, ok)

	ok = Call(rec, "script.Run", KindScript, "F:OnClick", func() error { return stderrors.New("failed") })
	assert.False(t, ok)

	ok = Call(rec, "timer.Tick", KindTimer, "timer 3", func() error { panic("kaboom") })
	assert.False(t, ok)

	require.Len(t, rec.Errors(), 1)
	assert.Equal(t, KindScript, rec.Errors()[0].Kind)
	assert.Equal(t, "F:OnClick", rec.Errors()[0].Source)

	require.Len(t, rec.Panics(), 1)
	assert.Equal(t, "kaboom", rec.Panics()[0].Value)
	assert.Equal(t, "timer 3", rec.Panics()[0].Source)
	assert.NotEmpty(t, rec.Panics()[0].StackTrace)
	assert.Equal(t, 2, rec.Len())
}

func TestRecover(t *testing.T) {
	rec := &Recorder{}
	func() {
		defer Recover(rec, "test.recover")
		panic("intentional test panic")
	}()

	panics := rec.Panics()
	require.Len(t, panics, 1)
	assert.Equal(t, "intentional test panic", panics[0].Value)
	assert.Equal(t, "test.recover", panics[0].Op)
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	assert.NotEmpty(t, stack)
	assert.Contains(t, stack, "testing")
}

func TestSetHandlerNil(t *testing.T) {
	old := DefaultHandler
	defer SetHandler(old)

	SetHandler(nil)
	_, ok := DefaultHandler.(*LogHandler)
	assert.True(t, ok, "SetHandler(nil) should restore a LogHandler, got %T", DefaultHandler)
}

func TestLogHandlerWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	h.HandleError(&HostError{Op: "script.Fire", Kind: KindScript, Source: "F:OnEvent", Err: stderrors.New("bad")})
	h.HandlePanic(&PanicError{Op: "timer.Tick", Value: "boom"})

	out := buf.String()
	assert.Contains(t, out, "op=script.Fire")
	assert.Contains(t, out, "kind=script")
	assert.Contains(t, out, "source=F:OnEvent")
	assert.Contains(t, out, "recovered panic")
	assert.Contains(t, out, "value=boom")
}
