package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-drift/framehost/pkg/engine"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Run addon scripts in a simulated session",
		Long: `Load the given Lua scripts, fire the configured startup events and
advance simulated time, running OnUpdate handlers and C_Timer callbacks.

Configuration is read from framehost.yaml in the current directory, or
from the file given with --config.

Flags:
  --config PATH        Configuration file (default: ./framehost.yaml)
  --duration DURATION  Simulated time to run, e.g. 5s (overrides config)
  --metrics            Print a metrics summary when the run finishes
  --debug-addr ADDR    Serve /frames, /metrics, /trace and /health on ADDR and keep
                       serving after the run until interrupted`,
		Usage: "framehost run [--config PATH] [--duration D] [--metrics] [--debug-addr ADDR] script.lua...",
		Run:   runRun,
	})
}

func runRun(args []string, out, errOut io.Writer) error {
	opts, err := parseSessionArgs(args, nil)
	if err != nil {
		return err
	}
	if len(opts.scripts) == 0 {
		return fmt.Errorf("at least one script is required\n\nUsage: framehost run [flags] script.lua...")
	}

	s, err := newSession(opts, out, errOut)
	if err != nil {
		return err
	}
	defer s.Close()

	var debug *engine.DebugServer
	if opts.debugAddr != "" {
		debug = engine.NewDebugServer(s.registry)
		debug.SetTrace(s.engine.Trace())
		addr, err := debug.Start(opts.debugAddr)
		if err != nil {
			return err
		}
		s.logger.Info("debug server listening", slog.String("addr", addr))
		debug.Publish(s.engine.Snapshot())
	}

	if err := s.load(opts.scripts); err != nil {
		return err
	}
	var publish func()
	if debug != nil {
		publish = func() { debug.Publish(s.engine.Snapshot()) }
	}
	s.simulate(publish)

	if opts.metrics {
		if err := printMetrics(out, s.registry); err != nil {
			return err
		}
	}

	if debug != nil {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		s.logger.Info("run finished; serving until interrupted")
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return debug.Shutdown(shutdownCtx)
	}
	return nil
}
