package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/go-drift/framehost/pkg/config"
	"github.com/go-drift/framehost/pkg/engine"
	"github.com/go-drift/framehost/pkg/luahost"
	"github.com/go-drift/framehost/pkg/timer"
	"github.com/go-drift/framehost/pkg/widget"
)

// sessionOptions are the flags shared by run and dump.
type sessionOptions struct {
	configPath string
	metrics    bool
	debugAddr  string
	duration   string
	scripts    []string
}

func parseSessionArgs(args []string, extra func(args []string, i *int) (bool, error)) (sessionOptions, error) {
	var opts sessionOptions
	for i := 0; i < len(args); i++ {
		if v, ok, err := flagValue(args, &i, "--config"); ok || err != nil {
			if err != nil {
				return opts, err
			}
			opts.configPath = v
			continue
		}
		if v, ok, err := flagValue(args, &i, "--debug-addr"); ok || err != nil {
			if err != nil {
				return opts, err
			}
			opts.debugAddr = v
			continue
		}
		if v, ok, err := flagValue(args, &i, "--duration"); ok || err != nil {
			if err != nil {
				return opts, err
			}
			opts.duration = v
			continue
		}
		if args[i] == "--metrics" {
			opts.metrics = true
			continue
		}
		if extra != nil {
			handled, err := extra(args, &i)
			if err != nil {
				return opts, err
			}
			if handled {
				continue
			}
		}
		if strings.HasPrefix(args[i], "--") {
			return opts, fmt.Errorf("unknown flag %s", args[i])
		}
		opts.scripts = append(opts.scripts, args[i])
	}
	return opts, nil
}

// session is one engine plus its Lua host, driven by a manual clock.
type session struct {
	cfg      *config.Resolved
	clock    *timer.ManualClock
	engine   *engine.Engine
	host     *luahost.Host
	registry *prometheus.Registry
	logger   *slog.Logger
}

func loadConfig(path string) (*config.Resolved, error) {
	if path == "" {
		return config.Resolve(".")
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	r, err := c.Resolve()
	if err != nil {
		return nil, err
	}
	r.Path = path
	return r, nil
}

func newLogger(w io.Writer, cfg *config.Resolved) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newSession(opts sessionOptions, out, errOut io.Writer) (*session, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.CheckVersion(Version); err != nil {
		return nil, err
	}
	if opts.duration != "" {
		if cfg.Duration, err = config.ParseDuration("--duration", opts.duration, cfg.Duration); err != nil {
			return nil, err
		}
	}

	s := &session{
		cfg:    cfg,
		clock:  timer.NewManualClock(),
		logger: newLogger(errOut, cfg),
	}
	if opts.metrics || opts.debugAddr != "" {
		s.registry = prometheus.NewRegistry()
		if opts.debugAddr != "" {
			s.registry.MustRegister(collectors.NewGoCollector())
		}
	}

	engineOpts := engine.Options{
		Clock:        s.clock,
		Logger:       s.logger,
		Templates:    cfg.Templates,
		ScreenWidth:  cfg.ScreenWidth,
		ScreenHeight: cfg.ScreenHeight,
	}
	if s.registry != nil {
		engineOpts.Registerer = s.registry
	}
	if opts.debugAddr != "" {
		engineOpts.Trace = engine.NewStepTraceBuffer(0, 0)
	}
	s.engine, err = engine.New(engineOpts)
	if err != nil {
		return nil, err
	}
	s.host = luahost.New(s.engine, luahost.Options{Stdout: out})
	return s, nil
}

func (s *session) Close() { s.host.Close() }

// load runs each script and fires ADDON_LOADED for it.
func (s *session) load(scripts []string) error {
	for _, path := range scripts {
		if err := s.host.DoFile(path); err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		s.engine.Fire("ADDON_LOADED", widget.String(name))
	}
	return nil
}

// simulate fires the configured startup events, then advances the clock
// one step at a time, running OnUpdate and due timers. publish, if not
// nil, is called after every step.
func (s *session) simulate(publish func()) {
	for _, ev := range s.cfg.Events {
		if ev == "ADDON_LOADED" {
			continue
		}
		s.engine.Fire(ev)
	}
	step := s.cfg.Step
	for elapsed := time.Duration(0); elapsed < s.cfg.Duration; elapsed += step {
		s.clock.Advance(step)
		s.engine.Step(step)
		if publish != nil {
			publish()
		}
	}
	s.logger.Info("simulation finished",
		slog.Duration("elapsed", s.engine.Elapsed()),
		slog.Int("frames", s.engine.Registry().Len()),
		slog.Int("timers_pending", s.engine.Scheduler().Pending()))
}
