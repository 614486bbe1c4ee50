package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-drift/framehost/pkg/engine"
)

func init() {
	RegisterCommand(&Command{
		Name:  "dump",
		Short: "Run addon scripts and print the frame tree",
		Long: `Run the given scripts like "framehost run", then print the frame tree
with resolved sizes, visibility, text and child keys.

Flags:
  --config PATH        Configuration file (default: ./framehost.yaml)
  --duration DURATION  Simulated time to run before dumping
  --filter TEXT        Only print frames whose name contains TEXT
  --visible            Skip hidden frames and their children
  --json               Print the snapshot as JSON`,
		Usage: "framehost dump [--config PATH] [--filter TEXT] [--visible] [--json] script.lua...",
		Run:   runDump,
	})
}

func runDump(args []string, out, errOut io.Writer) error {
	var dumpOpts engine.DumpOptions
	asJSON := false
	opts, err := parseSessionArgs(args, func(args []string, i *int) (bool, error) {
		switch args[*i] {
		case "--visible":
			dumpOpts.VisibleOnly = true
			return true, nil
		case "--json":
			asJSON = true
			return true, nil
		}
		v, ok, err := flagValue(args, i, "--filter")
		if ok && err == nil {
			dumpOpts.Filter = v
		}
		return ok, err
	})
	if err != nil {
		return err
	}
	if opts.debugAddr != "" {
		return fmt.Errorf("--debug-addr is only supported by run")
	}

	s, err := newSession(opts, out, errOut)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(opts.scripts); err != nil {
		return err
	}
	s.simulate(nil)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.engine.Snapshot()); err != nil {
			return err
		}
	} else if err := s.engine.DumpTree(out, dumpOpts); err != nil {
		return err
	}

	if opts.metrics {
		return printMetrics(out, s.registry)
	}
	return nil
}
