// Package cmd wires harbor's CLI surface. Commands stay thin: they parse
// flags, call into internal packages, and print. Protocol output goes to
// stdout; progress and errors go to the logger on stderr.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/core"
	"github.com/harborctl/harbor/internal/launcher"
	"github.com/harborctl/harbor/internal/logging"
	"github.com/harborctl/harbor/internal/model"
	"github.com/harborctl/harbor/internal/mux"
	"github.com/harborctl/harbor/internal/otel"
	"github.com/harborctl/harbor/internal/registry"
)

var (
	logger    *log.Logger
	telemetry *otel.Telemetry

	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "harbor",
	Short: "Shared tmux sessions for local dev services",
	Long: `harbor runs your project's dev services in one shared tmux session,
one window per service, and gives every pane (and every coding agent in a
pane) a way to talk to the others.

Lifecycle: anchor to initialize, launch to start, stop to tear down.
Messaging: hail fires a command into a service's pane, survey reads its
terminal buffer, parley runs a command and returns just its output.
Which service may message which is declared per service in harbor.json.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		otel.Version = version
		t, err := otel.Init(cmd.Context(), otel.Config{
			Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Headers:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		})
		if err != nil {
			return err
		}
		telemetry = t
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if telemetry != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			telemetry.Shutdown(ctx)
		}
	},
}

// SetVersion records the build metadata injected via -ldflags.
func SetVersion(v, commit, date string) {
	version = v
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", v, commit, date)
}

// Execute runs the root command.
func Execute() {
	logger = logging.New()
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		if telemetry != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			telemetry.Shutdown(ctx)
			cancel()
		}
		os.Exit(1)
	}
}

// newCore builds the operation façade with telemetry attached.
func newCore() *core.Core {
	c := &core.Core{}
	if telemetry != nil {
		c.Metrics = telemetry.Metrics
	}
	return c
}

// activeSession loads the registry and verifies the tmux session is still
// alive, cleaning up a stale registry if not. Returns ErrNoSession when
// nothing is running.
func activeSession(ctx context.Context) (*model.SessionInfo, error) {
	info, err := registry.Load()
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, registry.ErrNoSession
	}

	l := &launcher.Launcher{Mux: mux.NewTmux(info.SocketName), Log: logger}
	info, err = l.CheckAlive(ctx, info)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, registry.ErrNoSession
	}
	return info, nil
}

var sessionNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// defaultSessionName derives the session name from the project directory.
// tmux rejects dots and colons in session names.
func defaultSessionName() string {
	wd, err := os.Getwd()
	if err != nil {
		return "harbor"
	}
	name := sessionNameChars.ReplaceAllString(filepath.Base(wd), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "harbor"
	}
	return name
}
