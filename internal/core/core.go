// Package core wires the transport primitives together with addressing and
// access control. Both the CLI commands and the MCP server call through
// here, so the two surfaces cannot drift apart on policy.
package core

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/harborctl/harbor/internal/access"
	"github.com/harborctl/harbor/internal/model"
	"github.com/harborctl/harbor/internal/mux"
	harborotel "github.com/harborctl/harbor/internal/otel"
	"github.com/harborctl/harbor/internal/parley"
	"github.com/harborctl/harbor/internal/registry"
	"github.com/harborctl/harbor/internal/render"
)

// DefaultCaptureLines is the survey default when the caller does not ask
// for a specific line count.
const DefaultCaptureLines = 500

// Core executes harbor operations against the running session.
type Core struct {
	// Metrics records operation counters; nil disables recording.
	Metrics *harborotel.Metrics

	// NewMux builds the transport for a socket. Defaults to tmux; tests
	// substitute fakes.
	NewMux func(socket string) mux.Multiplexer

	// Sleep is forwarded to the parley exchanger. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

func (c *Core) tracer() trace.Tracer {
	return otel.Tracer("harbor")
}

func (c *Core) transport(socket string) mux.Multiplexer {
	if c.NewMux != nil {
		return c.NewMux(socket)
	}
	return mux.NewTmux(socket)
}

// session loads the registry and authorizes the caller against target.
// Every transport operation goes through here before any multiplexer
// interaction, so the failure taxonomy (no session, unknown service,
// denied) is uniform.
func (c *Core) session(ctx context.Context, target string) (*model.SessionInfo, model.ServiceEntry, error) {
	info, err := registry.Load()
	if err != nil {
		return nil, model.ServiceEntry{}, err
	}

	caller := access.CallerIdentity()
	if err := access.Check(info, caller, target); err != nil {
		var denied *access.DeniedError
		if errors.As(err, &denied) {
			c.Metrics.RecordDenial(ctx, denied.Caller, denied.Target)
		}
		return nil, model.ServiceEntry{}, err
	}

	entry, err := registry.Resolve(info, target)
	if err != nil {
		return nil, model.ServiceEntry{}, err
	}
	return info, entry, nil
}

// Hail injects a command into the target service's pane, fire-and-forget.
func (c *Core) Hail(ctx context.Context, service, command string) error {
	ctx, span := c.tracer().Start(ctx, "harbor.hail",
		trace.WithAttributes(attribute.String("harbor.target", service)))
	defer span.End()

	info, entry, err := c.session(ctx, service)
	if err != nil {
		return err
	}

	if err := c.transport(info.SocketName).SendLiteral(ctx, entry.Target, command); err != nil {
		span.RecordError(err)
		return err
	}
	c.Metrics.RecordSend(ctx, service)
	return nil
}

// Survey returns the last lines of the target service's terminal buffer.
func (c *Core) Survey(ctx context.Context, service string, lines int) (string, error) {
	ctx, span := c.tracer().Start(ctx, "harbor.survey",
		trace.WithAttributes(attribute.String("harbor.target", service)))
	defer span.End()

	if lines <= 0 {
		lines = DefaultCaptureLines
	}

	info, entry, err := c.session(ctx, service)
	if err != nil {
		return "", err
	}

	capture, err := c.transport(info.SocketName).Capture(ctx, entry.Target, lines)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	c.Metrics.RecordCapture(ctx, service)
	return capture, nil
}

// Parley runs a command in the target service's pane and returns the
// marker-delimited response.
func (c *Core) Parley(ctx context.Context, service, command string, timeout time.Duration) (string, error) {
	ctx, span := c.tracer().Start(ctx, "harbor.parley",
		trace.WithAttributes(attribute.String("harbor.target", service)))
	defer span.End()

	info, entry, err := c.session(ctx, service)
	if err != nil {
		return "", err
	}

	ex := &parley.Exchanger{
		Mux:   c.transport(info.SocketName),
		Sleep: c.Sleep,
	}
	result, outcome, err := ex.Exchange(ctx, entry.Target, command, timeout)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	span.SetAttributes(attribute.String("harbor.result", string(outcome)))
	c.Metrics.RecordParley(ctx, service, string(outcome))
	return result, nil
}

// Whoami renders the caller's standing in the session.
func (c *Core) Whoami(ctx context.Context) (string, error) {
	info, err := c.loadAlive(ctx)
	if err != nil {
		return "", err
	}
	return render.Whoami(info, access.CallerIdentity()), nil
}

// SessionContext renders the full session context document. With no
// session running it renders the stub document rather than failing.
func (c *Core) SessionContext(ctx context.Context) (string, error) {
	info, err := c.loadAlive(ctx)
	if err != nil {
		return "", err
	}
	return render.Context(info, access.CallerIdentity()), nil
}

// loadAlive loads the registry and drops it if the tmux session has died
// behind harbor's back, so whoami/context never describe a ghost session.
func (c *Core) loadAlive(ctx context.Context) (*model.SessionInfo, error) {
	info, err := registry.Load()
	if err != nil || info == nil {
		return nil, err
	}
	running, err := c.transport(info.SocketName).HasSession(ctx, info.SessionName)
	if err != nil {
		// Probing failed; describe what the registry says rather than
		// guessing.
		return info, nil
	}
	if !running {
		if err := registry.Delete(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return info, nil
}
