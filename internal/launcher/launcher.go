// Package launcher owns the session lifecycle: it creates the tmux session
// with one window per service, freezes the addressing and capability state
// into the session registry, and tears both down again.
//
// The launcher is the registry's single writer. Everything else in harbor
// only reads the file it produces.
package launcher

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harborctl/harbor/internal/access"
	"github.com/harborctl/harbor/internal/model"
	"github.com/harborctl/harbor/internal/mux"
	"github.com/harborctl/harbor/internal/registry"
)

// Launcher drives session creation and teardown over a Multiplexer.
type Launcher struct {
	Mux mux.Multiplexer
	Log *log.Logger

	// Now is the clock for SessionInfo.StartedAt. Defaults to time.Now.
	Now func() time.Time
}

// Start creates the session, starts every configured service in its own
// window, and persists the registry. The config must already be validated.
func (l *Launcher) Start(ctx context.Context, sessionName string, cfg model.Config) (*model.SessionInfo, error) {
	if len(cfg.Services) == 0 {
		return nil, fmt.Errorf("no services configured")
	}

	now := l.Now
	if now == nil {
		now = time.Now
	}

	info := &model.SessionInfo{
		SessionName: sessionName,
		SocketName:  registry.SocketName(sessionName),
		StartedAt:   now().UTC(),
		Services:    make(map[string]model.ServiceEntry, len(cfg.Services)),
	}

	for i, svc := range cfg.Services {
		env := map[string]string{access.EnvService: svc.Name}

		// The registry records the index tmux reports, not the loop
		// position: the server numbers windows from the user's base-index
		// option, so the first window may well be :1.
		var (
			idx int
			err error
		)
		if i == 0 {
			idx, err = l.Mux.NewSession(ctx, sessionName, svc.Name, svc.Path, env)
			if err != nil {
				return nil, err
			}
		} else {
			idx, err = l.Mux.NewWindow(ctx, sessionName, svc.Name, svc.Path, env)
			if err != nil {
				// Partial sessions are worse than none.
				_ = l.Mux.KillSession(ctx, sessionName)
				return nil, err
			}
		}

		target := fmt.Sprintf("%s:%d", sessionName, idx)
		info.Services[svc.Name] = model.ServiceEntry{
			Window:    idx,
			Target:    target,
			CanAccess: svc.CanAccess,
		}

		if err := l.Mux.SendLiteral(ctx, target, svc.Command); err != nil {
			_ = l.Mux.KillSession(ctx, sessionName)
			return nil, fmt.Errorf("starting %s: %w", svc.Name, err)
		}
		if l.Log != nil {
			l.Log.Info("started service", "service", svc.Name, "window", idx, "command", svc.Command)
		}
	}

	if err := registry.Save(info); err != nil {
		_ = l.Mux.KillSession(ctx, sessionName)
		return nil, err
	}
	return info, nil
}

// Stop kills the session and removes the registry. A session that already
// died still gets its registry cleaned up.
func (l *Launcher) Stop(ctx context.Context, info *model.SessionInfo) error {
	if info == nil {
		return registry.ErrNoSession
	}

	running, err := l.Mux.HasSession(ctx, info.SessionName)
	if err != nil {
		return err
	}
	if running {
		if err := l.Mux.KillSession(ctx, info.SessionName); err != nil {
			return err
		}
	} else if l.Log != nil {
		l.Log.Warn("session already gone, cleaning up registry", "session", info.SessionName)
	}

	return registry.Delete()
}

// CheckAlive verifies the registered session still exists in tmux. When the
// session died outside harbor (external kill, reboot), the stale registry is
// removed and (nil, nil) is returned so callers see "no session running."
func (l *Launcher) CheckAlive(ctx context.Context, info *model.SessionInfo) (*model.SessionInfo, error) {
	if info == nil {
		return nil, nil
	}
	running, err := l.Mux.HasSession(ctx, info.SessionName)
	if err != nil {
		return nil, err
	}
	if !running {
		if l.Log != nil {
			l.Log.Warn("stale session registry detected, removing", "session", info.SessionName)
		}
		if err := registry.Delete(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return info, nil
}
