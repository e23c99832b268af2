// Package registry reads and writes the session registry — the single
// source of truth for addressing a running harbor session.
//
// The registry lives at .harbor/session.json relative to the project root.
// It is written once by the launcher when the tmux session is created,
// read-only for the session lifetime, and deleted at teardown. Concurrent
// readers never mutate it, so no locking is needed.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborctl/harbor/internal/model"
)

const (
	// Dir is the harbor state directory in the project root.
	Dir = ".harbor"
	// File is the session registry file name inside Dir.
	File = "session.json"
)

// ErrNoSession indicates no harbor session is running (registry absent or
// unreadable). Callers should suggest `harbor launch`.
var ErrNoSession = errors.New("no harbor session running")

// UnknownServiceError indicates a target name absent from the registry.
// Valid carries the registered names for user-facing suggestion text.
type UnknownServiceError struct {
	Name  string
	Valid []string
}

func (e *UnknownServiceError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("unknown service %q (no services registered)", e.Name)
	}
	return fmt.Sprintf("unknown service %q, available: %s", e.Name, strings.Join(e.Valid, ", "))
}

// Path returns the registry file path.
func Path() string {
	return filepath.Join(Dir, File)
}

// SocketName derives the tmux socket name for a session. Deterministic so
// independent harbor sessions (different projects) never collide.
func SocketName(sessionName string) string {
	return "harbor-" + sessionName
}

// Load reads the persisted session record. A missing or unparseable file
// returns (nil, nil): both mean "no session running" and the distinction is
// not actionable for callers.
func Load() (*model.SessionInfo, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", Path(), err)
	}

	var info model.SessionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, nil
	}
	if info.SessionName == "" || info.SocketName == "" || len(info.Services) == 0 {
		// Reject half-written or hand-edited records rather than handing a
		// partially valid session to the transport layer.
		return nil, nil
	}
	return &info, nil
}

// Save writes the session record. Only the launcher calls this, once per
// session.
func Save(info *model.SessionInfo) error {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", Dir, err)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session info: %w", err)
	}
	if err := os.WriteFile(Path(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", Path(), err)
	}
	return nil
}

// Delete removes the session record. Missing file is not an error.
func Delete() error {
	if err := os.Remove(Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", Path(), err)
	}
	return nil
}

// Resolve looks up a service name in the registry and returns its entry.
// Fails with ErrNoSession when info is nil and with *UnknownServiceError
// when the name is not registered.
func Resolve(info *model.SessionInfo, name string) (model.ServiceEntry, error) {
	if info == nil {
		return model.ServiceEntry{}, ErrNoSession
	}
	entry, ok := info.Services[name]
	if !ok {
		return model.ServiceEntry{}, &UnknownServiceError{Name: name, Valid: info.SortedServiceNames()}
	}
	return entry, nil
}
