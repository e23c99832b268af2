// Package model defines the fixed-shape records shared across harbor:
// the project configuration (harbor.json) and the session registry
// (.harbor/session.json).
//
// Both files are validated into these structs at load time; no component
// reads raw JSON shapes at the access site.
package model

import (
	"sort"
	"time"
)

// DevService is one service declared in the project configuration.
type DevService struct {
	// Name is the unique service name, also used as the tmux window name.
	Name string `json:"name" yaml:"name"`
	// Path is the service's working directory, relative to the project root.
	Path string `json:"path" yaml:"path"`
	// Command is the shell command that starts the service.
	Command string `json:"command" yaml:"command"`
	// Port is the local port the service listens on. Zero means the service
	// is excluded from the generated Caddyfile.
	Port int `json:"port" yaml:"port"`
	// Subdomain is the reverse-proxy subdomain (e.g. "api" for api.localhost).
	Subdomain string `json:"subdomain" yaml:"subdomain"`
	// CanAccess lists the other services this one may message via
	// hail/parley when invoked from inside its own pane. Empty means no
	// pane-to-pane access.
	CanAccess []string `json:"canAccess,omitempty" yaml:"canAccess,omitempty"`
}

// Config is the root project configuration.
type Config struct {
	Services []DevService `json:"services" yaml:"services"`
	// Domain is the base domain for the reverse proxy (e.g. "localhost").
	Domain string `json:"domain" yaml:"domain"`
	// UseSudo controls whether hosts-file updates are run through sudo.
	UseSudo bool `json:"use_sudo" yaml:"use_sudo"`
}

// Service returns the declared service with the given name, if any.
func (c Config) Service(name string) (DevService, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return DevService{}, false
}

// ServiceEntry is the per-service record in the session registry.
type ServiceEntry struct {
	// Window is the tmux window index hosting this service. Stable for the
	// session lifetime.
	Window int `json:"window"`
	// Target is the fully qualified tmux target ("sessionName:window").
	Target string `json:"target"`
	// CanAccess is the capability list copied from the configuration at
	// launch time.
	CanAccess []string `json:"canAccess,omitempty"`
}

// HasAccess reports whether target appears in the entry's capability list.
func (e ServiceEntry) HasAccess(target string) bool {
	for _, name := range e.CanAccess {
		if name == target {
			return true
		}
	}
	return false
}

// SessionInfo is the persisted record describing a running harbor session.
// Written once by the launcher, read-only afterwards, deleted at teardown.
type SessionInfo struct {
	// SessionName is the logical session identifier, also used as the tmux
	// session name.
	SessionName string `json:"sessionName"`
	// SocketName is the tmux socket (-L) the session runs on, derived from
	// SessionName so independent harbor sessions never collide.
	SocketName string `json:"socketName"`
	// StartedAt is when the session was created.
	StartedAt time.Time `json:"startedAt"`
	// Services maps service name to its registry entry. Keys are exactly the
	// configured service names at launch time.
	Services map[string]ServiceEntry `json:"services"`
}

// ServiceNames returns the registered service names sorted by window index,
// so rendered output follows the window layout rather than map order.
func (s *SessionInfo) ServiceNames() []string {
	names := make([]string, 0, len(s.Services))
	for name := range s.Services {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return s.Services[names[i]].Window < s.Services[names[j]].Window
	})
	return names
}

// SortedServiceNames returns the registered service names in lexical order,
// for stable user-facing suggestion lists.
func (s *SessionInfo) SortedServiceNames() []string {
	names := make([]string, 0, len(s.Services))
	for name := range s.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
