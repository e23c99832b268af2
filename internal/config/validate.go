package config

import (
	"fmt"
	"os"

	"github.com/harborctl/harbor/internal/model"
)

// Validate checks the configuration for the invariants the rest of harbor
// relies on: required fields, unique ports and subdomains, existing paths,
// and a well-formed canAccess graph (entries reference declared services,
// never the service itself).
func Validate(cfg model.Config) error {
	if cfg.Domain == "" {
		return fmt.Errorf("domain is required in %s", FileJSON)
	}

	names := make(map[string]bool, len(cfg.Services))
	for _, service := range cfg.Services {
		if service.Name == "" {
			return fmt.Errorf("service name is required")
		}
		if names[service.Name] {
			return fmt.Errorf("duplicate service name: %s", service.Name)
		}
		names[service.Name] = true
	}

	usedPorts := make(map[int]string)
	usedSubdomains := make(map[string]string)

	for _, service := range cfg.Services {
		if service.Path == "" {
			return fmt.Errorf("path is required for service: %s", service.Name)
		}
		if service.Command == "" {
			return fmt.Errorf("command is required for service: %s", service.Name)
		}
		if service.Subdomain == "" {
			return fmt.Errorf("subdomain is required for service: %s", service.Name)
		}

		if service.Port != 0 {
			if service.Port < 1 || service.Port > 65535 {
				return fmt.Errorf("invalid port number for service %s: %d", service.Name, service.Port)
			}
			if existing, exists := usedPorts[service.Port]; exists {
				return fmt.Errorf("duplicate port %d used by services: %s and %s",
					service.Port, existing, service.Name)
			}
			usedPorts[service.Port] = service.Name
		}

		if existing, exists := usedSubdomains[service.Subdomain]; exists {
			return fmt.Errorf("duplicate subdomain %s used by services: %s and %s",
				service.Subdomain, existing, service.Name)
		}
		usedSubdomains[service.Subdomain] = service.Name

		for _, granted := range service.CanAccess {
			if granted == service.Name {
				return fmt.Errorf("service %s cannot list itself in canAccess", service.Name)
			}
			if !names[granted] {
				return fmt.Errorf("service %s grants access to unknown service: %s", service.Name, granted)
			}
		}

		if _, err := os.Stat(service.Path); err != nil {
			return fmt.Errorf("path does not exist for service %s: %s", service.Name, service.Path)
		}
	}

	return nil
}
