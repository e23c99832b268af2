// Package discover scans a directory for service projects and infers
// sensible defaults for each one.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborctl/harbor/internal/model"
)

// manifest maps a project manifest file to the default dev command for that
// ecosystem. An empty command means harbor recognizes the project but the
// user has to fill the command in.
type manifest struct {
	file    string
	command string
}

// Checked in order; the first match wins the command inference.
var manifests = []manifest{
	{file: "package.json", command: "npm run dev"},
	{file: "go.mod", command: "go run ."},
	{file: "Cargo.toml", command: "cargo run"},
	{file: "composer.json", command: ""},
	{file: "requirements.txt", command: ""},
	{file: "Gemfile", command: ""},
	{file: "pom.xml", command: ""},
	{file: "build.gradle", command: ""},
}

// IsProjectDir reports whether path contains a recognized project manifest.
func IsProjectDir(path string) bool {
	for _, m := range manifests {
		if _, err := os.Stat(filepath.Join(path, m.file)); err == nil {
			return true
		}
	}
	return false
}

// inferCommand returns the default dev command for the project at path.
func inferCommand(path string) string {
	for _, m := range manifests {
		if _, err := os.Stat(filepath.Join(path, m.file)); err == nil {
			return m.command
		}
	}
	return ""
}

// Subdomain derives the reverse-proxy subdomain from a service name:
// lowercased, spaces removed.
func Subdomain(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

// Scan walks the immediate subdirectories of root and returns a DevService
// for each recognized project not already named in existing.
func Scan(root string, existing map[string]bool) ([]model.DevService, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", root, err)
	}

	var found []model.DevService
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if existing[entry.Name()] {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if !IsProjectDir(dir) {
			continue
		}
		found = append(found, model.DevService{
			Name:      entry.Name(),
			Path:      dir,
			Command:   inferCommand(dir),
			Subdomain: Subdomain(entry.Name()),
		})
	}
	return found, nil
}
