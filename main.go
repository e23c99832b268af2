package main

import "github.com/harborctl/harbor/cmd"

// Version information, set during build using -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func main() {
	cmd.SetVersion(Version, Commit, Date)
	cmd.Execute()
}
