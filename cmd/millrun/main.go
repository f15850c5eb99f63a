// Package main is the single-binary entrypoint for Millrun.
package main

import "github.com/millrun-io/millrun/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
