// Package main provides the bamic CLI entry point.
package main

import "github.com/bamic-rtp-server/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
