// Package main provides the cellar CLI.
package main

import "github.com/mesh-intelligence/cellar/internal/cli"

func main() {
	cli.Execute()
}
