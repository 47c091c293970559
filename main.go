package main

import (
	cmd "github.com/paintmcp/paintd/cmd"

	// Register display backends
	_ "github.com/paintmcp/paintd/internal/display/native"
	_ "github.com/paintmcp/paintd/internal/display/x11"
)

func main() {
	cmd.Execute()
}
