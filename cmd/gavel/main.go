package main

import (
	"os"

	"github.com/wonhee/gavel/cmd/gavel/commands"
)

// main is the entry point for the Gavel CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/gavel [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
