// Package main is the entry point for the pulsectl CLI binary.
package main

import (
	"os"

	cli "pulseboard/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
