// Package main provides the seriesq command-line tool.
package main

import (
	"os"

	"github.com/heliolab/seriesq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
