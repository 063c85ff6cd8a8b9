package main

import (
	"os"

	"github.com/mmynk/splitsmart/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
