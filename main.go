package main

import (
	"os"

	"github.com/parksense/parksense/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
