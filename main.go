package main

import (
	"os"

	"github.com/abhisek/circlez/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
