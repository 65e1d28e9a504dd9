package main

import (
	"os"

	"github.com/academydays/hubby/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
