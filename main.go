package main

import (
	"os"

	"github.com/gridpool/scr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
