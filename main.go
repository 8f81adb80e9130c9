package main

import (
	"os"

	"github.com/spiffler33/quill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
