package main

import (
	"os"

	"github.com/mlrawlings/marko-browser-playground-sub001/cmd/markobuild/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
