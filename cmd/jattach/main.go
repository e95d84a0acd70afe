package main

import (
	"os"

	"github.com/AndrewReloaded/jattach/cmd/jattach/cmds"
)

func main() {
	if err := cmds.New().Execute(); err != nil {
		os.Exit(1)
	}
}
