package main

import (
	"github.com/gsy-tools/gsy/pkg/cli"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}
	if err := cmd.Execute(); err != nil {
		console.Fatalf("%s", err)
	}
}
