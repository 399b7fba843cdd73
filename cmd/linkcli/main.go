package main

import (
	"github.com/robotalks/mculink/pkg/cli/sh"
	"github.com/robotalks/mculink/pkg/env"

	_ "github.com/robotalks/mculink/pkg/cli/cmds/linkcmds"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
