package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/mculink/pkg/bridge/mqtt"
	"github.com/robotalks/mculink/pkg/env"
	"github.com/robotalks/mculink/pkg/link"
	"github.com/robotalks/mculink/pkg/link/serial"
	"github.com/robotalks/mculink/pkg/run"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()

	conf := env.NewConfig()
	if conf.Port == "" {
		log.Fatalln("port required")
	}
	divider := conf.MustDividerByte()
	name := conf.BridgeName()

	q := conf.MustNewQueue()
	defer q.Close()

	bridge := mqtt.NewBridge(name, &serial.Dialer{}, q,
		link.WithID(name), link.WithDivider(divider))
	bridge.Port, bridge.Baud = conf.Port, conf.Baud

	if err := run.NewGroup(nil).HandleSignals().Go(bridge).Wait(); err != nil {
		log.Fatalln(err)
	}
}
