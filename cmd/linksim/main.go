package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mculink/pkg/link"
	"github.com/robotalks/mculink/pkg/run"
)

var (
	listenAddr = "127.0.0.1:5550"
	divider    = int(link.DefaultDivider)
	interval   = 2 * time.Second
)

func init() {
	if val := os.Getenv("MCULINK_SIM_ADDR"); val != "" {
		listenAddr = val
	}
	flag.StringVar(&listenAddr, "listen", listenAddr, "Listen address.")
	flag.IntVar(&divider, "divider", divider, "Packet boundary byte (0-255).")
	flag.DurationVar(&interval, "interval", interval, "Beacon packet interval.")
}

func main() {
	flag.Parse()

	if divider < 0 || divider > 255 {
		log.Fatalln("divider must be 0-255")
	}
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Fatalln(err)
	}
	glog.Infof("listening on %s", listener.Addr())

	sim := &simulator{
		listener: listener,
		divider:  byte(divider),
		interval: interval,
	}
	if err = run.NewGroup(nil).HandleSignals().Go(sim).Wait(); err != nil {
		log.Fatalln(err)
	}
}

// simulator fakes a device on TCP: it emits a numbered beacon packet
// on an interval and echoes every received packet back, all framed
// with the divider.
type simulator struct {
	listener net.Listener
	divider  byte
	interval time.Duration
}

// Run implements run.Runnable.
func (s *simulator) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		glog.Infof("peer %s connected", conn.RemoteAddr())
		go s.serve(ctx, conn)
	}
}

func (s *simulator) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	served := make(chan struct{})
	defer close(served)
	echoCh := make(chan []byte, 8)
	go func() {
		framer := link.NewFramer(s.divider)
		buf := make([]byte, 1024)
		for {
			n, err := conn.Read(buf)
			for _, b := range buf[:n] {
				if pkt, ok := framer.Feed(b); ok {
					select {
					case echoCh <- pkt:
					case <-served:
						return
					}
				}
			}
			if err != nil {
				return
			}
		}
	}()

	w := &link.PacketWriter{W: conn, Divider: s.divider}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	var seq int
	for {
		select {
		case <-ctx.Done():
			return
		case pkt := <-echoCh:
			if err := w.WritePacket(pkt); err != nil {
				glog.Warningf("peer %s: echo: %v", conn.RemoteAddr(), err)
				return
			}
		case <-ticker.C:
			seq++
			if err := w.WritePacket([]byte(fmt.Sprintf("beacon %d", seq))); err != nil {
				glog.Warningf("peer %s: beacon: %v", conn.RemoteAddr(), err)
				return
			}
		}
	}
}
