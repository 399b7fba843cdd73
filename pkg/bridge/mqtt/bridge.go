package mqtt

import (
	"context"
	"errors"

	"github.com/golang/glog"

	"github.com/robotalks/mculink/pkg/bridge/msgs"
	"github.com/robotalks/mculink/pkg/link"
)

// Topics of a named link, relative to the queue prefix.
const (
	// TopicRecv carries PacketEvent messages.
	TopicRecv = "recv"
	// TopicState carries LinkStateEvent messages.
	TopicState = "state"
	// TopicSend accepts SendData messages.
	TopicSend = "send"
	// TopicErr carries SendErr messages.
	TopicErr = "err"
)

// ErrUnexpectedMessage indicates the message on the send topic is not
// a send request.
var ErrUnexpectedMessage = errors.New("unexpected message")

// Bridge republishes link traffic onto the queue and forwards send
// requests back to the device. It is the link.Listener of the Conn it
// owns, and a Runnable for the daemon loop. Messages are published
// under "<name>/".
type Bridge struct {
	Name  string
	Conn  *link.Conn
	Queue *Queue

	// Port and Baud select the endpoint opened by Run.
	Port string
	Baud int
}

// NewBridge creates a Bridge named name owning a Conn built from
// dialer.
func NewBridge(name string, dialer link.Dialer, q *Queue, opts ...link.Option) *Bridge {
	b := &Bridge{Name: name, Queue: q}
	b.Conn = link.New(dialer, b, opts...)
	return b
}

// Run serves send requests and keeps the link open until ctx ends.
func (b *Bridge) Run(ctx context.Context) error {
	if err := b.Queue.Sub(b.topic(TopicSend), b.handleSend); err != nil {
		return err
	}
	if err := b.Conn.Open(b.Port, b.Baud); err != nil {
		return err
	}
	<-ctx.Done()
	if err := b.Conn.Close(); err != nil {
		glog.Warningf("bridge[%s]: close: %v", b.Name, err)
	}
	return ctx.Err()
}

// Connected implements link.Listener.
func (b *Bridge) Connected(id, port string) {
	b.publish(TopicState, &msgs.LinkStateEvent{
		ConnId: id,
		Port:   port,
		State:  int32(link.StateConnected),
	})
}

// Disconnected implements link.Listener.
func (b *Bridge) Disconnected(id string) {
	b.publish(TopicState, &msgs.LinkStateEvent{
		ConnId: id,
		State:  int32(link.StateDisconnected),
	})
}

// PacketReceived implements link.Listener.
func (b *Bridge) PacketReceived(id, source string, packet []byte) {
	b.publish(TopicRecv, &msgs.PacketEvent{
		ConnId: id,
		Source: source,
		Data:   packet,
	})
}

func (b *Bridge) topic(leaf string) string {
	return b.Name + "/" + leaf
}

func (b *Bridge) publish(leaf string, msg msgs.Message) {
	data, err := msgs.EncodeMessage(msg)
	if err != nil {
		glog.Errorf("bridge[%s]: encode %s: %v", b.Name, leaf, err)
		return
	}
	b.Queue.Pub(b.topic(leaf), data)
}

func (b *Bridge) handleSend(_ string, payload []byte) {
	msg, err := msgs.DecodeMessage(payload)
	if err == nil {
		if send, ok := msg.(*msgs.SendData); ok {
			err = b.Conn.Write(send.Data)
		} else {
			err = ErrUnexpectedMessage
		}
	}
	if err != nil {
		glog.Warningf("bridge[%s]: send failed: %v", b.Name, err)
		b.publish(TopicErr, msgs.NewSendErr(err))
	}
}
