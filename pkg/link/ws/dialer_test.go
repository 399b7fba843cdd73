package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestDial(t *testing.T) {
	received := make(chan []byte, 1)
	server := httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err == nil {
			received <- data
			websocket.Message.Send(conn, []byte{9})
		}
		conn.Read(make([]byte, 1))
	}))
	defer server.Close()

	d := &Dialer{PollInterval: 10 * time.Millisecond}
	ch, err := d.Dial("ws"+strings.TrimPrefix(server.URL, "http"), 0)
	require.NoError(t, err)
	defer ch.Close()

	_, err = ch.Write([]byte{1, 2})
	require.NoError(t, err)
	select {
	case data := <-received:
		require.Equal(t, []byte{1, 2}, data)
	case <-time.After(time.Second):
		require.FailNow(t, "timeout waiting for server receive")
	}

	buf := make([]byte, 16)
	deadline := time.Now().Add(time.Second)
	for {
		n, err := ch.Read(buf)
		require.NoError(t, err)
		if n > 0 {
			require.Equal(t, []byte{9}, buf[:n])
			return
		}
		require.True(t, time.Now().Before(deadline), "no data before deadline")
	}
}

func TestDialBadURL(t *testing.T) {
	d := &Dialer{}
	_, err := d.Dial("not-a-url", 0)
	require.Error(t, err)
}
