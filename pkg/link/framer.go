package link

import "io"

// DefaultDivider is the packet boundary byte used when none is
// configured.
const DefaultDivider byte = 255

// Framer accumulates bytes between divider occurrences and emits the
// bytes in between as packets. The divider itself is never part of a
// packet, and a divider with nothing buffered emits nothing, so
// leading and repeated dividers are discarded. A Framer is not safe
// for concurrent use; a Conn drives it from its single reader task.
type Framer struct {
	divider byte
	buf     []byte
}

// NewFramer creates a Framer splitting on the given divider byte.
func NewFramer(divider byte) *Framer {
	return &Framer{divider: divider}
}

// Divider returns the boundary byte in use.
func (f *Framer) Divider() byte {
	return f.divider
}

// Feed consumes one byte. When b completes a packet, the packet is
// returned with ok set and the buffer starts over; the returned slice
// is never reused by the Framer.
func (f *Framer) Feed(b byte) (packet []byte, ok bool) {
	if b == f.divider {
		if len(f.buf) == 0 {
			return nil, false
		}
		packet, f.buf = f.buf, nil
		return packet, true
	}
	f.buf = append(f.buf, b)
	return nil, false
}

// Pending returns the number of bytes buffered since the last
// boundary.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// PacketWriter writes divider-terminated packets to a stream. It is
// the outbound counterpart of Framer for peers producing framed
// traffic; a Conn's own Write stays unframed.
type PacketWriter struct {
	W       io.Writer
	Divider byte
}

// WritePacket writes pkt followed by the divider. A payload containing
// the divider is rejected with ErrDividerInPayload.
func (w *PacketWriter) WritePacket(pkt []byte) error {
	for _, b := range pkt {
		if b == w.Divider {
			return ErrDividerInPayload
		}
	}
	buf := make([]byte, 0, len(pkt)+1)
	buf = append(buf, pkt...)
	buf = append(buf, w.Divider)
	_, err := w.W.Write(buf)
	return err
}
