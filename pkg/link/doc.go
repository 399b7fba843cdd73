// Package link provides connection and framing support for byte-stream
// links to microcontroller boards.
package link

// A link carries a raw byte stream between a host application and a
// device, typically over a serial port. The inbound stream is split
// into packets on a configurable divider byte and delivered to a
// registered Listener by a background reader owned by the Conn. The
// outbound direction is raw: Write sends bytes as-is, and peers that
// need framed output use PacketWriter.
//
// Producer: device firmware emitting divider-delimited payloads
// Consumer: host application code behind Listener
