// Package msgs defines the bridge message schemas.
package msgs

// Bridge messages are exchanged between a link bridge and its clients
// over a message queue, wrapped in Typed envelopes.
//
// Producer: link bridge (events), clients (commands)
// Consumer: clients (events), link bridge (commands)
