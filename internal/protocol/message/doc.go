// Package message defines the JSON shapes exchanged with a multilang host.
//
// Inbound: Handshake, Command (spouts), Tuple (bolts). Task id lists are
// owned by the channel package since their shape is reserved at the framing
// layer. Outbound: PidReply, Emit, Ack, Fail, Log, Error, Sync, Metrics.
package message
