// Package protocol owns the multilang wire contract.
//
// Ownership boundary:
// - channel: sentinel framing, shape dispatch, fatal/recoverable receive semantics
// - message: inbound and outbound message schemas
package protocol
