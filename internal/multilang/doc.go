// Package multilang runs a spout or bolt as a host-managed subprocess.
//
// Ownership boundary:
// - handshake and pid file
// - spout command loop and bolt tuple loop
// - pending inbound queue while an emit waits for its task ids
// - Collector: emit, ack, fail, log, error and metrics frames
package multilang
