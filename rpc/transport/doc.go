// Package transport defines how serialized messages travel between a phone book
// client and server. Every request is addressed to a shard (one phone book on
// the server); transports move opaque byte slices and never look inside them.
//
// Implementations:
//
//   - base: framed request/response protocol shared by tcp and unix
//   - tcp, unix: connectors for the base protocol
//   - http: one POST request per message, plus GET /metrics
//
// A server transport calls the registered ServerHandleFunc for every request,
// possibly from many goroutines at once. Listen blocks until Close is called.
package transport
