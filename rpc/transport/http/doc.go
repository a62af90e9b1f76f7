// Package http implements an HTTP-based transport layer for the phone book RPC
// system, routed with chi.
//
// Routes served by the server transport:
//
//	POST /{shardId}  body and response are serialized messages
//	GET  /metrics    all metrics in the Prometheus text format
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport. Selects endpoints
//     round-robin and retries failed requests with a fresh body.
//
//   - httpServerTransport: Implements IRPCServerTransport. With log level
//     "debug" every request is logged with status, size and duration.
//
//   - NewMetricsServer: A standalone metrics endpoint for servers that use a
//     socket transport.
//
// Thread Safety:
//
//	The client transport is thread-safe and can be used concurrently. It uses
//	atomic operations for the round-robin counter.
package http
