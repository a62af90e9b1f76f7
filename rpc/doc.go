// Package rpc provides the remote procedure call layer of dPB. It exposes
// phone book devices across process and network boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: RPC client implementation of the device interface, allowing
//     applications to use a remote phone book like a local one.
//
//   - server: RPC server components that handle incoming requests and route
//     them to one device per shard.
package rpc
