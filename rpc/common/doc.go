// Package common provides the data structures shared by the RPC server, the
// RPC client and the transports of the phone book service.
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication. Which fields are
//     set depends on the MessageType (submit, drain, stats, success, error).
//     Factory functions create the request and response variants.
//
//   - ServerConfig: Configuration of a server node: the served shards, the
//     device queue and input sizes, transport and socket options, the metrics
//     endpoint and the log level.
//
//   - ClientConfig: Connection parameters, timeouts and retry behavior of a
//     client.
//
//   - Logger: Custom implementation of dragonboat's logger.ILogger printing
//     "LEVEL | package | message" lines. InitLoggers installs it and sets the
//     level of every logger in the module.
package common
