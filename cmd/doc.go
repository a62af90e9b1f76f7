// Package cmd implements the command-line interface for dPB, the in-memory
// phone book device. It provides a hierarchical command structure with
// operations for running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - book: Commands for phone book operations (insert, get, remove, shell, etc.)
//   - serve: Commands for starting and configuring the dPB server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dpb -help for a list of all commands.
package cmd
