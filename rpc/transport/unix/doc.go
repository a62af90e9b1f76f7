// Package unix serves and dials phone book shards over Unix domain sockets.
// It only contributes the connectors; framing, request correlation, retries
// and the per-connection worker pool come from the base package.
//
// The endpoint is a socket path. The server removes a stale socket file at
// that path before listening. Read buffers default to 64 KB, which fits the
// small messages of the line protocol; TCP options in the config are ignored.
//
// Use it when client and server run on the same machine: there is no TCP/IP
// processing on the way.
package unix
