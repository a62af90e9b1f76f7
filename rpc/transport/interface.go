package transport

import (
	"github.com/ValentinKolb/dPB/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc processes one request addressed to shardId and returns the
// serialized response. It is called concurrently.
type ServerHandleFunc func(shardId uint64, req []byte) (resp []byte)

// IRPCServerTransport receives requests and hands them to a ServerHandleFunc
type IRPCServerTransport interface {
	// RegisterHandler sets the handler. It must be called before Listen.
	RegisterHandler(handler ServerHandleFunc)
	// Listen serves config.Transport.Endpoint. It blocks until Close is called
	// (then it returns nil) or the listener fails.
	Listen(config common.ServerConfig) error
	// Close stops the listener and drops open connections
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport sends requests to one or more server endpoints
type IRPCClientTransport interface {
	// Connect opens the connections described by config. Calling it again
	// replaces the previous connections.
	Connect(config common.ClientConfig) error
	// Send delivers req to shardId and waits for the response. Failed attempts
	// are retried up to config.Transport.RetryCount times.
	Send(shardId uint64, req []byte) (resp []byte, err error)
	// Close closes all connections
	Close() error
}
