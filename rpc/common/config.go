package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Transport configuration structs (shared by server and client)
// --------------------------------------------------------------------------

// SocketConf holds socket buffer settings. Zero means "use the OS default".
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific settings. They are ignored by other transports.
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int // negative = leave the OS default
}

// ServerTransportConfig configures the listening side of a transport
type ServerTransportConfig struct {
	// Endpoint is the address to listen on (host:port or socket path)
	Endpoint string
	// WorkersPerConn limits the requests processed concurrently per connection
	WorkersPerConn int
	// BufferSize is the size of the pooled read buffers (0 = transport default)
	BufferSize int

	SocketConf
	TCPConf
}

// ClientTransportConfig configures the dialing side of a transport
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int

	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters for a phone book server.
type ServerConfig struct {
	// Shards lists the IDs of the devices served by this server
	Shards []uint64

	// Device parameters
	QueueSize int
	InputSize int

	// connection timeout (0 = no timeout)
	TimeoutSecond int64

	// Transport settings
	Transport ServerTransportConfig

	// MetricsEndpoint is the address of the metrics HTTP endpoint (empty = disabled)
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// HasShard checks if the configuration contains the given shard
func (c *ServerConfig) HasShard(shardId uint64) bool {
	for _, id := range c.Shards {
		if id == shardId {
			return true
		}
	}
	return false
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Workers Per Conn", strconv.Itoa(max(1, c.Transport.WorkersPerConn)))
	if c.Transport.BufferSize > 0 {
		addField("Buffer Size", fmt.Sprintf("%d bytes", c.Transport.BufferSize))
	}
	addSocketFields(addField, c.Transport.SocketConf, c.Transport.TCPConf)

	// Device settings
	addSection("Device")
	addField("Queue Size", fmt.Sprintf("%d bytes", c.QueueSize))
	addField("Input Size", fmt.Sprintf("%d bytes", c.InputSize))

	// Metrics
	addSection("Metrics")
	if c.MetricsEndpoint == "" {
		addField("Endpoint", "disabled")
	} else {
		addField("Endpoint", c.MetricsEndpoint)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Shards
	addSection("Shards")
	for _, id := range c.Shards {
		addField(strconv.FormatUint(id, 10), "phone book")
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters for a phone book client.
type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(max(1, c.Transport.ConnectionsPerEndpoint)))
	addSocketFields(addField, c.Transport.SocketConf, c.Transport.TCPConf)

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

// addSocketFields renders the socket options that differ from the defaults
func addSocketFields(addField func(name, value string), s SocketConf, t TCPConf) {
	if s.WriteBufferSize > 0 {
		addField("Write Buffer", fmt.Sprintf("%d bytes", s.WriteBufferSize))
	}
	if s.ReadBufferSize > 0 {
		addField("Read Buffer", fmt.Sprintf("%d bytes", s.ReadBufferSize))
	}
	if t.TCPNoDelay {
		addField("TCP No Delay", "true")
	}
	if t.TCPKeepAliveSec > 0 {
		addField("TCP Keep Alive", fmt.Sprintf("%d sec", t.TCPKeepAliveSec))
	}
	if t.TCPLingerSec >= 0 {
		addField("TCP Linger", fmt.Sprintf("%d sec", t.TCPLingerSec))
	}
}
