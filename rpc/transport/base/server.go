package base

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dPB/rpc/common"
	"github.com/ValentinKolb/dPB/rpc/transport"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/segmentio/ksuid"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector         IServerConnector
	handler           transport.ServerHandleFunc
	config            common.ServerConfig
	bufferPool        *sync.Pool
	defaultBufferSize int

	listenerMu sync.Mutex
	listener   net.Listener
	closing    atomic.Bool

	// open connections by connection ID
	conns *xsync.MapOf[string, net.Conn]
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport with per-connection worker pool.
// defaultBufferSize is used when the config does not set a buffer size.
func NewBaseServerTransport(connector IServerConnector, defaultBufferSize int) transport.IRPCServerTransport {
	return &serverTransport{
		connector:         connector,
		defaultBufferSize: defaultBufferSize,
		conns:             xsync.NewMapOf[string, net.Conn](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	if t.handler == nil {
		return fmt.Errorf("no handler registered")
	}
	t.config = config

	bufferSize := t.defaultBufferSize
	if config.Transport.BufferSize > 0 {
		bufferSize = config.Transport.BufferSize
	}
	t.bufferPool = &sync.Pool{
		New: func() interface{} {
			return make([]byte, bufferSize)
		},
	}

	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}

	t.listenerMu.Lock()
	if t.closing.Load() {
		t.listenerMu.Unlock()
		_ = listener.Close()
		return nil
	}
	t.listener = listener
	t.listenerMu.Unlock()

	Logger.Infof("Starting %s server on %s with %d workers per connection",
		t.connector.GetName(), listener.Addr(), t.workersPerConn())

	// Accept connections
	for {
		conn, err := listener.Accept()
		if err != nil {
			if t.closing.Load() || errors.Is(err, net.ErrClosed) {
				Logger.Infof("Stopped %s server on %s", t.connector.GetName(), config.Transport.Endpoint)
				return nil
			}
			Logger.Errorf("Accept error: %v", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if err := t.connector.UpgradeConnection(conn, config); err != nil {
			Logger.Errorf("Failed to upgrade connection from %s: %v", conn.RemoteAddr(), err)
			_ = conn.Close()
			continue
		}

		// Handle the connection in a goroutine
		go t.handleConnection(ksuid.New().String(), conn)
	}
}

func (t *serverTransport) Close() error {
	if t.closing.Swap(true) {
		return nil
	}

	t.listenerMu.Lock()
	var err error
	if t.listener != nil {
		err = t.listener.Close()
	}
	t.listenerMu.Unlock()

	// Close all open connections, their handlers drain the running workers
	t.conns.Range(func(id string, conn net.Conn) bool {
		_ = conn.Close()
		return true
	})

	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// workersPerConn returns the configured worker count (minimum one worker per connection)
func (t *serverTransport) workersPerConn() int {
	return max(1, t.config.Transport.WorkersPerConn)
}

// handleConnection handles incoming requests for one connection
func (t *serverTransport) handleConnection(connID string, conn net.Conn) {
	t.conns.Store(connID, conn)
	defer func() {
		t.conns.Delete(connID)
		_ = conn.Close()
	}()

	Logger.Debugf("[%s] Accepted connection from %s", connID, conn.RemoteAddr())

	// Timeout in seconds
	timeout := time.Duration(t.config.TimeoutSecond) * time.Second

	// The buffered channel acts as a counting semaphore
	workerSemaphore := make(chan struct{}, t.workersPerConn())

	// Create a wait group to wait for all workers to finish
	var wg sync.WaitGroup

	// Create a mutex to protect writes to the connection
	var connMutex sync.Mutex

	// Handler function that processes requests in worker goroutines
	handleResponse := func(shardID, requestID uint64, data []byte) {
		// When done, release the semaphore and mark worker as done
		defer func() {
			<-workerSemaphore
			wg.Done()
		}()

		// Process the request
		start := time.Now()
		resp := t.handler(shardID, data)
		Logger.Debugf("[%s] Processed request for shard %d with requestID %d took %s", connID, shardID, requestID, time.Since(start))

		// Protect writes to the connection with a mutex
		connMutex.Lock()
		defer connMutex.Unlock()

		if timeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
				Logger.Errorf("[%s] Failed to set write deadline: %v", connID, err)
				return
			}
		}

		// Write the response with the same requestID
		if err := writeFrame(conn, shardID, requestID, resp); err != nil && !t.closing.Load() {
			Logger.Errorf("[%s] Failed to write response: %v", connID, err)
		}
	}

	// Function to handle incoming requests
	handleRequest := func() error {
		// Get a buffer from the pool
		buf := t.bufferPool.Get().([]byte)

		// Read the frame with requestID
		shardID, requestID, data, err := readFrame(conn, buf)
		if err != nil {
			t.bufferPool.Put(buf)
			return err
		}

		// Acquire a slot in the semaphore (blocks if the worker limit is reached)
		workerSemaphore <- struct{}{}
		wg.Add(1)

		// Process in a goroutine
		go func() {
			defer t.bufferPool.Put(buf)
			handleResponse(shardID, requestID, data)
		}()

		return nil
	}

	// Handle requests in a loop
	for {
		err := handleRequest()

		// Case EOF: Connection closed by client
		if err == io.EOF {
			Logger.Debugf("[%s] Connection closed by client", connID)
			break
		}

		// Case error: log and close connection
		if err != nil {
			if !t.closing.Load() && !errors.Is(err, net.ErrClosed) {
				Logger.Errorf("[%s] Error handling request: %v", connID, err)
			}
			break
		}
	}

	// Wait for all workers to finish before closing the connection
	wg.Wait()
}
