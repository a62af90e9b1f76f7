package base

import (
	"bytes"
	"fmt"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dPB/rpc/common"
	"github.com/ValentinKolb/dPB/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// Frame tests
// --------------------------------------------------------------------------

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		buf  []byte
	}{
		{name: "empty payload", data: []byte{}},
		{name: "small payload no buffer", data: []byte("get Doe")},
		{name: "payload fits buffer", data: []byte("insert Jane Doe 30 555-1234 jane@x.io"), buf: make([]byte, 128)},
		{name: "payload larger than buffer", data: bytes.Repeat([]byte("x"), 4096), buf: make([]byte, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := net.Pipe()
			defer client.Close()
			defer server.Close()

			go func() {
				_ = writeFrame(client, 42, 7, tt.data)
			}()

			shardID, requestID, data, err := readFrame(server, tt.buf)
			require.NoError(t, err)
			assert.Equal(t, uint64(42), shardID)
			assert.Equal(t, uint64(7), requestID)
			assert.Equal(t, tt.data, data)
		})
	}
}

func TestReadFrameRejectsHugeFrames(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		header := make([]byte, headerSize)
		header[16] = 0xff // length > maxFrameSize
		_, _ = client.Write(header)
	}()

	_, _, _, err := readFrame(server, nil)
	assert.ErrorContains(t, err, "frame too large")
}

// --------------------------------------------------------------------------
// Transport tests (over a unix socket)
// --------------------------------------------------------------------------

type testServerConnector struct{}

func (c *testServerConnector) GetName() string { return "unix" }

func (c *testServerConnector) Listen(config common.ServerConfig) (net.Listener, error) {
	return net.Listen("unix", config.Transport.Endpoint)
}

func (c *testServerConnector) UpgradeConnection(conn net.Conn, config common.ServerConfig) error {
	return ApplySocketConf(conn, config.Transport.SocketConf, config.Transport.TCPConf)
}

type testClientConnector struct{}

func (c *testClientConnector) GetName() string { return "unix" }

func (c *testClientConnector) Connect(endpoint string) (net.Conn, error) {
	return net.Dial("unix", endpoint)
}

func (c *testClientConnector) UpgradeConnection(conn net.Conn, config common.ClientConfig) error {
	return ApplySocketConf(conn, config.Transport.SocketConf, config.Transport.TCPConf)
}

// startServer starts a server transport with the given handler and returns its socket path
func startServer(t *testing.T, handler transport.ServerHandleFunc) (transport.IRPCServerTransport, string) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "dpb.sock")

	st := NewBaseServerTransport(&testServerConnector{}, 64)
	st.RegisterHandler(handler)

	done := make(chan error, 1)
	go func() {
		done <- st.Listen(common.ServerConfig{
			Transport: common.ServerTransportConfig{Endpoint: socket, WorkersPerConn: 4},
		})
	}()

	// wait until the socket accepts connections
	require.Eventually(t, func() bool {
		conn, err := net.Dial("unix", socket)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	t.Cleanup(func() {
		_ = st.Close()
		select {
		case err := <-done:
			assert.NoError(t, err, "Listen must return nil after Close")
		case <-time.After(2 * time.Second):
			t.Error("Listen did not return after Close")
		}
	})
	return st, socket
}

// connectClient connects a client transport to the given socket
func connectClient(t *testing.T, socket string, connections int) transport.IRPCClientTransport {
	t.Helper()
	ct := NewBaseClientTransport(&testClientConnector{})
	require.NoError(t, ct.Connect(common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{socket},
			RetryCount:             2,
			ConnectionsPerEndpoint: connections,
		},
	}))
	t.Cleanup(func() { _ = ct.Close() })
	return ct
}

func echoHandler(shardId uint64, req []byte) []byte {
	return []byte(fmt.Sprintf("%d:%s", shardId, req))
}

func TestSendReceive(t *testing.T) {
	_, socket := startServer(t, echoHandler)
	ct := connectClient(t, socket, 1)

	resp, err := ct.Send(3, []byte("get Doe"))
	require.NoError(t, err)
	assert.Equal(t, "3:get Doe", string(resp))

	// payload larger than the pooled server buffer
	big := bytes.Repeat([]byte("y"), 1000)
	resp, err = ct.Send(4, big)
	require.NoError(t, err)
	assert.Equal(t, "4:"+string(big), string(resp))
}

func TestConcurrentRequestsAreCorrelated(t *testing.T) {
	_, socket := startServer(t, func(shardId uint64, req []byte) []byte {
		// answer out of order
		if len(req)%2 == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		return echoHandler(shardId, req)
	})
	ct := connectClient(t, socket, 3)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := fmt.Sprintf("get L%d", i)
			resp, err := ct.Send(uint64(i), []byte(req))
			if assert.NoError(t, err) {
				assert.Equal(t, fmt.Sprintf("%d:%s", i, req), string(resp))
			}
		}(i)
	}
	wg.Wait()
}

func TestConnectFailsWithoutServer(t *testing.T) {
	ct := NewBaseClientTransport(&testClientConnector{})
	err := ct.Connect(common.ClientConfig{
		Transport: common.ClientTransportConfig{Endpoints: []string{filepath.Join(t.TempDir(), "missing.sock")}},
	})
	assert.Error(t, err)

	assert.Error(t, ct.Connect(common.ClientConfig{}), "no endpoints")
}

func TestSendAfterClose(t *testing.T) {
	_, socket := startServer(t, echoHandler)
	ct := connectClient(t, socket, 1)
	require.NoError(t, ct.Close())

	_, err := ct.Send(1, []byte("get Doe"))
	assert.Error(t, err)
}

func TestListenWithoutHandler(t *testing.T) {
	st := NewBaseServerTransport(&testServerConnector{}, 64)
	err := st.Listen(common.ServerConfig{
		Transport: common.ServerTransportConfig{Endpoint: filepath.Join(t.TempDir(), "x.sock")},
	})
	assert.Error(t, err)
}
