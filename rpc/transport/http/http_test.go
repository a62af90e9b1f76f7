package http

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ValentinKolb/dPB/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer starts an httptest server using the transport router with an echo handler
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := &httpServerTransport{}
	st.RegisterHandler(func(shardId uint64, req []byte) []byte {
		return []byte(fmt.Sprintf("%d:%s", shardId, req))
	})
	srv := httptest.NewServer(st.router())
	t.Cleanup(srv.Close)
	return srv
}

func TestRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	ct := NewHttpClientTransport()
	require.NoError(t, ct.Connect(common.ClientConfig{
		TimeoutSecond: 5,
		Transport:     common.ClientTransportConfig{Endpoints: []string{srv.URL}, RetryCount: 2},
	}))
	defer ct.Close()

	for _, shard := range []uint64{0, 7, 1 << 40} {
		resp, err := ct.Send(shard, []byte("get Doe"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d:get Doe", shard), string(resp))
	}
}

func TestEndpointWithoutScheme(t *testing.T) {
	srv := newTestServer(t)

	ct := NewHttpClientTransport()
	require.NoError(t, ct.Connect(common.ClientConfig{
		Transport: common.ClientTransportConfig{Endpoints: []string{strings.TrimPrefix(srv.URL, "http://")}},
	}))
	defer ct.Close()

	resp, err := ct.Send(1, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "1:x", string(resp))
}

func TestInvalidShardId(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/not-a-number", "application/octet-stream", strings.NewReader("get Doe"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	// process metrics are always exposed
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestSendNotConnected(t *testing.T) {
	_, err := NewHttpClientTransport().Send(1, nil)
	assert.Error(t, err)
}

func TestConnectNoEndpoints(t *testing.T) {
	assert.Error(t, NewHttpClientTransport().Connect(common.ClientConfig{}))
}
