package server

import (
	"encoding/json"
	"testing"

	"github.com/ValentinKolb/dPB/lib/device"
	"github.com/ValentinKolb/dPB/lib/store/lstore"
	"github.com/ValentinKolb/dPB/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceAdapter(t *testing.T) {
	dev := device.NewDevice(t.Name(), lstore.Factory, &device.Options{QueueSize: 64, InputSize: 64})
	defer dev.Close()
	adapter := NewDeviceServerAdapter()

	resp := adapter.Handle(common.NewSubmitRequest([]byte("get Nobody")), dev)
	assert.Equal(t, common.MsgTSubmit, resp.MsgType)
	assert.True(t, resp.Ok)
	assert.Empty(t, resp.Err)

	resp = adapter.Handle(common.NewDrainRequest(5), dev)
	assert.Equal(t, common.MsgTDrain, resp.MsgType)
	assert.Equal(t, "Nothi", string(resp.Value))

	resp = adapter.Handle(common.NewStatsRequest(), dev)
	require.Equal(t, common.MsgTStats, resp.MsgType)
	var stats device.Stats
	require.NoError(t, json.Unmarshal(resp.Meta, &stats))
	assert.Equal(t, 9, stats.Queued)
	assert.Equal(t, 64, stats.Capacity)

	// device errors carry their code in Meta
	resp = adapter.Handle(common.NewSubmitRequest(make([]byte, 65)), dev)
	assert.False(t, resp.Ok)
	assert.Equal(t, "InputTooLarge", string(resp.Meta))
	assert.Contains(t, resp.Err, "65 bytes")

	resp = adapter.Handle(&common.Message{MsgType: common.MsgTSuccess}, dev)
	assert.Equal(t, common.MsgTError, resp.MsgType)

	resp = adapter.Handle(common.NewStatsRequest(), nil)
	assert.Equal(t, common.MsgTError, resp.MsgType)
}

func TestDeviceAdapterClosedDevice(t *testing.T) {
	dev := device.NewDevice(t.Name(), lstore.Factory, nil)
	require.NoError(t, dev.Close())

	resp := NewDeviceServerAdapter().Handle(common.NewDrainRequest(10), dev)
	assert.Equal(t, "Closed", string(resp.Meta))
	assert.NotEmpty(t, resp.Err)
}
