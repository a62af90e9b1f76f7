package client

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dPB/lib/device"
	"github.com/ValentinKolb/dPB/rpc/common"
	"github.com/ValentinKolb/dPB/rpc/serializer"
	"github.com/ValentinKolb/dPB/rpc/transport"
)

// NewRPCDevice creates a new RPC device
// The function takes a shard ID, a config, a transport and a serializer as parameters
// It returns a device.IDevice and an error
func NewRPCDevice(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (device.IDevice, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC device
	d := rpcDevice{
		rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Return the RPC device
	return &d, nil
}

type rpcDevice struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the device package in interface.go)
// --------------------------------------------------------------------------

func (d *rpcDevice) Submit(line []byte) (err error) {
	req := common.NewSubmitRequest(line)
	_, err = invokeRPCRequest(d.shardId, req, d.transport, d.serializer)
	return err
}

func (d *rpcDevice) Drain(max int) (data []byte, err error) {
	if max < 0 {
		return nil, device.NewError(device.RetCInvalidArgument, fmt.Sprintf("invalid drain size %d", max))
	}
	req := common.NewDrainRequest(uint64(max))
	resp, err := invokeRPCRequest(d.shardId, req, d.transport, d.serializer)
	if err != nil {
		return nil, err
	}
	// some serializers drop empty slices
	if resp.Value == nil {
		return []byte{}, nil
	}
	return resp.Value, nil
}

func (d *rpcDevice) Stats() (stats device.Stats, err error) {
	req := common.NewStatsRequest()
	resp, err := invokeRPCRequest(d.shardId, req, d.transport, d.serializer)
	if err != nil {
		return stats, err
	}
	if err := json.Unmarshal(resp.Meta, &stats); err != nil {
		return stats, fmt.Errorf("RPC DeviceAdapter - invalid stats: %v", err)
	}
	return stats, nil
}

// Close closes the client transport. The remote device stays open, it is
// closed when its server stops.
func (d *rpcDevice) Close() (err error) {
	return d.transport.Close()
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// Query submits one command line and drains the output queue in chunks of
// at most max bytes until it is empty. It returns everything read.
func Query(dev device.IDevice, line []byte, max int) ([]byte, error) {
	if max < 1 {
		return nil, device.NewError(device.RetCInvalidArgument, fmt.Sprintf("invalid drain size %d", max))
	}

	if err := dev.Submit(line); err != nil {
		return nil, err
	}

	var out []byte
	for {
		chunk, err := dev.Drain(max)
		if err != nil {
			return out, err
		}
		if len(chunk) == 0 {
			return out, nil
		}
		out = append(out, chunk...)
	}
}
