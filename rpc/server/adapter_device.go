package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ValentinKolb/dPB/lib/device"
	"github.com/ValentinKolb/dPB/rpc/common"
)

func NewDeviceServerAdapter() IRPCServerAdapter {
	return &deviceServerAdapterImpl{}
}

type deviceServerAdapterImpl struct{}

func (adapter *deviceServerAdapterImpl) Handle(req *common.Message, dev device.IDevice) *common.Message {
	// Check for nil device
	if dev == nil {
		return common.NewErrorResponse("handler: device is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTSubmit:
		err := dev.Submit(req.Value)
		return withErrorCode(common.NewSubmitResponse(err), err)
	case common.MsgTDrain:
		data, err := dev.Drain(int(min(req.MaxBytes, math.MaxInt32)))
		return withErrorCode(common.NewDrainResponse(data, err), err)
	case common.MsgTStats:
		stats, err := dev.Stats()
		if err != nil {
			return withErrorCode(common.NewStatsResponse(nil, err), err)
		}
		meta, err := json.Marshal(stats)
		return common.NewStatsResponse(meta, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC DeviceAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}

// withErrorCode moves the return code of a device error into the response, so
// the client can rebuild the *device.Error. Err then carries only the message.
func withErrorCode(resp *common.Message, err error) *common.Message {
	var devErr *device.Error
	if errors.As(err, &devErr) {
		resp.Err = devErr.Msg
		resp.Meta = []byte(devErr.Code.String())
	}
	return resp
}
