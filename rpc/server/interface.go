package server

import (
	"github.com/ValentinKolb/dPB/lib/device"
	"github.com/ValentinKolb/dPB/rpc/common"
)

// IRPCServerAdapter translates a request message into a device call
type IRPCServerAdapter interface {
	// Handle runs req against dev and returns the response. It never returns
	// nil; failures are reported inside the response (Err, and for device
	// errors the return code name in Meta).
	Handle(req *common.Message, dev device.IDevice) (resp *common.Message)
}
