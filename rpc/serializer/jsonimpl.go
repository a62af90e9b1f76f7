package serializer

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dPB/rpc/common"
)

// NewJSONSerializer creates a serializer producing human readable JSON.
// Message types are written by name, byte slices as base64.
func NewJSONSerializer() IRPCSerializer {
	return jsonSerializerImpl{}
}

type jsonSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return data, nil
}

func (jsonSerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// json.Unmarshal keeps fields missing from the input
	*msg = common.Message{}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}
