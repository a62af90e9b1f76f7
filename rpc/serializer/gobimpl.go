package serializer

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/ValentinKolb/dPB/rpc/common"
)

// NewGOBSerializer creates a serializer using Go's gob format.
// Every message is encoded as a self-describing stream, so the type
// information is repeated in each payload.
func NewGOBSerializer() IRPCSerializer {
	return gobSerializerImpl{}
}

type gobSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (gobSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, fmt.Errorf("gob: %w", err)
	}
	return buf.Bytes(), nil
}

func (gobSerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// gob only writes non-zero fields, decoding into a used message would mix both
	*msg = common.Message{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(msg); err != nil {
		return fmt.Errorf("gob: %w", err)
	}
	return nil
}
