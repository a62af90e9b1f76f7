package serializer

import "github.com/ValentinKolb/dPB/rpc/common"

// IRPCSerializer converts messages to and from the payload of a transport frame.
// Client and server must use the same implementation.
//
// Only the binary serializer keeps the difference between a nil and an empty
// byte slice; json and gob decode an empty Value or Meta as nil.
type IRPCSerializer interface {
	// Serialize encodes msg
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes data into msg. All fields of msg are overwritten.
	Deserialize(data []byte, msg *common.Message) error
}
