package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/dPB/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format:
//
//	1 byte MsgType | 1 byte flags | optional fields in flag order
//
// Byte slices and strings are length prefixed (4 bytes, big endian).
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasValue    byte = 1 << 0
	hasMaxBytes byte = 1 << 1
	hasOk       byte = 1 << 2
	hasErr      byte = 1 << 3
	hasMeta     byte = 1 << 4
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	result := make([]byte, 2, b.sizeBytes(msg))

	// Write message type
	result[0] = byte(msg.MsgType)

	var flags byte = 0

	// A nil slice is absent, an empty slice is present with length 0
	if msg.Value != nil {
		flags |= hasValue
		result = appendBytes(result, msg.Value)
	}

	if msg.MaxBytes > 0 {
		flags |= hasMaxBytes
		result = binary.BigEndian.AppendUint64(result, msg.MaxBytes)
	}

	// Ok is encoded by its flag alone
	if msg.Ok {
		flags |= hasOk
	}

	if msg.Err != "" {
		flags |= hasErr
		result = appendBytes(result, []byte(msg.Err))
	}

	if msg.Meta != nil {
		flags |= hasMeta
		result = appendBytes(result, msg.Meta)
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	pos := 2

	var err error

	// Read Value if present
	msg.Value = nil
	if flags&hasValue != 0 {
		if msg.Value, pos, err = readBytes(data, pos, "value"); err != nil {
			return err
		}
	}

	// Read MaxBytes if present
	msg.MaxBytes = 0
	if flags&hasMaxBytes != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for MaxBytes")
		}
		msg.MaxBytes = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	}

	msg.Ok = flags&hasOk != 0

	// Read Err if present
	msg.Err = ""
	if flags&hasErr != 0 {
		var errBytes []byte
		if errBytes, pos, err = readBytes(data, pos, "error"); err != nil {
			return err
		}
		msg.Err = string(errBytes)
	}

	// Read Meta if present
	msg.Meta = nil
	if flags&hasMeta != 0 {
		if msg.Meta, pos, err = readBytes(data, pos, "meta"); err != nil {
			return err
		}
	}

	if pos != len(data) {
		return fmt.Errorf("%d trailing bytes after message", len(data)-pos)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.Value != nil {
		size += 4 + len(msg.Value) // 4 bytes for length + value bytes
	}
	if msg.MaxBytes > 0 {
		size += 8 // uint64
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) // 4 bytes for length + error string
	}
	if msg.Meta != nil {
		size += 4 + len(msg.Meta) // 4 bytes for length + meta bytes
	}

	return size
}

// appendBytes appends a length prefixed byte slice
func appendBytes(dst, src []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(src)))
	return append(dst, src...)
}

// readBytes reads a length prefixed byte slice starting at pos and returns a copy
// (never nil) and the position after it
func readBytes(data []byte, pos int, field string) ([]byte, int, error) {
	if pos+4 > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4

	if pos+n > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s data", field)
	}
	out := make([]byte, n)
	copy(out, data[pos:pos+n])
	return out, pos + n, nil
}
