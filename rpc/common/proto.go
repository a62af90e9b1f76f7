package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Value    []byte `json:"value,omitempty"`     // Used for: Submit (request), Drain (response)
	MaxBytes uint64 `json:"max_bytes,omitempty"` // Used for: Drain (request)

	// Response only fields
	Ok  bool   `json:"ok,omitempty"`  // Set on every response that carries no error
	Err string `json:"err,omitempty"` // Empty if no error, otherwise contains the error message

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Used for: Stats (response, JSON encoded device stats)
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewSubmitRequest creates a new Submit request carrying one command line
func NewSubmitRequest(line []byte) *Message {
	return &Message{
		MsgType: MsgTSubmit,
		Value:   line,
	}
}

// NewSubmitResponse creates a new Submit response
func NewSubmitResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTSubmit,
		Ok:      err == nil,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewDrainRequest creates a new Drain request for up to maxBytes of output
func NewDrainRequest(maxBytes uint64) *Message {
	return &Message{
		MsgType:  MsgTDrain,
		MaxBytes: maxBytes,
	}
}

// NewDrainResponse creates a new Drain response
func NewDrainResponse(data []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTDrain,
		Ok:      err == nil,
		Value:   data,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewStatsRequest creates a new Stats request
func NewStatsRequest() *Message {
	return &Message{
		MsgType: MsgTStats,
	}
}

// NewStatsResponse creates a new Stats response, meta holds the encoded stats
func NewStatsResponse(meta []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTStats,
		Ok:      err == nil,
		Meta:    meta,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// NewSuccessResponse creates a new Success response
func NewSuccessResponse() *Message {
	return &Message{
		MsgType: MsgTSuccess,
		Ok:      true,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTSubmit:
		return "submit"
	case MsgTDrain:
		return "drain"
	case MsgTStats:
		return "stats"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "submit":
		*t = MsgTSubmit
	case "drain":
		*t = MsgTDrain
	case "stats":
		*t = MsgTStats
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IDevice operations

	MsgTSubmit // Execute one command line
	MsgTDrain  // Read queued output
	MsgTStats  // Read device statistics
)
