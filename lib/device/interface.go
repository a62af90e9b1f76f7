package device

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IDevice is the byte-stream boundary of a phone book: command lines go in with
// Submit, formatted results come out with Drain.
// One Submit call carries exactly one command line.
type IDevice interface {
	// Submit executes one command line. It only fails for transport level
	// problems (input too large, device closed); malformed commands are
	// dropped silently and return nil.
	Submit(line []byte) (err error)
	// Drain removes and returns up to max bytes of queued output.
	// It never blocks; if nothing is queued, an empty slice is returned.
	Drain(max int) (data []byte, err error)
	// Stats returns a snapshot of the device state.
	Stats() (stats Stats, err error)
	// Close releases all records. Every later call fails with RetCClosed.
	Close() (err error)
}

// Stats describes the state of a device at one point in time
type Stats struct {
	Records   int    `json:"records"`    // number of records in the store
	Queued    int    `json:"queued"`     // unread output bytes
	Capacity  int    `json:"capacity"`   // output queue capacity
	Dropped   uint64 `json:"dropped"`    // output bytes overwritten before they were read
	InputSize int    `json:"input_size"` // maximum accepted command line length
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("DeviceError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new device error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Command accepted.
	RetCInternalError                // 1: Internal error.
	RetCInputTooLarge                // 2: Command line exceeds the input size.
	RetCClosed                       // 3: Device was closed.
	RetCInvalidArgument              // 4: Invalid argument (e.g. negative drain size).
)

// String returns the name of the return code
func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInputTooLarge:
		return "InputTooLarge"
	case RetCClosed:
		return "Closed"
	case RetCInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// ParseRetCode returns the return code with the given name (see RetCode.String)
func ParseRetCode(name string) (RetCode, bool) {
	for c := RetCSuccess; c <= RetCInvalidArgument; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// HasCode reports whether err is a device *Error with the given code
func HasCode(err error, code RetCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
