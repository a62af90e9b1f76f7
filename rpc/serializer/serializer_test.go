package serializer

import (
	"github.com/ValentinKolb/dPB/rpc/common"
	"reflect"
	"testing"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Submit request
		{
			MsgType: common.MsgTSubmit,
			Value:   []byte("insert Jane Doe 30 555-1234 jane@x.io"),
		},

		// Drain request
		{
			MsgType:  common.MsgTDrain,
			MaxBytes: 1024,
		},

		// Drain response
		{
			MsgType: common.MsgTDrain,
			Value:   []byte("first name: Jane\nlast name: Doe\n"),
			Ok:      true,
		},

		// Error response
		{
			MsgType: common.MsgTError,
			Err:     "DeviceError (code InputTooLarge): input too large: 2000 bytes (max 1024)",
		},

		// Message with all fields filled
		{
			MsgType:  common.MsgTStats,
			Value:    []byte("value"),
			MaxBytes: 77,
			Ok:       true,
			Err:      "partial",
			Meta:     []byte(`{"records":2,"queued":14}`),
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestDeserializeOverwritesMessage tests that decoding into a used message leaves nothing of the old content
func TestDeserializeOverwritesMessage(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			data, err := serializer.Serialize(common.Message{MsgType: common.MsgTSubmit, Ok: true})
			if err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}

			msg := common.Message{
				MsgType:  common.MsgTStats,
				Value:    []byte("old"),
				MaxBytes: 9,
				Err:      "old error",
				Meta:     []byte("old meta"),
			}
			if err := serializer.Deserialize(data, &msg); err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}

			expected := common.Message{MsgType: common.MsgTSubmit, Ok: true}
			if !reflect.DeepEqual(expected, msg) {
				t.Errorf("Expected %+v, got %+v", expected, msg)
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// Test each message type (don't test for MsgTUnknown since this should raise an error)
			for msgType := common.MsgTSuccess; msgType <= common.MsgTStats; msgType++ {
				msg := common.Message{MsgType: msgType}

				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Check type
				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestBinaryKeepsEmptySlices tests that the binary serializer keeps nil and empty slices apart
func TestBinaryKeepsEmptySlices(t *testing.T) {
	serializer := NewBinarySerializer()

	// Test cases for empty or zero values
	testCases := []struct {
		name string
		msg  common.Message
	}{
		{
			name: "Empty message",
			msg:  common.Message{},
		},
		{
			name: "Message with empty slices and zero values",
			msg: common.Message{
				MsgType:  common.MsgTDrain,
				Value:    []byte{},
				MaxBytes: 0,
				Ok:       false,
				Err:      "",
				Meta:     []byte{},
			},
		},
		{
			name: "Ok without payload",
			msg: common.Message{
				MsgType: common.MsgTSubmit,
				Ok:      true,
				Value:   nil,
			},
		},
		{
			name: "Drain response with empty value slice but not nil",
			msg: common.Message{
				MsgType: common.MsgTDrain,
				Ok:      true,
				Value:   []byte{},
			},
		},
		{
			name: "Stats response with empty meta slice but not nil",
			msg: common.Message{
				MsgType: common.MsgTStats,
				Meta:    []byte{},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Serialize
			data, err := serializer.Serialize(tc.msg)
			if err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}

			// Deserialize
			var result common.Message
			err = serializer.Deserialize(data, &result)
			if err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}

			// DeepEqual also tells nil and empty slices apart
			if !reflect.DeepEqual(tc.msg, result) {
				t.Errorf("Message doesn't match after round trip:\nOriginal: %#v\nResult: %#v", tc.msg, result)
			}
		})
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Too short header",
			data:        []byte{1}, // Only message type, no flags
			expectError: true,
		},
		{
			name:        "Valid header only",
			data:        []byte{1, 0}, // Message type 1, no flags
			expectError: false,
		},
		{
			name:        "Invalid length for value",
			data:        []byte{3, 1, 0, 0, 0, 5, 'a', 'b', 'c'}, // Claims value length 5 but only 3 bytes provided
			expectError: true,
		},
		{
			name:        "Truncated MaxBytes",
			data:        []byte{4, 2, 0, 0, 0, 10}, // MaxBytes needs 8 bytes
			expectError: true,
		},
		{
			name:        "Ok flag only",
			data:        []byte{3, 4},
			expectError: false,
		},
		{
			name:        "Trailing bytes",
			data:        []byte{1, 0, 42},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}
