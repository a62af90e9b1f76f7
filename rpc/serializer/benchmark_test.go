package serializer

import (
	"strconv"
	"testing"

	"github.com/ValentinKolb/dPB/rpc/common"
)

// sessionMessages is the traffic of one "insert, get, drain" exchange as seen
// by a serializer: requests and responses in order
func sessionMessages() []common.Message {
	return []common.Message{
		{MsgType: common.MsgTSubmit, Value: []byte("insert Ada Lovelace 36 +44-20-0000 ada@engine.org")},
		{MsgType: common.MsgTSubmit, Ok: true},
		{MsgType: common.MsgTSubmit, Value: []byte("get Lovelace")},
		{MsgType: common.MsgTSubmit, Ok: true},
		{MsgType: common.MsgTDrain, MaxBytes: 1024},
		{MsgType: common.MsgTDrain, Ok: true, Value: []byte("first name: Ada\nlast name: Lovelace\nage: 36\nphone number: +44-20-0000\nemail: ada@engine.org\n")},
	}
}

// BenchmarkSession encodes and decodes a full session per iteration and
// reports the bytes on the wire
func BenchmarkSession(b *testing.B) {
	messages := sessionMessages()

	for name, factory := range testSerializers {
		b.Run(name, func(b *testing.B) {
			serializer := factory()

			wire := 0
			for _, msg := range messages {
				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}
				wire += len(data)
			}
			b.ReportMetric(float64(wire), "wire-bytes/session")
			b.ResetTimer()

			var decoded common.Message
			for i := 0; i < b.N; i++ {
				for _, msg := range messages {
					data, err := serializer.Serialize(msg)
					if err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
					if err := serializer.Deserialize(data, &decoded); err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			}
		})
	}
}

// BenchmarkDrainFullQueue measures the largest regular response: a drain of
// a full queue of the given size
func BenchmarkDrainFullQueue(b *testing.B) {
	for _, size := range []int{1024, 16 * 1024} {
		msg := common.Message{MsgType: common.MsgTDrain, Ok: true, Value: make([]byte, size)}

		for name, factory := range testSerializers {
			b.Run(name+"_"+byteSize(size), func(b *testing.B) {
				serializer := factory()
				b.SetBytes(int64(size))

				var decoded common.Message
				for i := 0; i < b.N; i++ {
					data, err := serializer.Serialize(msg)
					if err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
					if err := serializer.Deserialize(data, &decoded); err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

func byteSize(n int) string {
	if n >= 1024 && n%1024 == 0 {
		return strconv.Itoa(n/1024) + "KB"
	}
	return strconv.Itoa(n) + "B"
}
