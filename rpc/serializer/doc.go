// Package serializer encodes the messages exchanged between a phone book client
// and server. Three interchangeable formats implement IRPCSerializer; client and
// server have to agree on one (the --serializer flag).
//
// Formats:
//
//   - binary: one type byte, one flag byte marking the present fields, then the
//     present fields in a fixed order. Byte slices are length prefixed, so
//     command lines and drained output are copied as is. It is the smallest
//     format and the only one that keeps nil and empty slices apart. Trailing
//     bytes after the last field are an error.
//
//   - json: readable on the wire (message types by name, byte slices base64),
//     handy when debugging the http transport with curl.
//
//   - gob: Go's self-describing format. Every payload repeats the type
//     description, which makes it the largest of the three for the short
//     messages of the line protocol.
//
// BenchmarkSession reports the bytes one insert/get/drain exchange puts on
// the wire with each format.
//
// All implementations are stateless and safe for concurrent use. Deserialize
// always overwrites every field of the target message.
//
// Usage:
//
//	s := serializer.NewBinarySerializer()
//	data, err := s.Serialize(*common.NewSubmitRequest([]byte("get Doe")))
//	// ... send data ...
//	var resp common.Message
//	err = s.Deserialize(respData, &resp)
package serializer
