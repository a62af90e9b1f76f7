// Package outqueue implements the bounded output queue of a phone book device.
//
// Results of commands are appended to a fixed-size circular byte buffer and
// read back later by a client with Drain. The buffer never grows.
//
// Overflow:
//
//	There is no backpressure. When more bytes are pushed than the queue can
//	hold, the oldest unread bytes are overwritten. Pushing capacity+1 bytes
//	and draining returns the last capacity bytes. A separate length counter
//	is kept so a full queue is never mistaken for an empty one. Lost bytes are
//	counted (Dropped) but never reported as an error.
//
// Thread Safety:
//
//	Queue is not thread-safe. The device package guards push and drain with
//	a mutex.
package outqueue
