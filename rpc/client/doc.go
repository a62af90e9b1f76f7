// Package client implements the RPC client of the phone book service. It
// provides an implementation of the device.IDevice interface that forwards
// every call to a remote server.
//
// Key Components:
//
//   - NewRPCDevice: Factory function that creates a client implementing
//     device.IDevice for one shard. Device errors returned by the server are
//     rebuilt as *device.Error with their original return code.
//
//   - Query: Submits one command line and drains the output until the queue is
//     empty.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:8080"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create the device client
//	dev, _ := client.NewRPCDevice(1, config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//
//	// Use the device
//	dev.Submit([]byte("insert Jane Doe 30 555-1234 jane@x.io"))
//	out, _ := client.Query(dev, []byte("get Doe"), 1024)
//
// Close only closes the client transport; the remote device keeps its records.
//
// Thread Safety:
//
//	All client implementations are thread-safe and can be used concurrently from
//	multiple goroutines without additional synchronization. Note that the output
//	queue is shared: concurrent readers of one shard split its output.
package client
