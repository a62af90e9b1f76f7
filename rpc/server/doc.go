// Package server implements the RPC server of the phone book service. It keeps
// one phone book device per configured shard and routes every request to the
// device of its shard.
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a device.IDevice.
//
//   - NewDeviceServerAdapter: Factory function creating an adapter that translates
//     submit, drain and stats requests to device.IDevice method calls. Device
//     errors keep their return code on the wire.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Shards:        []uint64{1, 2},
//	  QueueSize:     1024,
//	  InputSize:     1024,
//	  TimeoutSecond: 5,
//	  Transport:     common.ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
//	  LogLevel:      "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	// Start the server (blocks until s.Close is called)
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// If MetricsEndpoint is set, the server also exposes GET /metrics there. Close
// stops the transport and closes every device, which releases all records.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	across multiple connections. Each device applies one command at a time.
//	Serve should be called only once.
package server
