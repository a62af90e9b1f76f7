package server

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/ValentinKolb/dPB/lib/device"
	"github.com/ValentinKolb/dPB/lib/store/lstore"
	"github.com/ValentinKolb/dPB/rpc/common"
	"github.com/ValentinKolb/dPB/rpc/serializer"
	"github.com/ValentinKolb/dPB/rpc/transport"
	httptransport "github.com/ValentinKolb/dPB/rpc/transport/http"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc/server")

// serverShard is a struct that represents a shard in the RPC server
// It contains the device it encapsulates and the adapter
// that handles requests for the device
type serverShard struct {
	Device  device.IDevice
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create the RPC server
	return &rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     xsync.NewMapOf[uint64, serverShard](),
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, serverShard]

	closed        atomic.Bool
	metricsMu     sync.Mutex
	metricsServer *http.Server
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer.
// It blocks until Close is called or the transport fails.
func (s *rpcServer) Serve() error {
	if err := s.init(); err != nil {
		return err
	}
	if s.closed.Load() {
		return nil
	}
	return s.transport.Listen(s.config)
}

// Close stops the transport and the metrics endpoint and closes all devices,
// which releases every stored record
func (s *rpcServer) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	err := s.transport.Close()

	s.metricsMu.Lock()
	if s.metricsServer != nil {
		err = errors.Join(err, s.metricsServer.Close())
	}
	s.metricsMu.Unlock()

	s.shards.Range(func(shardId uint64, shard serverShard) bool {
		err = errors.Join(err, shard.Device.Close())
		s.shards.Delete(shardId)
		return true
	})

	Logger.Infof("RPC server stopped")
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *rpcServer) init() error {
	// Init logger
	if s.config.LogLevel != "" {
		common.InitLoggers(s.config.LogLevel)
	}

	if len(s.config.Shards) == 0 {
		return fmt.Errorf("no shards configured")
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(s.config.String())

	opts := &device.Options{
		QueueSize: s.config.QueueSize,
		InputSize: s.config.InputSize,
	}

	// CREATE SHARDS (one phone book device per shard)
	for _, shardId := range s.config.Shards {
		if _, loaded := s.shards.Load(shardId); loaded {
			return fmt.Errorf("duplicate shard %d", shardId)
		}
		s.shards.Store(shardId, serverShard{
			Device:  device.NewDevice(strconv.FormatUint(shardId, 10), lstore.Factory, opts),
			Adapter: NewDeviceServerAdapter(),
		})
		Logger.Infof("created phone book device for shard %d", shardId)
	}

	if s.config.MetricsEndpoint != "" {
		s.startMetricsServer()
	}

	Logger.Infof("dPB setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// startMetricsServer serves GET /metrics on the configured metrics endpoint
func (s *rpcServer) startMetricsServer() {
	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()

	s.metricsServer = httptransport.NewMetricsServer(s.config.MetricsEndpoint)
	server := s.metricsServer

	go func() {
		Logger.Infof("Starting metrics endpoint on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Metrics endpoint failed: %v", err)
		}
	}()
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(shardId uint64, req []byte) []byte {
		var msg common.Message
		var respMsg *common.Message

		// Get appropriate shard
		shard, ok := s.shards.Load(shardId)

		// Case shard does not exist -> error
		if !ok {
			respMsg = common.NewErrorResponse(fmt.Sprintf("shard %d not found", shardId))
		} else if err := s.serializer.Deserialize(req, &msg); err != nil {
			respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
		} else {
			// Let the adapter handle the request
			respMsg = shard.Adapter.Handle(&msg, shard.Device)
		}

		// Return result
		val, err := s.serializer.Serialize(*respMsg)
		if err != nil {
			Logger.Errorf("failed to serialize response: %v", err)
			val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
		}
		return val
	})
}
