package serve

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	cmdUtil "github.com/ValentinKolb/dPB/cmd/util"
	"github.com/ValentinKolb/dPB/lib/device"
	"github.com/ValentinKolb/dPB/lib/outqueue"
	"github.com/ValentinKolb/dPB/rpc/common"
	"github.com/ValentinKolb/dPB/rpc/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dPB server",
		Long:    `Start the dPB server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DPB_<flag> (e.g. DPB_QUEUE_SIZE=4096)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "shards"
	ServeCmd.PersistentFlags().String(key, "1", cmdUtil.WrapString("Comma-separated list of shard IDs to serve. Every shard is an independent phone book"))

	key = "queue-size"
	ServeCmd.PersistentFlags().Int(key, outqueue.DefaultCapacity, cmdUtil.WrapString("Capacity of the output queue of each phone book in bytes. Output that is not read in time is overwritten oldest first"))

	key = "input-size"
	ServeCmd.PersistentFlags().Int(key, device.DefaultInputSize, cmdUtil.WrapString("Maximum length of a single command line in bytes. Longer lines are rejected"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds for writing responses (0 = no timeout)"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, /tmp/dpb.sock, ...)"))

	key = "workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("Maximum number of requests processed concurrently per connection (ignored for http)"))

	key = "buffer-size"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Size of the pooled read buffers in KB (0 = transport default, ignored for http)"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval in seconds (only for tcp)"))

	key = "tcp-linger"
	ServeCmd.PersistentFlags().Int(key, -1, cmdUtil.WrapString("The linger time in seconds (only for tcp, -1 keeps the OS default)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of a separate HTTP endpoint serving GET /metrics (empty = disabled). The http transport always serves /metrics"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse shards
	shards, err := parseShards(viper.GetString("shards"))
	if err != nil {
		return err
	}
	serveCmdConfig.Shards = shards

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.QueueSize = viper.GetInt("queue-size")
	serveCmdConfig.InputSize = viper.GetInt("input-size")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport = common.ServerTransportConfig{
		Endpoint:       viper.GetString("endpoint"),
		WorkersPerConn: viper.GetInt("workers-per-conn"),
		BufferSize:     viper.GetInt("buffer-size") * 1024,
		TCPConf: common.TCPConf{
			TCPNoDelay:      viper.GetBool("tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("tcp-linger"),
		},
	}

	if serveCmdConfig.QueueSize < 1 {
		return fmt.Errorf("queue-size must be positive, got %d", serveCmdConfig.QueueSize)
	}
	if serveCmdConfig.InputSize < 1 {
		return fmt.Errorf("input-size must be positive, got %d", serveCmdConfig.InputSize)
	}

	return nil
}

// parseShards parses a comma-separated list of unique shard IDs
func parseShards(shardsConfig string) ([]uint64, error) {
	var shards []uint64
	seen := make(map[uint64]bool)

	for _, part := range strings.Split(shardsConfig, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		shardID, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shard ID %s: %v", part, err)
		}
		if seen[shardID] {
			return nil, fmt.Errorf("duplicate shard ID %d", shardID)
		}
		seen[shardID] = true
		shards = append(shards, shardID)
	}

	if len(shards) == 0 {
		return nil, fmt.Errorf("at least one shard is required")
	}
	return shards, nil
}

// run starts the dPB server and stops it on SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	// close the server (and release all records) on shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		server.Logger.Infof("received %s, shutting down", sig)
		if err := serv.Close(); err != nil {
			server.Logger.Errorf("error during shutdown: %v", err)
		}
	}()

	return serv.Serve()
}

// initConfig reads in ENV variables and .env files if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(cmdUtil.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
