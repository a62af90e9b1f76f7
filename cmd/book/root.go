package book

import (
	"github.com/ValentinKolb/dPB/cmd/util"
	"github.com/ValentinKolb/dPB/lib/device"
	"github.com/ValentinKolb/dPB/rpc/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rpcDevice device.IDevice

	// BookCommands represents the phone book command group
	BookCommands = &cobra.Command{
		Use:                "book",
		Short:              "Perform phone book operations",
		PersistentPreRunE:  setupBookClient,
		PersistentPostRunE: closeBookClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the book command
	util.SetupRPCClientFlags(BookCommands)

	key := "drain-size"
	BookCommands.PersistentFlags().Int(key, 1024, util.WrapString("Maximum number of output bytes fetched per drain request"))

	// Add subcommands
	BookCommands.AddCommand(submitCmd)
	BookCommands.AddCommand(drainCmd)
	BookCommands.AddCommand(insertCmd)
	BookCommands.AddCommand(getCmd)
	BookCommands.AddCommand(removeCmd)
	BookCommands.AddCommand(statsCmd)
	BookCommands.AddCommand(importCmd)
	BookCommands.AddCommand(shellCmd)
	BookCommands.AddCommand(perfTestCmd)
}

// setupBookClient initializes the RPC device client
func setupBookClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	shardId := util.GetShardID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the device client
	rpcDevice, err = client.NewRPCDevice(
		shardId,
		*config,
		t,
		s,
	)

	return err
}

// closeBookClient closes the connection to the server
func closeBookClient(_ *cobra.Command, _ []string) error {
	if rpcDevice == nil {
		return nil
	}
	return rpcDevice.Close()
}

// drainSize returns the configured drain chunk size
func drainSize() int {
	return max(1, viper.GetInt("drain-size"))
}
