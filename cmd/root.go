package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dPB/cmd/book"
	"github.com/ValentinKolb/dPB/cmd/serve"
	"github.com/ValentinKolb/dPB/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dpb",
		Short: "in-memory phone book device",
		Long: fmt.Sprintf(`dPB (v%s)

An in-memory phone book written in Go. Records are managed with a small
line protocol (insert, get, remove) and results are read back from a
bounded output queue. Phone books are served over http, tcp or unix sockets.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dPB",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dPB v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(book.BookCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
