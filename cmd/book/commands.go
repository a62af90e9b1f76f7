package book

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ValentinKolb/dPB/lib/interp"
	"github.com/ValentinKolb/dPB/lib/record"
	"github.com/ValentinKolb/dPB/rpc/client"
	"github.com/spf13/cobra"
)

var (
	submitCmd = &cobra.Command{
		Use:   "submit [command...]",
		Short: "Submits a raw command line without reading the output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")
			if err := rpcDevice.Submit([]byte(line)); err != nil {
				return err
			}
			fmt.Println("submitted successfully")
			return nil
		},
	}
	drainCmd = &cobra.Command{
		Use:   "drain [max]",
		Short: "Reads and removes up to max bytes of queued output (default: everything)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return drainAll()
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("max must be a number: %w", err)
			}
			data, err := rpcDevice.Drain(n)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
	insertCmd = &cobra.Command{
		Use:   "insert [first] [last] [age] [phone] [email]",
		Short: "Inserts a record",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := record.Record{
				FirstName:   args[0],
				LastName:    args[1],
				Age:         args[2],
				PhoneNumber: args[3],
				Email:       args[4],
			}
			if err := r.Validate(); err != nil {
				return err
			}
			if err := rpcDevice.Submit([]byte(r.InsertLine())); err != nil {
				return err
			}
			fmt.Println("insert successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [last]",
		Short: "Prints the newest record with the given last name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := client.Query(rpcDevice, []byte(interp.CmdGet+" "+args[0]), drainSize())
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
	removeCmd = &cobra.Command{
		Use:   "remove [last]",
		Short: "Removes the newest record with the given last name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcDevice.Submit([]byte(interp.CmdRemove + " " + args[0])); err != nil {
				return err
			}
			fmt.Println("remove successfully")
			return nil
		},
	}
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Prints the state of the phone book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := rpcDevice.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("records=%d, queued=%d, capacity=%d, dropped=%d, input-size=%d\n",
				stats.Records, stats.Queued, stats.Capacity, stats.Dropped, stats.InputSize)
			return nil
		},
	}
	importCmd = &cobra.Command{
		Use:   "import [file]",
		Short: "Inserts all contacts of a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := record.LoadYAML(f)
			if err != nil {
				return err
			}

			for i, r := range records {
				if err := rpcDevice.Submit([]byte(r.InsertLine())); err != nil {
					return fmt.Errorf("contact %d (%s): %w", i, r.LastName, err)
				}
			}
			fmt.Printf("imported %d contacts\n", len(records))
			return nil
		},
	}
)

// drainAll prints queued output until the queue is empty
func drainAll() error {
	for {
		data, err := rpcDevice.Drain(drainSize())
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		fmt.Print(string(data))
	}
}
