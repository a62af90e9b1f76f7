package book

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/dPB/lib/device"
	"github.com/ValentinKolb/dPB/rpc/client"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const shellPrompt = "dpb> "

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Reads command lines from stdin and prints their output",
	Long: `Reads protocol command lines (insert, get, remove) from stdin, one per line,
and prints the output of every command. A prompt is shown if stdin is a terminal.
Type "exit" or "quit" (or send EOF) to leave the shell.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fd := os.Stdin.Fd()
		interactive := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		return runShell(rpcDevice, os.Stdin, os.Stdout, os.Stderr, drainSize(), interactive)
	},
}

// runShell executes every line of in against dev and writes the output to out.
// Device errors are reported on errOut and do not end the shell.
func runShell(dev device.IDevice, in io.Reader, out, errOut io.Writer, chunk int, interactive bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	prompt := func() {
		if interactive {
			_, _ = fmt.Fprint(out, shellPrompt)
		}
	}

	for prompt(); scanner.Scan(); prompt() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		data, err := client.Query(dev, []byte(line), chunk)
		if len(data) > 0 {
			if _, werr := out.Write(data); werr != nil {
				return werr
			}
		}
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "error: %v\n", err)
		}
	}

	if interactive {
		_, _ = fmt.Fprintln(out)
	}
	return scanner.Err()
}
