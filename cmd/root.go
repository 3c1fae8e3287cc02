package cmd

import (
	"fmt"
	"os"

	"github.com/kvclabs/dkc/cmd/cas"
	"github.com/kvclabs/dkc/cmd/kv"
	"github.com/kvclabs/dkc/cmd/queue"
	"github.com/kvclabs/dkc/cmd/serve"
	"github.com/kvclabs/dkc/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dkc",
		Short: "distributed key-value cluster client and server",
		Long: fmt.Sprintf(`dkc (v%s)

A client and server for distributed key-value clusters with subkey
hierarchies, queues and compare-and-swap counter cells.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dkc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dkc v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(cas.CasCommands)
	RootCmd.AddCommand(queue.QueueCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix, http)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
