package kv

import (
	"github.com/kvclabs/dkc/cmd/util"
	"github.com/kvclabs/dkc/lib/session"
	"github.com/spf13/cobra"
)

var (
	sess *session.Session

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value operations against a dkc cluster",
		PersistentPreRunE: setupClient,
		PersistentPostRun: teardownClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the KV command
	util.SetupRPCClientFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(setAllCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(renameCmd)
	KeyValueCommands.AddCommand(subkeysCmd)
	KeyValueCommands.AddCommand(addSubkeyCmd)
	KeyValueCommands.AddCommand(rmSubkeyCmd)
	KeyValueCommands.AddCommand(clearSubkeysCmd)
	KeyValueCommands.AddCommand(attrsCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupClient opens the session all kv subcommands run on
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	sess, err = util.OpenSession()
	return err
}

func teardownClient(_ *cobra.Command, _ []string) {
	if sess != nil {
		sess.Close()
	}
}
