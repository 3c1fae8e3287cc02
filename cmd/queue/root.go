package queue

import (
	"fmt"

	"github.com/kvclabs/dkc/cmd/util"
	"github.com/kvclabs/dkc/lib/command"
	"github.com/kvclabs/dkc/lib/session"
	"github.com/spf13/cobra"
)

var (
	sess *session.Session

	// QueueCommands represents the queue command group
	QueueCommands = &cobra.Command{
		Use:               "queue",
		Short:             "Work with queues and key queues",
		PersistentPreRunE: setupClient,
		PersistentPostRun: teardownClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the queue command
	util.SetupRPCClientFlags(QueueCommands)

	// Ordering discipline, shared by all subcommands
	QueueCommands.PersistentFlags().Bool("lifo", false, util.WrapString("Use LIFO ordering instead of FIFO"))

	// Add subcommands
	QueueCommands.AddCommand(pushCmd)
	QueueCommands.AddCommand(popCmd)
	QueueCommands.AddCommand(kpushCmd)
	QueueCommands.AddCommand(kpopCmd)
}

func setupClient(cmd *cobra.Command, _ []string) error {
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

// queueOpts builds the command options for queue subcommands
func queueOpts(cmd *cobra.Command) []command.Option {
	opts := []command.Option{}
	if pass := util.GetPass(); pass != "" {
		opts = append(opts, command.WithPass(pass))
	}
	if expire := util.GetExpire(); expire != 0 {
		opts = append(opts, command.WithExpire(expire))
	}
	if checkAttrs, _ := cmd.Flags().GetBool("check-attrs"); checkAttrs {
		opts = append(opts, command.WithCheckAttrs())
	}
	return opts
}

func fifoOf(cmd *cobra.Command) bool {
	lifo, _ := cmd.Flags().GetBool("lifo")
	return !lifo
}

var (
	pushCmd = &cobra.Command{
		Use:   "push [prefix] [value]",
		Short: "Pushes a value onto a queue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewQueueAdd(args[0], args[1], fifoOf(cmd), queueOpts(cmd)...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return fmt.Errorf("push failed: code=%s subcode=%s", res.Code(), res.Subcode())
			}
			fmt.Println("push successfully")
			return nil
		},
	}
	popCmd = &cobra.Command{
		Use:   "pop [prefix]",
		Short: "Pops one or more values from a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			c, err := command.NewQueueRemove(args[0], count, fifoOf(cmd), queueOpts(cmd)...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return fmt.Errorf("pop failed: code=%s subcode=%s", res.Code(), res.Subcode())
			}
			values, found := res.Value()
			if !found {
				fmt.Println("queue is empty")
				return nil
			}
			for _, value := range values {
				fmt.Println(value)
			}
			return nil
		},
	}
	kpushCmd = &cobra.Command{
		Use:   "kpush [prefix] [key] [value]",
		Short: "Pushes a key-value pair onto a key queue",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewKeyQueueAdd(args[0], args[1], args[2], fifoOf(cmd), queueOpts(cmd)...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return fmt.Errorf("kpush failed: code=%s subcode=%s", res.Code(), res.Subcode())
			}
			fmt.Println("kpush successfully")
			return nil
		},
	}
	kpopCmd = &cobra.Command{
		Use:   "kpop [prefix]",
		Short: "Pops one or more key-value pairs from a key queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			c, err := command.NewKeyQueueRemove(args[0], count, fifoOf(cmd), queueOpts(cmd)...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return fmt.Errorf("kpop failed: code=%s subcode=%s", res.Code(), res.Subcode())
			}
			pairs, found := res.Value()
			if !found {
				fmt.Println("queue is empty")
				return nil
			}
			for _, kv := range pairs {
				fmt.Printf("%s=%s\n", kv.Key, kv.Value)
			}
			return nil
		},
	}
)

func init() {
	popCmd.Flags().Int("count", 1, util.WrapString("How many elements to pop"))
	kpopCmd.Flags().Int("count", 1, util.WrapString("How many elements to pop"))
	pushCmd.Flags().Bool("check-attrs", false, util.WrapString("Check attributes on push"))
	kpushCmd.Flags().Bool("check-attrs", false, util.WrapString("Check attributes on push"))
}
