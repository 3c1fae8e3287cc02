package cas

import (
	"fmt"
	"strconv"

	"github.com/kvclabs/dkc/cmd/util"
	"github.com/kvclabs/dkc/lib/codec"
	"github.com/kvclabs/dkc/lib/command"
	"github.com/kvclabs/dkc/lib/session"
	"github.com/spf13/cobra"
)

var (
	sess *session.Session

	// CasCommands represents the CAS command group
	CasCommands = &cobra.Command{
		Use:               "cas",
		Short:             "Perform compare-and-swap operations on counter cells",
		PersistentPreRunE: setupClient,
		PersistentPostRun: teardownClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the CAS command
	util.SetupRPCClientFlags(CasCommands)

	// The cell width in bytes, shared by all subcommands
	CasCommands.PersistentFlags().Int("width", 8, util.WrapString("Width of the CAS cell in bytes (1, 2, 4 or 8)"))

	// Add subcommands
	CasCommands.AddCommand(initCmd)
	CasCommands.AddCommand(getCmd)
	CasCommands.AddCommand(setCmd)
	CasCommands.AddCommand(incCmd)
	CasCommands.AddCommand(decCmd)
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

// cellType resolves the configured cell width into a codec type
func cellType(cmd *cobra.Command) (codec.DataType, error) {
	width, _ := cmd.Flags().GetInt("width")
	return codec.TypeForWidth(width)
}

// cellOpts builds the command options for CAS subcommands
func cellOpts() []command.Option {
	opts := []command.Option{}
	if pass := util.GetPass(); pass != "" {
		opts = append(opts, command.WithPass(pass))
	}
	if expire := util.GetExpire(); expire != 0 {
		opts = append(opts, command.WithExpire(expire))
	}
	return opts
}

func parseValue(arg string) (uint64, error) {
	v, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value must be an unsigned number: %w", err)
	}
	return v, nil
}

var (
	initCmd = &cobra.Command{
		Use:   "init [key] [value]",
		Short: "Initializes a CAS cell with the given value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := cellType(cmd)
			if err != nil {
				return err
			}
			value, err := parseValue(args[1])
			if err != nil {
				return err
			}
			c, err := command.NewCasInit(args[0], t, value, cellOpts()...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return fmt.Errorf("init failed: code=%s subcode=%s", res.Code(), res.Subcode())
			}
			fmt.Println("init successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value of a CAS cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := cellType(cmd)
			if err != nil {
				return err
			}
			c, err := command.NewCasGet(args[0], t, cellOpts()...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return fmt.Errorf("get failed: code=%s subcode=%s", res.Code(), res.Subcode())
			}
			value, found := res.Value()
			fmt.Printf("key=%s, found=%v, value=%d\n", args[0], found, value)
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [key] [oldval] [newval]",
		Short: "Swaps a CAS cell to newval if it currently holds oldval",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := cellType(cmd)
			if err != nil {
				return err
			}
			oldval, err := parseValue(args[1])
			if err != nil {
				return err
			}
			newval, err := parseValue(args[2])
			if err != nil {
				return err
			}
			c, err := command.NewCasSet(args[0], t, oldval, newval, cellOpts()...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return fmt.Errorf("set failed: code=%s subcode=%s", res.Code(), res.Subcode())
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	incCmd = &cobra.Command{
		Use:   "inc [key]",
		Short: "Increments a CAS cell by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewCasIncrement(args[0], cellOpts()...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return fmt.Errorf("inc failed: code=%s subcode=%s", res.Code(), res.Subcode())
			}
			fmt.Println("inc successfully")
			return nil
		},
	}
	decCmd = &cobra.Command{
		Use:   "dec [key]",
		Short: "Decrements a CAS cell by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewCasDecrement(args[0], cellOpts()...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return fmt.Errorf("dec failed: code=%s subcode=%s", res.Code(), res.Subcode())
			}
			fmt.Println("dec successfully")
			return nil
		},
	}
)
