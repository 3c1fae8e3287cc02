package kv

import (
	"fmt"
	"strings"

	"github.com/kvclabs/dkc/cmd/util"
	"github.com/kvclabs/dkc/lib/command"
	"github.com/spf13/cobra"
)

// writeOpts builds the command options shared by all writing subcommands
func writeOpts() []command.Option {
	opts := []command.Option{}
	if pass := util.GetPass(); pass != "" {
		opts = append(opts, command.WithPass(pass))
	}
	if expire := util.GetExpire(); expire != 0 {
		opts = append(opts, command.WithExpire(expire))
	}
	return opts
}

// failed converts a failed result into a command line error
func failed[T any](res command.Result[T]) error {
	return fmt.Errorf("%s failed: code=%s subcode=%s", res.Kind(), res.Code(), res.Subcode())
}

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			c, err := command.NewGet(key, writeOpts()...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			value, found := res.Value()
			fmt.Printf("key=%s, found=%v, value=%s\n", key, found, value)
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clearSubkeys, _ := cmd.Flags().GetBool("clear-subkeys")
			c, err := command.NewSet(args[0], args[1], clearSubkeys, writeOpts()...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	setAllCmd = &cobra.Command{
		Use:   "setall [key] [value] [subkey...]",
		Short: "Sets the value and the full subkey list for a key in one call",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewSetAll(args[0], args[1], args[2:], writeOpts()...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			fmt.Println("setall successfully")
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewRemove(args[0])
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	renameCmd = &cobra.Command{
		Use:   "rename [key] [newkey]",
		Short: "Renames a key, optionally fixing up the parent's subkey list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := writeOpts()
			if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
				checkAttrs, _ := cmd.Flags().GetBool("check-parent-attrs")
				opts = append(opts, command.WithParent(parent, checkAttrs))
			}
			c, err := command.NewRename(args[0], args[1], opts...)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			fmt.Println("rename successfully")
			return nil
		},
	}
	subkeysCmd = &cobra.Command{
		Use:   "subkeys [key]",
		Short: "Lists the direct subkeys of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewGetSubkeys(args[0])
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			subkeys, found := res.Value()
			fmt.Printf("key=%s, found=%v, subkeys=[%s]\n", args[0], found, strings.Join(subkeys, ", "))
			return nil
		},
	}
	addSubkeyCmd = &cobra.Command{
		Use:   "addsub [key] [subkey]",
		Short: "Adds a subkey to a key's subkey list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewAddSubkey(args[0], args[1])
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			fmt.Println("addsub successfully")
			return nil
		},
	}
	rmSubkeyCmd = &cobra.Command{
		Use:   "rmsub [key] [subkey]",
		Short: "Removes a subkey from a key, optionally with its descendants",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recursive, _ := cmd.Flags().GetBool("recursive")
			c, err := command.NewRemoveSubkey(args[0], args[1], recursive)
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			fmt.Println("rmsub successfully")
			return nil
		},
	}
	clearSubkeysCmd = &cobra.Command{
		Use:   "clearsub [key]",
		Short: "Removes all subkeys of a key recursively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewClearSubkeys(args[0])
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			fmt.Println("clearsub successfully")
			return nil
		},
	}
	attrsCmd = &cobra.Command{
		Use:   "attrs [key]",
		Short: "Reads the attributes of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.NewGetAttrs(args[0])
			if err != nil {
				return err
			}
			res, err := c.Execute(sess)
			if err != nil {
				return err
			}
			if !res.IsSuccess() {
				return failed(res)
			}
			attrs, found := res.Value()
			fmt.Printf("key=%s, found=%v\n", args[0], found)
			for name, value := range attrs {
				fmt.Printf("  %s=%s\n", name, value)
			}
			return nil
		},
	}
)

func init() {
	setCmd.Flags().Bool("clear-subkeys", false, util.WrapString("Drop the subkey list when setting the value"))
	renameCmd.Flags().String("parent", "", util.WrapString("Parent key whose subkey list references the renamed key"))
	renameCmd.Flags().Bool("check-parent-attrs", true, util.WrapString("Check the parent's attributes before updating its subkey list"))
	rmSubkeyCmd.Flags().Bool("recursive", false, util.WrapString("Also remove the subkey's descendants"))
}
