package cmd

import (
	"fmt"

	"github.com/pombreda/soundforest/core/prefix"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// prefixCmd is the parent command for prefix management.
var prefixCmd = &cobra.Command{
	Use:   "prefix",
	Short: "Manage filesystem prefixes (mount points)",
	Long: `Prefixes are the mount points under which trees appear. Registering the
prefixes of every machine lets one database address the same tree through
different mount points: matching picks the longest registered prefix, and
the most recently registered wins a tie.`,
}

var prefixRegisterCmd = &cobra.Command{
	Use:   "register <path>",
	Short: "Register a filesystem prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		if err := prefix.NewResolver(a.store).Register(args[0]); err != nil {
			return err
		}
		a.logger.Info("Registered prefix", zap.String("path", args[0]))
		return nil
	},
}

var prefixUnregisterCmd = &cobra.Command{
	Use:   "unregister <path>",
	Short: "Unregister a filesystem prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		if err := prefix.NewResolver(a.store).Unregister(args[0]); err != nil {
			return err
		}
		a.logger.Info("Unregistered prefix", zap.String("path", args[0]))
		return nil
	},
}

var prefixListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered prefixes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		prefixes, err := a.store.Prefixes()
		if err != nil {
			return err
		}
		for _, p := range prefixes {
			fmt.Println(p.Path)
		}
		return nil
	},
}

var prefixMatchCmd = &cobra.Command{
	Use:   "match <path>",
	Short: "Show which registered prefix a path falls under",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		matched, rest, err := prefix.NewResolver(a.store).Split(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("prefix: %s\nrest:   %s\n", matched, rest)
		return nil
	},
}

func init() {
	prefixCmd.AddCommand(prefixRegisterCmd)
	prefixCmd.AddCommand(prefixUnregisterCmd)
	prefixCmd.AddCommand(prefixListCmd)
	prefixCmd.AddCommand(prefixMatchCmd)
	RootCmd.AddCommand(prefixCmd)
}
