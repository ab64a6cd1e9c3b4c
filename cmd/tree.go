package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var treeTypeFlag string

// treeCmd is the parent command for tree management.
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Manage registered audio file trees",
}

var treeRegisterCmd = &cobra.Command{
	Use:   "register <root>",
	Short: "Register a directory as an audio file tree",
	Long: `Register a directory as an audio file tree.

The tree type classifies the tree (music, loops, samples by default).
Nested registrations are rejected: a new root may not lie inside an
already registered tree, nor contain one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		tree, err := a.store.RegisterTree(args[0], treeTypeFlag)
		if err != nil {
			return err
		}
		a.logger.Info("Registered tree",
			zap.Uint("id", tree.ID),
			zap.String("root", tree.Root),
			zap.String("type", tree.Type))
		return nil
	},
}

var treeUnregisterCmd = &cobra.Command{
	Use:   "unregister <root>",
	Short: "Unregister a tree and delete its tracks, tags and change log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		if !confirmDestructiveAction("unregistering the tree and deleting its index") {
			a.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		if err := a.store.UnregisterTree(args[0]); err != nil {
			return err
		}
		a.logger.Info("Unregistered tree", zap.String("root", args[0]))
		return nil
	},
}

var treeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered trees",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		trees, err := a.store.Trees()
		if err != nil {
			return err
		}
		for _, t := range trees {
			synced := "never"
			if t.LastSyncedAt != nil {
				synced = t.LastSyncedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%d\t%s\t%s\tlast synced: %s\n", t.ID, t.Type, t.Root, synced)
		}
		return nil
	},
}

var treeTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List tree types",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		types, err := a.store.TreeTypes()
		if err != nil {
			return err
		}
		for _, tt := range types {
			fmt.Printf("%s\t%s\n", tt.Name, tt.Description)
		}
		return nil
	},
}

var treeAddTypeCmd = &cobra.Command{
	Use:   "add-type <name> [description]",
	Short: "Register a new tree type",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		description := ""
		if len(args) == 2 {
			description = args[1]
		}
		if err := a.store.RegisterTreeType(args[0], description); err != nil {
			return err
		}
		a.logger.Info("Registered tree type", zap.String("name", args[0]))
		return nil
	},
}

func init() {
	treeRegisterCmd.Flags().StringVar(&treeTypeFlag, "type", "music", "Tree type (see 'tree types')")
	treeUnregisterCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	treeCmd.AddCommand(treeRegisterCmd)
	treeCmd.AddCommand(treeUnregisterCmd)
	treeCmd.AddCommand(treeListCmd)
	treeCmd.AddCommand(treeTypesCmd)
	treeCmd.AddCommand(treeAddTypeCmd)
	RootCmd.AddCommand(treeCmd)
}
