package cmd

import (
	"fmt"

	"github.com/pombreda/soundforest/core/database"

	"github.com/spf13/cobra"
)

// dbCmd groups database maintenance helpers.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance helpers",
}

var dbColumnsCmd = &cobra.Command{
	Use:   "columns <table>",
	Short: "Show a table's columns as the driver reports them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		columns, err := database.TableColumns(a.db, args[0])
		if err != nil {
			return err
		}
		for _, col := range columns {
			fmt.Printf("%-24s %-16s %s\n", col.Field, col.Type, col.Null)
		}
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbColumnsCmd)
	RootCmd.AddCommand(dbCmd)
}
