package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pombreda/soundforest/core/tags"
	"github.com/pombreda/soundforest/feature/library"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mergeFields string

// tagsCmd is the parent command for tag operations.
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Inspect, import and merge per-source track tags",
	Long: `Each track carries independent tag sets per source (filesystem, external
importers). Sources never overwrite each other; merging is always an
explicit, field-selected operation.`,
}

var tagsShowCmd = &cobra.Command{
	Use:   "show <track-id>",
	Short: "Show a track's tags grouped by source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		trackID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid track id %q: %w", args[0], err)
		}

		svc := tags.NewService(a.store, a.logger)
		bySource, err := svc.Compare(uint(trackID))
		if err != nil {
			return err
		}

		sources := make([]string, 0, len(bySource))
		for source := range bySource {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		for _, source := range sources {
			fmt.Printf("[%s]\n", source)
			for _, t := range bySource[source] {
				fmt.Printf("  %s = %s\n", t.Name, t.Value)
			}
		}
		return nil
	},
}

var tagsImportCmd = &cobra.Command{
	Use:   "import <tree-path>",
	Short: "Import filesystem tags for a tree's present tracks",
	Long: `Read every present track's tags from the files themselves and store them
under the filesystem source. Other sources are left untouched. Unreadable
files are reported and skipped; the import never stops at the first one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		tree, err := a.store.TreeByRoot(args[0])
		if err != nil {
			return err
		}

		svc := library.NewService(a.store, tags.NewService(a.store, a.logger), a.logger)
		report, err := svc.ImportFileTags(context.Background(), tree.ID)
		if err != nil {
			return err
		}
		for _, f := range report.Failed {
			a.logger.Warn("Tag import failure",
				zap.String("path", f.RelPath),
				zap.String("reason", f.Reason))
		}
		return nil
	},
}

var tagsMergeCmd = &cobra.Command{
	Use:   "merge <track-id> <from-source> <into-source>",
	Short: "Merge selected tag fields from one source into another",
	Long: `Copy the selected fields of one source's tag set into another source's,
replacing only those fields. Merging is destructive for the target's
selected fields and therefore asks for confirmation.

Examples:
  # Take artist and album from the external importer into filesystem tags
  tags merge 42 musicbrainz filesystem --fields artist,album --yes`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		trackID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid track id %q: %w", args[0], err)
		}
		if mergeFields == "" {
			return fmt.Errorf("pass the fields to merge with --fields")
		}

		if !confirmDestructiveAction(fmt.Sprintf("overwriting fields %q in source %q", mergeFields, args[2])) {
			a.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		svc := tags.NewService(a.store, a.logger)
		fields := strings.Split(mergeFields, ",")
		if err := svc.Merge(uint(trackID), args[1], args[2], fields); err != nil {
			return err
		}
		a.logger.Info("Merged tags",
			zap.Uint64("track", trackID),
			zap.String("from", args[1]),
			zap.String("into", args[2]),
			zap.Strings("fields", fields))
		return nil
	},
}

func init() {
	tagsMergeCmd.Flags().StringVar(&mergeFields, "fields", "", "Comma-separated tag names to merge")
	tagsMergeCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	tagsCmd.AddCommand(tagsShowCmd)
	tagsCmd.AddCommand(tagsImportCmd)
	tagsCmd.AddCommand(tagsMergeCmd)
	RootCmd.AddCommand(tagsCmd)
}
