package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pombreda/soundforest/core/codec"
	"github.com/pombreda/soundforest/core/prefix"
	syncer "github.com/pombreda/soundforest/core/sync"
	"github.com/pombreda/soundforest/core/tags"
	"github.com/pombreda/soundforest/feature/library"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncAll        bool
	syncImportTags bool
)

// syncCmd synchronizes one or all registered trees against the filesystem.
var syncCmd = &cobra.Command{
	Use:   "sync [path]",
	Short: "Synchronize trees against the filesystem",
	Long: `Synchronize the database index of one tree (or all trees with --all)
against the filesystem.

The run scans the tree, diffs against the stored state, and persists added,
modified and removed tracks in a single transaction together with the change
log entries. A second run of the same tree waits for (or fails against) the
first; a run that fails changes nothing.

Examples:
  # Synchronize one tree by path
  sync /mnt/music

  # Synchronize every registered tree
  sync --all

  # Synchronize and refresh the filesystem tag source afterwards
  sync /mnt/music --import-tags`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "Synchronize every registered tree")
	syncCmd.Flags().BoolVar(&syncImportTags, "import-tags", false, "Import filesystem tags after synchronizing")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncAll == (len(args) == 1) {
		return errors.New("pass exactly one of a tree path or --all")
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}

	ctx := context.Background()
	registry := codec.NewRegistry(a.store, a.logger)
	s := syncer.NewSynchronizer(a.store, registry, prefix.NewResolver(a.store), a.logger)

	if syncAll {
		results := s.SyncAll(ctx)
		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
				a.logger.Error("Tree synchronization failed",
					zap.String("root", res.Tree.Root),
					zap.Error(res.Err))
				continue
			}
			printSyncReport(a.logger, res.Report)
			if syncImportTags {
				if err := importTreeTags(ctx, a, res.Tree.ID); err != nil {
					failed++
					a.logger.Error("Tag import failed",
						zap.String("root", res.Tree.Root),
						zap.Error(err))
				}
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d trees failed", failed, len(results))
		}
		return nil
	}

	tree, err := s.ResolveTree(args[0])
	if err != nil {
		return err
	}
	report, err := s.SyncTree(ctx, tree)
	if err != nil {
		return err
	}
	printSyncReport(a.logger, report)

	if syncImportTags {
		return importTreeTags(ctx, a, tree.ID)
	}
	return nil
}

// printSyncReport prints a formatted run report using logger.
func printSyncReport(l *zap.Logger, report *syncer.Report) {
	l.Info("Synchronization report",
		zap.String("run_id", report.RunID),
		zap.String("tree", report.TreeRoot),
		zap.String("state", string(report.State)),
		zap.Int("added", report.Added),
		zap.Int("modified", report.Modified),
		zap.Int("removed", report.Removed),
		zap.Int("unchanged", report.Unchanged),
		zap.Duration("duration", report.Duration),
	)

	// Show sample of skipped paths (max 5 for logger)
	maxShow := 5
	if len(report.Skipped) < maxShow {
		maxShow = len(report.Skipped)
	}
	for i := 0; i < maxShow; i++ {
		l.Warn("Skipped path",
			zap.String("path", report.Skipped[i].Path),
			zap.String("reason", report.Skipped[i].Reason))
	}
	if len(report.Skipped) > maxShow {
		l.Warn("Additional skipped paths not shown", zap.Int("count", len(report.Skipped)-maxShow))
	}
}

func importTreeTags(ctx context.Context, a *app, treeID uint) error {
	svc := library.NewService(a.store, tags.NewService(a.store, a.logger), a.logger)
	report, err := svc.ImportFileTags(ctx, treeID)
	if err != nil {
		return err
	}
	for _, f := range report.Failed {
		a.logger.Warn("Tag import failure",
			zap.String("path", f.RelPath),
			zap.String("reason", f.Reason))
	}
	return nil
}
