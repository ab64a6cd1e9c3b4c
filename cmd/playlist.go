package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pombreda/soundforest/core/tags"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var playlistTracks string

// playlistCmd is the parent command for playlist management.
var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Manage per-source playlists",
	Long: `Playlists are ordered track lists owned by a source. The same name may
exist under several sources; compare shows where two sources disagree.`,
}

var playlistRegisterCmd = &cobra.Command{
	Use:   "register <name> <source>",
	Short: "Register a playlist under a source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		trackIDs, err := parseTrackIDs(playlistTracks)
		if err != nil {
			return err
		}
		svc := tags.NewService(a.store, a.logger)
		if err := svc.RegisterPlaylist(args[0], args[1], trackIDs); err != nil {
			return err
		}
		a.logger.Info("Registered playlist",
			zap.String("name", args[0]),
			zap.String("source", args[1]),
			zap.Int("tracks", len(trackIDs)))
		return nil
	},
}

var playlistUnregisterCmd = &cobra.Command{
	Use:   "unregister <name> <source>",
	Short: "Unregister a playlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		svc := tags.NewService(a.store, a.logger)
		if err := svc.UnregisterPlaylist(args[0], args[1]); err != nil {
			return err
		}
		a.logger.Info("Unregistered playlist",
			zap.String("name", args[0]),
			zap.String("source", args[1]))
		return nil
	},
}

var playlistListCmd = &cobra.Command{
	Use:   "list <source>",
	Short: "List a source's playlists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		svc := tags.NewService(a.store, a.logger)
		playlists, err := svc.Playlists(args[0])
		if err != nil {
			return err
		}
		for _, p := range playlists {
			fmt.Println(p.Name)
		}
		return nil
	},
}

var playlistShowCmd = &cobra.Command{
	Use:   "show <name> <source>",
	Short: "Show a playlist's track IDs in order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		svc := tags.NewService(a.store, a.logger)
		trackIDs, err := svc.PlaylistTracks(args[0], args[1])
		if err != nil {
			return err
		}
		for _, id := range trackIDs {
			fmt.Println(id)
		}
		return nil
	},
}

var playlistCompareCmd = &cobra.Command{
	Use:   "compare <name> <source-a> <source-b>",
	Short: "Compare a playlist between two sources",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		svc := tags.NewService(a.store, a.logger)
		diff, err := svc.ComparePlaylists(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		if len(diff.OnlyA) == 0 && len(diff.OnlyB) == 0 {
			fmt.Println("playlists match")
			return nil
		}
		for _, id := range diff.OnlyA {
			fmt.Printf("only in %s:\t%d\n", args[1], id)
		}
		for _, id := range diff.OnlyB {
			fmt.Printf("only in %s:\t%d\n", args[2], id)
		}
		return nil
	},
}

func parseTrackIDs(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid track id %q: %w", p, err)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func init() {
	playlistRegisterCmd.Flags().StringVar(&playlistTracks, "tracks", "", "Comma-separated track IDs, in playlist order")

	playlistCmd.AddCommand(playlistRegisterCmd)
	playlistCmd.AddCommand(playlistUnregisterCmd)
	playlistCmd.AddCommand(playlistListCmd)
	playlistCmd.AddCommand(playlistShowCmd)
	playlistCmd.AddCommand(playlistCompareCmd)
	RootCmd.AddCommand(playlistCmd)
}
