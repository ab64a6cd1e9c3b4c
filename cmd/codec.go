package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pombreda/soundforest/core/codec"
	"github.com/pombreda/soundforest/core/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	codecDescription string
	codecPriority    int
)

// codecCmd is the parent command for codec management.
var codecCmd = &cobra.Command{
	Use:   "codec",
	Short: "Manage codecs and their command templates",
	Long: `Codecs map file extensions to external decode, encode and test commands.

Command templates hold the FILE and OUTFILE placeholders verbatim; they are
substituted with real paths at execution time. Decoders and encoders take
exactly one of each, testers take only FILE.`,
}

var codecListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered codecs and their commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		registry := codec.NewRegistry(a.store, a.logger)
		codecs, err := registry.Codecs()
		if err != nil {
			return err
		}
		for _, c := range codecs {
			fmt.Printf("%s (%s): %s\n", c.Name, c.Extensions, c.Description)
			for _, cc := range c.Commands {
				fmt.Printf("  %-8s p%d  %s\n", cc.Role, cc.Priority, cc.Template)
			}
		}
		return nil
	},
}

var codecRegisterCmd = &cobra.Command{
	Use:   "register <name> <ext[,ext...]>",
	Short: "Register a codec with its extension set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		registry := codec.NewRegistry(a.store, a.logger)
		c, err := registry.Register(args[0], codecDescription, strings.Split(args[1], ","))
		if err != nil {
			return err
		}
		a.logger.Info("Registered codec",
			zap.String("name", c.Name),
			zap.String("extensions", c.Extensions))
		return nil
	},
}

var codecUnregisterCmd = &cobra.Command{
	Use:   "unregister <name>",
	Short: "Unregister a codec and its commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		registry := codec.NewRegistry(a.store, a.logger)
		if err := registry.Unregister(args[0]); err != nil {
			return err
		}
		a.logger.Info("Unregistered codec", zap.String("name", args[0]))
		return nil
	},
}

func addCommandCmd(use, short string, role models.CommandRole) *cobra.Command {
	c := &cobra.Command{
		Use:   use + " <codec> <template>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}

			registry := codec.NewRegistry(a.store, a.logger)
			template := codec.Template(args[1])
			switch role {
			case models.RoleDecoder:
				err = registry.AddDecoder(args[0], template, codecPriority)
			case models.RoleEncoder:
				err = registry.AddEncoder(args[0], template, codecPriority)
			case models.RoleTester:
				err = registry.AddTester(args[0], template, codecPriority)
			}
			if err != nil {
				return err
			}
			a.logger.Info("Added codec command",
				zap.String("codec", args[0]),
				zap.String("role", string(role)),
				zap.String("template", args[1]))
			return nil
		},
	}
	c.Flags().IntVar(&codecPriority, "priority", 0, "Command priority (highest wins)")
	return c
}

var codecSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the built-in codec definitions",
	Long: `Install the built-in codec definitions (mp3, aac, vorbis, flac, wavpack,
caf, aif, wav). Codecs already registered are left untouched, so local
template edits survive a re-seed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		registry := codec.NewRegistry(a.store, a.logger)
		installed, err := registry.Seed()
		if err != nil {
			return err
		}
		a.logger.Info("Seeded codecs", zap.Int("installed", installed))
		return nil
	},
}

var codecTestCmd = &cobra.Command{
	Use:   "test <path>...",
	Short: "Verify audio files with their codec's tester command",
	Long: `Run each file through its codec's tester command and report the verdicts.

A registered tree root expands to all of its present tracks. A failing file
never aborts the batch; files with no matching codec or no tester command
count as failures. The command exits non-zero when any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		paths, err := expandTestPaths(a, args)
		if err != nil {
			return err
		}

		registry := codec.NewRegistry(a.store, a.logger)
		runner := codec.NewRunner(a.cfg.Codec, a.logger)

		failed, err := registry.Test(context.Background(), runner, paths,
			func(path string, passed bool, err error, stdout, stderr string) {
				switch {
				case err != nil:
					a.logger.Error("Verification error", zap.String("path", path), zap.Error(err))
				case passed:
					a.logger.Info("OK", zap.String("path", path))
				default:
					a.logger.Warn("FAILED", zap.String("path", path), zap.String("stderr", stderr))
				}
			})
		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed verification", failed, len(paths))
		}
		a.logger.Info("All files passed", zap.Int("tested", len(paths)))
		return nil
	},
}

// expandTestPaths replaces registered tree roots with their present tracks;
// any other argument is taken as a file path.
func expandTestPaths(a *app, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		tree, err := a.store.TreeByRoot(arg)
		if err != nil {
			paths = append(paths, arg)
			continue
		}
		tracks, err := a.store.TracksPresent(tree.ID)
		if err != nil {
			return nil, err
		}
		for _, track := range tracks {
			paths = append(paths, filepath.Join(tree.Root, track.RelPath))
		}
	}
	return paths, nil
}

func init() {
	codecRegisterCmd.Flags().StringVar(&codecDescription, "description", "", "Codec description")

	codecCmd.AddCommand(codecListCmd)
	codecCmd.AddCommand(codecRegisterCmd)
	codecCmd.AddCommand(codecUnregisterCmd)
	codecCmd.AddCommand(addCommandCmd("add-decoder", "Add a decoder command to a codec", models.RoleDecoder))
	codecCmd.AddCommand(addCommandCmd("add-encoder", "Add an encoder command to a codec", models.RoleEncoder))
	codecCmd.AddCommand(addCommandCmd("add-tester", "Add a tester command to a codec", models.RoleTester))
	codecCmd.AddCommand(codecSeedCmd)
	codecCmd.AddCommand(codecTestCmd)
	RootCmd.AddCommand(codecCmd)
}
