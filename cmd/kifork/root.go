package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/kifork/pkg/config"
	"github.com/walteh/kifork/pkg/fork"
	"github.com/walteh/kifork/pkg/log"
)

var (
	// Flags
	defaultsFile       string
	debug              bool
	tagline            string
	shortDescription   string
	noAboutChange      bool
	keepRoadmap        bool
	removeInstructions bool
	copyArchives       bool
	prune              bool
)

// newRootCmd creates the kifork root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kifork <source_project_dir> <new_basename> [<dest_parent_dir>]",
		Short: "Fork a KiCad project directory under a new name",
		Long: `kifork duplicates a KiCad project directory, filters out junk
(version-control metadata, lock files, backups, temp and autosave files),
renames every file and directory carrying the old project basename to the
new prefixed basename, creates an empty backups directory, and rewrites
the templated sections of the README.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return &config.UsageError{Reason: "kifork <source_project_dir> <new_basename> [<dest_parent_dir>]"}
			}
			if len(args) > 3 {
				return &config.UsageError{Reason: "too many arguments"}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			defaults, err := config.LoadDefaults(ctx, defaultsFile)
			if err != nil {
				return err
			}

			cfg, err := config.Resolve(ctx, config.RawArgs{
				Positional:         args,
				Tagline:            tagline,
				ShortDescription:   shortDescription,
				NoAboutChange:      noAboutChange,
				KeepRoadmap:        keepRoadmap,
				RemoveInstructions: removeInstructions,
				CopyArchives:       copyArchives,
				Prune:              prune,
			}, defaults)
			if err != nil {
				return err
			}

			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			console := log.New(os.Stdout, level)

			f, err := fork.New(fork.Options{Config: cfg, Console: console})
			if err != nil {
				return err
			}
			return f.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&tagline, "tagline", "T", "", "tagline text for the README")
	cmd.Flags().StringVarP(&shortDescription, "description", "S", "", "short description text for the README")
	cmd.Flags().BoolVarP(&noAboutChange, "no-about", "D", false, "do not rewrite the README fork-origin line")
	cmd.Flags().BoolVarP(&keepRoadmap, "keep-roadmap", "R", false, "preserve the README roadmap body")
	cmd.Flags().BoolVarP(&removeInstructions, "strip-instructions", "I", false, "strip instructional README sections")
	cmd.Flags().BoolVarP(&copyArchives, "with-archives", "A", false, "include archive directories in the copy")
	cmd.Flags().BoolVar(&prune, "prune", false, "copy everything first, then delete excluded entries")
	cmd.Flags().StringVarP(&defaultsFile, "config", "c", ".kifork.yaml", "defaults file path")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	return cmd
}
