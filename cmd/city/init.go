package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/city/internal/config"
	"github.com/vango-dev/city/internal/errors"
)

func initCmd(flags *globalFlags) *cobra.Command {
	var useTOML bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Write city.json (or city.toml with --toml) with default settings.

The directory defaults to --project, or the working directory. An
existing city.json or city.toml is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := flags.projectDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}

			if config.Exists(dir) {
				return errors.New("E160").
					WithDetail("A configuration file already exists in " + dir).
					WithSuggestion("Edit it directly, or remove it and run 'city init' again")
			}

			name := config.JSONFileName
			if useTOML {
				name = config.TOMLFileName
			}
			path := filepath.Join(dir, name)
			if err := config.New().SaveTo(path); err != nil {
				return err
			}

			success("Created %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useTOML, "toml", false, "Write city.toml instead of city.json")

	return cmd
}
