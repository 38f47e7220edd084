package main

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/vango-dev/city/pkg/router"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Check a routes directory for conflicts",
		Long: `Scan the routes directory and report every conflict found:

  E201  two files compile to the same URL pattern
  E206  Head, Breadcrumbs or Headings declared without Page
  E207  layout with no route below it

A file that cannot be read as a route stops the scan at the first
failure: invalid segments (E203, E204, E205, E213) and invalid
menu.json files (E214).

Use --format compact or --format json for one problem per line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			dir := cfg.RoutesPath()
			if len(args) == 1 {
				dir = args[0]
			} else if err := cfg.RequireRoutesDir(); err != nil {
				return err
			}

			routes, layouts, menus, err := router.NewScanner(dir).ScanFiles()
			if err != nil {
				return err
			}

			err = router.NewValidator(routes, layouts).Validate()
			var multi *router.MultiValidationError
			if stderrors.As(err, &multi) {
				problems := make([]error, len(multi.Errors))
				for i, e := range multi.Errors {
					problems[i] = e
				}
				report(cmd.ErrOrStderr(), flags.format, problems...)
				if flags.format == formatText || flags.format == "" {
					errorMsg("%d problem(s) in %s", len(multi.Errors), dir)
				}
				return errSilent
			}
			if err != nil {
				return err
			}

			success("%d routes, %d layouts, %d menus: no problems found", len(routes), len(layouts), len(menus))
			return nil
		},
	}

	return cmd
}
