package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/city/pkg/manifest"
	"github.com/vango-dev/city/pkg/router"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var (
		out           string
		trailingSlash bool
		noValidate    bool
	)

	cmd := &cobra.Command{
		Use:   "routes [dir]",
		Short: "Scan a routes directory into a manifest",
		Long: `Scan the routes directory and build the route manifest.

Without --out the manifest is written to stdout as JSON. With --out it is
saved to a file or an S3 object and the routes are listed.

Routes are ordered by specificity, so the manifest can be matched
first-wins. The output is deterministic apart from the generation time.

Examples:
  city routes                                  # Scan app/routes, print JSON
  city routes ./routes --out city.manifest.json
  city routes --out s3://my-bucket/city/manifest.json --trailing-slash`,
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
			if !cmd.Flags().Changed("trailing-slash") {
				trailingSlash = cfg.TrailingSlash
			}

			m, err := router.NewScanner(dir).ScanWithOptions(router.ScanOptions{
				Validate:      !noValidate,
				Sort:          true,
				TrailingSlash: trailingSlash,
			})
			if err != nil {
				return err
			}

			if out == "" {
				data, err := manifest.Encode(m)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			store, err := manifest.Open(cmd.Context(), out, manifest.WithRegion(cfg.S3.Region))
			if err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), m); err != nil {
				return err
			}

			info("Scanned %s", filepath.Clean(dir))
			printRoutes(m)
			success("Saved %d routes to %s", len(m.Routes), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Save the manifest to a file path or s3://bucket/key")
	cmd.Flags().BoolVar(&trailingSlash, "trailing-slash", false, "Page URLs end with a slash (default from config)")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip conflict checks")

	return cmd
}

// printRoutes lists the routes of m in match order.
func printRoutes(m *manifest.Manifest) {
	width := 0
	for _, r := range m.Routes {
		width = max(width, len(r.Path))
	}
	for _, r := range m.Routes {
		kind := "page"
		if r.IsEndpoint() {
			kind = "endpoint"
		}
		methods := ""
		if len(r.Methods) > 0 {
			methods = " " + strings.Join(r.Methods, ",")
		}
		info("%-8s %-*s  %s%s", kind, width, r.Path, r.File, methods)
	}
	if len(m.Menus) > 0 {
		info("%d menu(s)", len(m.Menus))
	}
	fmt.Println()
}
