package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/city/internal/config"
	"github.com/vango-dev/city/internal/errors"
	"github.com/vango-dev/city/pkg/manifest"
	"github.com/vango-dev/city/pkg/routepath"
	"github.com/vango-dev/city/pkg/router"
)

// matchResult is the --format json output of match.
type matchResult struct {
	Matched   bool              `json:"matched"`
	Requested string            `json:"requested"`
	Path      string            `json:"path"`
	Type      string            `json:"type,omitempty"`
	Route     string            `json:"route,omitempty"`
	Pattern   string            `json:"pattern,omitempty"`
	File      string            `json:"file,omitempty"`
	Modules   []string          `json:"modules,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	Redirect  string            `json:"redirect,omitempty"`
	Menu      string            `json:"menu,omitempty"`
}

func matchCmd(flags *globalFlags) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Match a URL path against a saved manifest",
		Long: `Load the route manifest and print the route a path resolves to.

The path is canonicalized first, exactly as the HTTP handler does. Exit
status is 1 when no route matches. With --format json the result is
printed as a JSON object.

Examples:
  city match /blog/hello-world
  city match /docs/guide/install --manifest s3://my-bucket/city/manifest.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("E161").WithDetail("Usage: city match <path>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			m, err := loadManifest(cmd.Context(), cfg, location)
			if err != nil {
				return err
			}

			plan, err := router.Bind(m, router.Placeholders(m))
			if err != nil {
				return err
			}
			r := router.New(plan, router.WithCacheSize(0))

			canon, err := routepath.CanonicalizePath(args[0])
			if err != nil {
				return errors.New("E160").WithDetailf("Invalid path %q: %s", args[0], err).Wrap(err)
			}

			raw, _, _ := strings.Cut(args[0], "?")
			res := matchResult{Requested: raw, Path: canon.Path}
			match, ok := r.Match(canon.Path)
			if ok {
				entry, _ := m.Find(match.Route.Path())
				res.Matched = true
				res.Type = match.Route.Type().String()
				res.Route = match.Route.Path()
				res.Pattern = match.Route.Pattern().String()
				res.File = entry.File
				res.Modules = entry.Modules
				res.Params = match.Params
				if match.Route.Type() == router.RouteTypePage {
					if want, _ := routepath.ApplyTrailingSlash(canon.Path, plan.TrailingSlash); want != raw {
						res.Redirect = want
					}
				}
				if menu := plan.Menu(canon.Path); menu != nil {
					res.Menu = menuTitle(menu.Text)
				}
			}

			if flags.format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
				if !ok {
					return errSilent
				}
				return nil
			}

			if !ok {
				errorMsg("No route matches %s", canon.Path)
				return errSilent
			}
			printMatch(res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&location, "manifest", "m", "", "Manifest file path or s3://bucket/key (default from config)")

	return cmd
}

// loadManifest reads the manifest at location, or at the configured
// location when it is empty.
func loadManifest(ctx context.Context, cfg *config.Config, location string) (*manifest.Manifest, error) {
	if location == "" {
		location = cfg.ManifestLocation()
	}
	store, err := manifest.Open(ctx, location, manifest.WithRegion(cfg.S3.Region))
	if err != nil {
		return nil, err
	}
	m, err := store.Load(ctx)
	if stderrors.Is(err, manifest.ErrNotFound) {
		return nil, errors.New("E162").WithDetail(location).Wrap(err)
	}
	return m, err
}

func printMatch(res matchResult) {
	success("%s %s", res.Type, res.Route)
	info("Pattern:  %s", res.Pattern)
	if res.File != "" {
		info("File:     %s", res.File)
	}
	if len(res.Modules) > 0 {
		info("Modules:  %s", strings.Join(res.Modules, " → "))
	}
	if len(res.Params) > 0 {
		names := make([]string, 0, len(res.Params))
		for name := range res.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		info("Params:")
		for _, name := range names {
			info("  %s = %q", name, res.Params[name])
		}
	}
	if res.Redirect != "" {
		warn("GET %s redirects to %s", res.Requested, res.Redirect)
	}
	if res.Menu != "" {
		info("Menu:     %s", res.Menu)
	}
}

func menuTitle(text string) string {
	if text == "" {
		return "(untitled)"
	}
	return fmt.Sprintf("%q", text)
}
