package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/city/internal/config"
	"github.com/vango-dev/city/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errSilent marks failures that have already been reported to the user.
var errSilent = stderrors.New("silent failure")

// Output formats for diagnostics.
const (
	formatText    = "text"
	formatCompact = "compact"
	formatJSON    = "json"
)

// globalFlags are shared by every command.
type globalFlags struct {
	projectDir string
	noColor    bool
	format     string
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "city",
		Short: "File-system routing for Go web applications",
		Long: `City maps a directory of Go route files to URL routes.

Commands scan a routes directory into a route manifest, check it for
conflicts and match paths against a saved manifest:

  • index.go, layout.go and menu.json define directory routes
  • [param] and [...rest] segments capture path parameters
  • Manifests are stored as files or in S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.noColor {
				errors.DisableColors()
			}
			switch flags.format {
			case formatText, formatCompact, formatJSON:
				return nil
			}
			return errors.New("E160").
				WithDetailf("Unknown --format %q", flags.format).
				WithSuggestion("Use text, compact or json")
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.projectDir, "project", "C", "", "Project directory (default: nearest directory with city.json or city.toml)")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flags.format, "format", formatText, "Diagnostic format: text, compact or json")

	rootCmd.AddCommand(
		routesCmd(&flags),
		matchCmd(&flags),
		checkCmd(&flags),
		serveCmd(&flags),
		initCmd(&flags),
		explainCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if !stderrors.Is(err, errSilent) {
			report(os.Stderr, flags.format, err)
		}
		os.Exit(1)
	}
}

// projectDir returns the --project directory, or the nearest directory
// holding a config file, or the working directory.
func projectDir(flags *globalFlags) string {
	if flags.projectDir != "" {
		return flags.projectDir
	}
	if root, err := config.FindProjectRoot("."); err == nil {
		return root
	}
	return "."
}

// loadConfig reads the project configuration, falling back to defaults
// when the project has no config file.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	return config.LoadEnv(projectDir(flags))
}

// report prints errs to w in format. Errors without a code are reported
// as E160.
func report(w io.Writer, format string, errs ...error) {
	for _, err := range errs {
		ce := errors.FromError(err, "E160")
		switch format {
		case formatJSON:
			fmt.Fprintln(w, ce.FormatJSON())
		case formatCompact:
			fmt.Fprintln(w, ce.FormatCompact())
		default:
			errors.FprintError(w, ce)
		}
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
