package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/city/internal/errors"
)

func explainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Print the description of an error code such as E201.

Without a code, every known code is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				codes := errors.GetAllCodes()
				sort.Strings(codes)
				for _, code := range codes {
					t, _ := errors.GetTemplate(code)
					fmt.Fprintf(out, "%s  %-9s %s\n", code, t.Category, t.Message)
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			t, ok := errors.GetTemplate(code)
			if !ok {
				return errors.Newf(errors.CategoryCLI, "unknown error code %q", args[0])
			}
			fmt.Fprintf(out, "%s: %s\n\n", code, t.Message)
			if t.Detail != "" {
				fmt.Fprintf(out, "%s\n\n", t.Detail)
			}
			fmt.Fprintf(out, "Category: %s\n", t.Category)
			if t.DocURL != "" {
				fmt.Fprintf(out, "Docs:     %s\n", t.DocURL)
			}
			return nil
		},
	}

	return cmd
}
