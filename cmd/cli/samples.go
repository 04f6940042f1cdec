package main

import (
	"fmt"
	"text/tabwriter"

	"curvefit/domain/core"

	"github.com/spf13/cobra"
)

func newSamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Manage stored samples",
	}
	cmd.AddCommand(newSamplesSearchCmd(), newSamplesFitCmd())
	return cmd
}

func newSamplesSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [fragment]",
		Short: "Find stored samples by name, closest name length first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragment := ""
			if len(args) == 1 {
				fragment = args[0]
			}

			c, err := openContainer(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			records, err := c.FitService.SearchSamples(cmd.Context(), fragment, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tUPDATED")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Name, r.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results (0 for all)")
	return cmd
}

func newSamplesFitCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "fit [id...]",
		Short: "Fit stored samples concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]core.SampleID, len(args))
			for i, arg := range args {
				id, err := core.ParseSampleID(arg)
				if err != nil {
					return err
				}
				ids[i] = id
			}

			c, err := openContainer(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			results, err := c.FitService.FitSamples(cmd.Context(), ids)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				fmt.Fprintf(out, "== %s %s\n", r.ID, r.Name)
				if r.Err != nil {
					failed++
					fmt.Fprintf(out, "error: %v\n\n", r.Err)
					continue
				}
				if err := writeReport(out, format, r.Report); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d samples failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, formatUsage)
	return cmd
}
