package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"curvefit/adapters/excel"
	"curvefit/app"
	"curvefit/domain/fit"
	"curvefit/internal"
	"curvefit/internal/config"
	"curvefit/internal/container"
	"curvefit/internal/solvers"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "curvefit-cli",
		Short:         "Fit regression models to (x, y) samples and rank them by RMSE",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is normal; the environment is used as is
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newFitCmd(),
		newImportCmd(),
		newParseCmd(),
		newSolversCmd(),
		newSamplesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openContainer loads configuration and, when withDatabase is set, connects the sample store
func openContainer(ctx context.Context, withDatabase bool) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, _ := internal.ParseLogLevel(cfg.Log.Level)
	logger := internal.NewLogger(level)

	if withDatabase {
		return container.Open(ctx, cfg, logger)
	}
	return container.New(cfg, logger)
}

func newFitCmd() *cobra.Command {
	var xText, yText, alpha, format string
	var includeSolvers bool

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit every model family and solver to x and y",
		Long: `Fit linear, exponential, power, logarithmic and quadratic models plus the
linear solver suite, then rank every successful fit by RMSE.

Values may be separated by commas, semicolons or whitespace.

Example: curvefit-cli fit --x "1 2 3 4 5" --y "2.1, 3.9, 6.2, 7.8, 10.1" --alpha 0.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			req := app.FitRequest{X: xText, Y: yText, Alpha: alpha}
			if cmd.Flags().Changed("solvers") {
				req.IncludeSolvers = &includeSolvers
			}
			result, err := c.FitService.FitText(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, result)
		},
	}

	cmd.Flags().StringVar(&xText, "x", "", "Independent values")
	cmd.Flags().StringVar(&yText, "y", "", "Dependent values")
	cmd.Flags().StringVar(&alpha, "alpha", "", "Regularization strength for ridge, lasso and elastic net (default 1.0)")
	cmd.Flags().BoolVar(&includeSolvers, "solvers", true, "Also fit the linear model with every solver strategy")
	cmd.Flags().StringVar(&format, "format", formatTable, formatUsage)
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func newImportCmd() *cobra.Command {
	var xCol, yCol, saveAs, format string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Fit a sample read from two columns of an .xlsx or .csv file",
		Long: `Read x and y from named columns of a spreadsheet (first sheet) or CSV file,
fit every model and print the ranking. With --save the sample is stored under
the given name (postgres when DATABASE_URL is set).

Example: curvefit-cli import measurements.xlsx --x-col dose --y-col response --save trial-3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := excel.NewSampleReader(args[0]).Read(xCol, yCol)
			if err != nil {
				return err
			}

			c, err := openContainer(cmd.Context(), saveAs != "")
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			if saveAs != "" {
				record, err := c.FitService.SaveSample(cmd.Context(), saveAs, x, y)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved sample %s (%s)\n", record.Name, record.ID)
			}

			result, err := c.FitService.Fit(cmd.Context(), x, y, c.FitService.Defaults())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, result)
		},
	}

	cmd.Flags().StringVar(&xCol, "x-col", "x", "Header of the x column")
	cmd.Flags().StringVar(&yCol, "y-col", "y", "Header of the y column")
	cmd.Flags().StringVar(&saveAs, "save", "", "Store the sample under this name")
	cmd.Flags().StringVar(&format, "format", formatTable, formatUsage)

	return cmd
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [text...]",
		Short: "Parse delimited numbers and print one value per line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context(), false)
			if err != nil {
				return err
			}
			values, err := c.FitService.ParseValues(strings.Join(args, " "))
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newSolversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solvers",
		Short: "List model families and solver strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Model families:")
			for _, id := range fit.Families() {
				fmt.Fprintf(out, "  %s\n", id)
			}
			fmt.Fprintln(out, "Linear solvers:")
			for _, id := range solvers.IDs() {
				fmt.Fprintf(out, "  %s\n", fit.SolverModelID(id))
			}
			return nil
		},
	}
}
