package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"goeda/adapters/datareadiness/imputer"
	"goeda/adapters/datareadiness/outliers"
	"goeda/adapters/excel"
	"goeda/app"
	"goeda/internal"
	"goeda/internal/config"
	"goeda/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goeda-dev",
		Short: "goeda development tools",
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newSmokeTestCmd(),
		newDeterminismTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	cfg := testkit.DefaultCustomerConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a sample customer file (.csv or .xlsx)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateSeedData(cfg, out)
		},
	}
	cmd.Flags().IntVar(&cfg.Rows, "rows", cfg.Rows, "Number of rows")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for deterministic output")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "Share of blank numeric cells")
	cmd.Flags().Float64Var(&cfg.OutlierRate, "outlier-rate", cfg.OutlierRate, "Share of inflated incomes")
	cmd.Flags().StringVar(&out, "out", "customers.csv", "Output file")
	return cmd
}

func newSmokeTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run smoke tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context())
		},
	}
}

func newDeterminismTestCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "determinism",
		Short: "Check that the same seed yields identical statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return testDeterminism(cmd.Context(), seed)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	return cmd
}

func newService() *app.Service {
	return app.NewService(config.Default(), internal.NewLogger(internal.LogLevelWarn))
}

func generateSeedData(cfg testkit.CustomerConfig, out string) error {
	fmt.Printf("Generating %d rows (seed %d)...\n", cfg.Rows, cfg.Seed)

	ds := testkit.NewCustomerGenerator(cfg).Generate()
	writer := excel.NewDataWriter(excel.DefaultOptions(), internal.DefaultLogger)

	if strings.EqualFold(filepath.Ext(out), ".xlsx") {
		if err := writer.WriteXLSX(out, ds); err != nil {
			return err
		}
	} else {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		if err := writer.WriteCSV(f, ds); err != nil {
			return err
		}
	}

	fmt.Printf("Wrote %s\n", out)
	return nil
}

func runSmokeTests(ctx context.Context) error {
	fmt.Println("Running smoke tests...")

	service := newService()
	workspace := app.NewWorkspace(service)
	workspace.Load(testkit.Customers())

	tests := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"missing_values", func(ctx context.Context) error {
			snap, err := workspace.Current()
			if err != nil {
				return err
			}
			ds, outcomes := service.CorrectMissing(snap.Data, []string{testkit.ColumnAge, testkit.ColumnIncome}, imputer.StrategyMedian, "")
			for _, o := range outcomes {
				if o.Failed() {
					return o.Err
				}
			}
			_, err = workspace.Apply(ds, nil)
			return err
		}},
		{"outliers", func(ctx context.Context) error {
			snap, err := workspace.Current()
			if err != nil {
				return err
			}
			ds, outcomes, _ := service.HandleOutliers(snap.Data, []string{testkit.ColumnIncome}, outliers.DetectIQR, outliers.FixCap)
			if outcomes[0].Failed() {
				return outcomes[0].Err
			}
			_, err = workspace.Apply(ds, nil)
			return err
		}},
		{"describe", func(ctx context.Context) error {
			snap, err := workspace.Current()
			if err != nil {
				return err
			}
			_, err = service.DescribeMany(ctx, snap.Data, nil)
			return err
		}},
		{"analyze", func(ctx context.Context) error {
			snap, err := workspace.Current()
			if err != nil {
				return err
			}
			result, err := service.Analyze2D(snap.Data, testkit.ColumnSegment, testkit.ColumnIncome, testkit.ColumnAge)
			if err != nil {
				return err
			}
			if !result.Available() {
				return fmt.Errorf("analysis unavailable: %s", result.Reason)
			}
			return nil
		}},
		{"reset", func(ctx context.Context) error {
			snap, err := workspace.ResetAll()
			if err != nil {
				return err
			}
			age, err := snap.Data.Column(testkit.ColumnAge)
			if err != nil {
				return err
			}
			if age.MissingCount() == 0 {
				return fmt.Errorf("reset did not restore missing values")
			}
			return nil
		}},
	}

	passed := 0
	for _, test := range tests {
		fmt.Printf("  Running %s...", test.name)
		if err := test.fn(ctx); err != nil {
			fmt.Printf(" FAILED: %v\n", err)
		} else {
			fmt.Println(" PASSED")
			passed++
		}
	}

	fmt.Printf("\nSmoke tests: %d/%d passed\n", passed, len(tests))
	if passed < len(tests) {
		return fmt.Errorf("some smoke tests failed")
	}
	return nil
}

func testDeterminism(ctx context.Context, seed int64) error {
	fmt.Printf("Testing determinism for seed %d...\n", seed)

	describe := func() ([]byte, error) {
		cfg := testkit.DefaultCustomerConfig()
		cfg.Seed = seed
		service := newService()
		ds, _ := service.Ingest(testkit.NewCustomerGenerator(cfg).Generate())
		results, err := service.DescribeMany(ctx, ds, nil)
		if err != nil {
			return nil, err
		}
		return json.Marshal(results)
	}

	first, err := describe()
	if err != nil {
		return err
	}
	second, err := describe()
	if err != nil {
		return err
	}
	if !bytes.Equal(first, second) {
		return fmt.Errorf("statistics differ between runs")
	}

	fmt.Println("Determinism check passed")
	return nil
}
