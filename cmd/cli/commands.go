package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"goeda/adapters/datareadiness/coercer"
	"goeda/adapters/datareadiness/imputer"
	"goeda/adapters/datareadiness/outliers"
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
	"goeda/internal/errors"
)

// columnSummary is one line of the classify output
type columnSummary struct {
	Column     string             `json:"column"`
	Type       dataset.ColumnType `json:"type"`
	Missing    int                `json:"missing"`
	Strategies []imputer.Strategy `json:"strategies"`
}

func newClassifyCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file]",
		Short: "Infer the type of every column",
		Long: `Infer the type of every column and report its missing-value count
together with the missing-value strategies that apply to it.

Example: goeda classify customers.csv --sep ';' --decimal ','`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.env()
			if err != nil {
				return err
			}
			ds, types, err := e.load(args[0])
			if err != nil {
				return err
			}
			summaries := make([]columnSummary, 0, len(ds.Columns))
			for _, col := range ds.Columns {
				summaries = append(summaries, columnSummary{
					Column:     col.Name,
					Type:       types[col.Name],
					Missing:    col.MissingCount(),
					Strategies: imputer.StrategiesFor(col),
				})
			}
			return render(cmd.OutOrStdout(), e.format, summaries)
		},
	}
}

func newConvertCmd(flags *globalFlags) *cobra.Command {
	var column, target, policy, out string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert one column to another type",
		Long: `Convert one column to Integer, Float, Datetime, String or Categorical.

The strict policy fails on the first value that cannot be converted; the
coercive policy turns such values into missing cells (Float only).

Example: goeda convert customers.csv --column income --to float --policy coercive --out fixed.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetType, err := dataset.ParseColumnType(target)
			if err != nil {
				return errors.WithCode(errors.CodeInvalidInput, err)
			}
			p, err := coercer.ParsePolicy(policy)
			if err != nil {
				return err
			}
			e, err := flags.env()
			if err != nil {
				return err
			}
			ds, _, err := e.load(args[0])
			if err != nil {
				return err
			}

			converted, err := e.service.ConvertColumn(ds, column, targetType, p)
			if err != nil {
				return err
			}
			if out != "" {
				next, err := ds.WithColumn(converted)
				if err != nil {
					return err
				}
				if err := e.save(out, next); err != nil {
					return err
				}
			}
			return render(cmd.OutOrStdout(), e.format, converted)
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Column to convert")
	cmd.Flags().StringVar(&target, "to", "", "Target type")
	cmd.Flags().StringVar(&policy, "policy", coercer.PolicyStrict.String(), "Conversion policy: strict or coercive")
	cmd.Flags().StringVar(&out, "out", "", "Write the converted dataset to this file")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newMissingCmd(flags *globalFlags) *cobra.Command {
	var columns, strategy, marker, out string

	cmd := &cobra.Command{
		Use:   "missing [file]",
		Short: "Fill or drop missing values",
		Long: `Apply a missing-value strategy to the selected columns:
ffill, most_frequent, mean, median or delete (drops rows).

Cells equal to --marker are treated as missing first.

Example: goeda missing customers.csv --columns age,income --strategy median --out filled.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := imputer.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			e, err := flags.env()
			if err != nil {
				return err
			}
			ds, _, err := e.load(args[0])
			if err != nil {
				return err
			}

			names := splitList(columns)
			if len(names) == 0 {
				names = ds.Names()
			}
			corrected, outcomes := e.service.CorrectMissing(ds, names, s, marker)
			if out != "" {
				if err := e.save(out, corrected); err != nil {
					return err
				}
			}
			return render(cmd.OutOrStdout(), e.format, outcomes)
		},
	}

	cmd.Flags().StringVar(&columns, "columns", "", "Comma-separated columns (default: all)")
	cmd.Flags().StringVar(&strategy, "strategy", string(imputer.StrategyForwardFill), "Missing-value strategy")
	cmd.Flags().StringVar(&marker, "marker", "", "Extra value to treat as missing, e.g. '?' or 'NA'")
	cmd.Flags().StringVar(&out, "out", "", "Write the corrected dataset to this file")
	return cmd
}

// outlierResult is the output of the outliers command
type outlierResult struct {
	Reports  []domainstats.OutlierReport `json:"reports"`
	Outcomes []dataset.ColumnOutcome     `json:"outcomes,omitempty"`
}

func newOutliersCmd(flags *globalFlags) *cobra.Command {
	var columns, detect, fix, out string

	cmd := &cobra.Command{
		Use:   "outliers [file]",
		Short: "Detect and optionally correct outliers",
		Long: `Detect outliers with the zscore or iqr method. With --fix, correct them
by removing (blanking), capping, or replacing with the column mean or median.

Example: goeda outliers customers.csv --columns income --detect iqr --fix cap --out capped.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := outliers.ParseDetectMethod(detect)
			if err != nil {
				return err
			}
			e, err := flags.env()
			if err != nil {
				return err
			}
			ds, _, err := e.load(args[0])
			if err != nil {
				return err
			}
			names := splitList(columns)
			if len(names) == 0 {
				return errors.InvalidInput("--columns is required")
			}

			if fix == "" {
				result := outlierResult{}
				for _, name := range names {
					report, err := e.service.DetectOutliers(ds, name, d)
					if err != nil {
						return err
					}
					result.Reports = append(result.Reports, report)
				}
				return render(cmd.OutOrStdout(), e.format, result)
			}

			f, err := outliers.ParseFixMethod(fix)
			if err != nil {
				return err
			}
			corrected, outcomes, reports := e.service.HandleOutliers(ds, names, d, f)
			if out != "" {
				if err := e.save(out, corrected); err != nil {
					return err
				}
			}
			return render(cmd.OutOrStdout(), e.format, outlierResult{Reports: reports, Outcomes: outcomes})
		},
	}

	cmd.Flags().StringVar(&columns, "columns", "", "Comma-separated numeric columns")
	cmd.Flags().StringVar(&detect, "detect", string(outliers.DetectIQR), "Detection method: zscore or iqr")
	cmd.Flags().StringVar(&fix, "fix", "", "Correction method: remove, cap, mean or median (default: report only)")
	cmd.Flags().StringVar(&out, "out", "", "Write the corrected dataset to this file")
	return cmd
}

func newDescribeCmd(flags *globalFlags) *cobra.Command {
	var columns string

	cmd := &cobra.Command{
		Use:   "describe [file]",
		Short: "Univariate statistics per column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.env()
			if err != nil {
				return err
			}
			ds, _, err := e.load(args[0])
			if err != nil {
				return err
			}
			results, err := e.service.DescribeMany(cmd.Context(), ds, splitList(columns))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), e.format, results)
		},
	}

	cmd.Flags().StringVar(&columns, "columns", "", "Comma-separated columns (default: all)")
	return cmd
}

func newAnalyzeCmd(flags *globalFlags) *cobra.Command {
	var x, y, covariate string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Bivariate statistics for a column pair",
		Long: `Analyse a pair of columns. Two numeric columns give correlation and a
linear regression; a categorical and a numeric column give ANOVA, ANCOVA
(with --covariate), a code regression and k-means clusters.

Example: goeda analyze customers.csv --x segment --y income --covariate age`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.env()
			if err != nil {
				return err
			}
			ds, _, err := e.load(args[0])
			if err != nil {
				return err
			}
			result, err := e.service.Analyze2D(ds, x, y, covariate)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), e.format, result)
		},
	}

	cmd.Flags().StringVar(&x, "x", "", "First column")
	cmd.Flags().StringVar(&y, "y", "", "Second column")
	cmd.Flags().StringVar(&covariate, "covariate", "", "Numeric covariate for ANCOVA")
	return cmd
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
