package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "goeda",
		Short: "Exploratory data analysis over CSV and XLSX files",
		Long: `goeda classifies column types, repairs missing values and outliers,
and computes univariate and bivariate statistics for tabular files.

Every command reads one file, ingests it (classifies every column and converts
numeric columns) and prints its result as JSON or YAML.

Example: goeda describe customers.csv --columns income,age --format yaml`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Path to a YAML config file")
	pf.StringVar(&flags.sep, "sep", "", "Column separator (default from config, ';')")
	pf.StringVar(&flags.decimal, "decimal", "", "Decimal separator, '.' or ',' (default from config, ',')")
	pf.StringVar(&flags.sheet, "sheet", "", "Worksheet to read from XLSX files")
	pf.StringVar(&flags.format, "format", formatJSON, "Output format: json or yaml")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: ERROR, WARN, INFO, DEBUG or TRACE")

	rootCmd.AddCommand(
		newClassifyCmd(flags),
		newConvertCmd(flags),
		newMissingCmd(flags),
		newOutliersCmd(flags),
		newDescribeCmd(flags),
		newAnalyzeCmd(flags),
		newConfigCmd(flags),
	)
	return rootCmd
}
