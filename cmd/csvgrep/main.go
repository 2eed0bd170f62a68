// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the csvgrep CLI.
// csvgrep scans a CSV file or a directory of CSV files for rows containing
// any of a list of keywords and writes the matches to a txt, csv, or json
// report.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/csvgrep/internal/scan"
	"github.com/pdiddy/csvgrep/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the csvgrep CLI. It runs the search itself.
var rootCmd = &cobra.Command{
	Use:   "csvgrep --path <file|dir> --keyword <k1,k2,...> --output <file>",
	Short: "Search CSV files for rows containing keywords",
	Long: `csvgrep searches a CSV file, or every .csv file under a directory, for rows
where any field contains one of the given keywords (case-insensitive). Each
matching row is reported once, keyed by the first matching field.

The output file extension selects the report format: .txt, .csv, or .json.
When nothing matches, no report is written.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := scanConfig(cmd)
	if err != nil {
		return err
	}

	result, err := scan.Run(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Written {
		fmt.Fprintln(out, WarnStyle.Render("No matching keywords found."))
		return nil
	}
	fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("Results saved to %s", cfg.Output)))
	return nil
}

// scanConfig assembles the run configuration from flags, with the
// keywords file and malformed-file policy falling back to config values.
func scanConfig(cmd *cobra.Command) (types.ScanConfig, error) {
	path, _ := cmd.Flags().GetString("path")
	keywords, _ := cmd.Flags().GetString("keyword")
	output, _ := cmd.Flags().GetString("output")

	policy, err := types.ParseMalformedPolicy(viper.GetString("on_malformed"))
	if err != nil {
		return types.ScanConfig{}, err
	}

	return types.ScanConfig{
		Path:         path,
		Keywords:     types.ParseKeywords(keywords),
		KeywordsFile: viper.GetString("keywords_file"),
		Output:       output,
		OnMalformed:  policy,
	}, nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./csvgrep.yaml or ~/.config/csvgrep/csvgrep.yaml)")

	rootCmd.Flags().String("path", "", "CSV file or directory to scan")
	rootCmd.Flags().String("keyword", "", "comma-separated keywords to search for")
	rootCmd.Flags().String("output", "", "output file; extension selects the format (txt, csv, json)")
	rootCmd.Flags().String("keywords-file", "", "YAML file with additional keywords")
	rootCmd.Flags().String("on-malformed", string(types.MalformedAbort), "what to do with a malformed CSV file: abort or skip")

	_ = rootCmd.MarkFlagRequired("path")
	_ = rootCmd.MarkFlagRequired("keyword")
	_ = rootCmd.MarkFlagRequired("output")

	bindConfig()
}

// bindConfig maps config keys onto the flags that override them.
func bindConfig() {
	_ = viper.BindPFlag("keywords_file", rootCmd.Flags().Lookup("keywords-file"))
	_ = viper.BindPFlag("on_malformed", rootCmd.Flags().Lookup("on-malformed"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("csvgrep")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "csvgrep"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
