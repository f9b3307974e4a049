// Package commands implements the CLI commands for plink.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plinkurl/plink/internal/logger"
	"github.com/plinkurl/plink/internal/output"
	"github.com/plinkurl/plink/pkg/plink"
)

var rootCmd = &cobra.Command{
	Use:   "plink [flags] URL...",
	Short: "Clean URLs by peeling away tracking parameters and other junk",
	Long: `Plink strips tracking parameters, referral codes and redirect
indirection from URLs using a compiled ruleset embedded in the binary.

Examples:
  # Clean a single URL
  plink "https://example.com/page?utm_source=newsletter&fbclid=XYZ"

  # Clean several URLs, blocking extra parameters globally
  plink --param ref --param src "https://a.example/?ref=x" "https://b.example/?src=y"

  # Cancel URLs on blacklisted hosts and emit full results as JSON lines
  plink --blacklist tracker.example --format jsonl "https://tracker.example/p"

  # Keep referral-marketing parameters
  plink --no-referral-marketing "https://shop.example/item?tag=aff-21"`,
	Args: cobra.ArbitraryArgs,
	RunE: runClean,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.plink.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	flags := rootCmd.Flags()
	flags.Bool("no-skip-localhost", false, "do NOT bypass localhost and private-network URLs")
	flags.Bool("no-referral-marketing", false, "do NOT strip referral-marketing parameters")
	flags.Bool("no-domain-blocking", false, "do NOT enforce domain blocking")
	flags.StringSlice("blacklist", nil, "blacklisted domains (repeatable or comma-separated)")
	flags.StringSliceP("param", "p", nil, "additional blocked parameter patterns (repeatable or comma-separated)")
	flags.StringP("format", "f", "text", "output format: text, json, jsonl, yaml")

	_ = viper.BindPFlag("blacklist", flags.Lookup("blacklist"))
	_ = viper.BindPFlag("params", flags.Lookup("param"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".plink")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PLINK")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runClean(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	if len(args) == 0 {
		return cmd.Help()
	}

	noSkipLocalhost, _ := cmd.Flags().GetBool("no-skip-localhost")
	noReferral, _ := cmd.Flags().GetBool("no-referral-marketing")
	noDomainBlocking, _ := cmd.Flags().GetBool("no-domain-blocking")

	opts := plink.DefaultOptions()
	opts.SkipLocalhost = !noSkipLocalhost
	opts.ApplyReferralMarketing = !noReferral
	opts.DomainBlocking = !noDomainBlocking
	opts.BlacklistedDomains = viper.GetStringSlice("blacklist")
	opts.AdditionalBlockedParams = viper.GetStringSlice("params")

	engine, err := plink.New(plink.WithOptions(opts))
	if err != nil {
		logError("failed to construct engine: %v", err)
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	var writer output.Writer
	if format != "text" {
		writer, err = output.NewWriter(os.Stdout, output.Format(format))
		if err != nil {
			logError("%v", err)
			return err
		}
	}

	failed := 0
	for _, url := range args {
		result, err := engine.Clean(url)
		if err != nil {
			failed++
			logError("cleaning %s: %v", url, err)
			continue
		}

		if writer != nil {
			if err := writer.Write(result); err != nil {
				return err
			}
			continue
		}
		fmt.Println(result.URL)
	}

	if writer != nil {
		if err := writer.Flush(); err != nil {
			return err
		}
	}

	if failed > 0 {
		return errors.New("some URLs could not be cleaned")
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
