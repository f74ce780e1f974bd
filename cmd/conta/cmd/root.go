package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mariuscozma11/program-conta/pkg/logger"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "conta",
	Short: "Invoice reconciliation tool",
	Long: `Conta compares two invoice exports (typically a company's own sales
or purchase ledger against the counterparty's declaration) and reports which
invoices agree, which differ only in how the counterparty is recorded, which
differ in values, and which appear on one side only.

Examples:
  conta reconcile --left ours.csv --right theirs.xlsx
  conta reconcile --left a.csv --right b.csv --mode generic --map Suma=Amount
  conta --version`,
	Version: getVersionString(),
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads the optional config file and matching environment
// variables, then adjusts logging verbosity.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}
	}

	viper.SetEnvPrefix("CONTA")
	viper.AutomaticEnv()

	level := logger.InfoLevel
	if viper.GetBool("verbose") {
		level = logger.DebugLevel
	}
	log, err := logger.New(&logger.Config{
		Level:  level,
		Format: logger.TextFormat,
		Output: os.Stderr,
	})
	if err == nil {
		logger.SetGlobal(log)
	}
}

// SetVersionInfo sets the version information shown by --version.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}
