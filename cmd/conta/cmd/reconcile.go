package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mariuscozma11/program-conta/internal/matcher"
	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/internal/reader"
	"github.com/mariuscozma11/program-conta/internal/reconciler"
	"github.com/mariuscozma11/program-conta/internal/reporter"
	"github.com/mariuscozma11/program-conta/pkg/errors"
	"github.com/mariuscozma11/program-conta/pkg/logger"
)

// Flags for the reconcile command
var (
	leftFile     string
	rightFile    string
	mode         string
	columnMaps   []string
	outputFormat string
	outputFile   string
)

const (
	modeFixed   = "fixed"
	modeGeneric = "generic"
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile two invoice exports",
	Long: `Reconcile compares the left file against the right file and buckets
every record: identical, counterparty difference, value difference, or
present on one side only.

Fixed mode expects the standard six invoice columns on both sides. Generic
mode compares arbitrary tables column by column using --map declarations.

Examples:
  # Standard invoice reconciliation, console output
  conta reconcile --left ours.csv --right theirs.xlsx

  # Write an XLSX report
  conta reconcile --left ours.csv --right theirs.csv \
    --output report.xlsx --format xlsx

  # Generic mode with explicit column pairs
  conta reconcile --left a.csv --right b.csv --mode generic \
    --map NrDoc=DocNo --map Suma=Amount`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVarP(&leftFile, "left", "l", "", "path to the left input file (required)")
	reconcileCmd.Flags().StringVarP(&rightFile, "right", "r", "", "path to the right input file (required)")
	reconcileCmd.Flags().StringVarP(&mode, "mode", "m", modeFixed, "reconciliation mode: fixed, generic")
	reconcileCmd.Flags().StringArrayVar(&columnMaps, "map", nil, "column pair LeftCol=RightCol (generic mode, repeatable)")
	reconcileCmd.Flags().StringVarP(&outputFormat, "format", "f", "console", "output format: console, json, xlsx")
	reconcileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file path (default: stdout)")

	reconcileCmd.MarkFlagRequired("left")
	reconcileCmd.MarkFlagRequired("right")

	viper.BindPFlag("left", reconcileCmd.Flags().Lookup("left"))
	viper.BindPFlag("right", reconcileCmd.Flags().Lookup("right"))
	viper.BindPFlag("mode", reconcileCmd.Flags().Lookup("mode"))
	viper.BindPFlag("format", reconcileCmd.Flags().Lookup("format"))
	viper.BindPFlag("output", reconcileCmd.Flags().Lookup("output"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	if mode != modeFixed && mode != modeGeneric {
		return errors.Newf(errors.CategoryConfig, errors.CodeInvalidConfig,
			"unknown mode %q", mode).
			WithSuggestion("use --mode fixed or --mode generic")
	}

	if mode == modeGeneric && len(columnMaps) == 0 {
		return errors.New(errors.CategoryConfig, errors.CodeInvalidMapping,
			"generic mode needs at least one --map LeftCol=RightCol").
			WithSuggestion("declare which columns to compare, e.g. --map Suma=Amount")
	}

	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == reporter.FormatXLSX && outputFile == "" {
		return errors.New(errors.CategoryConfig, errors.CodeInvalidConfig,
			"xlsx format needs --output").
			WithSuggestion("add --output report.xlsx")
	}

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	log := logger.WithComponent("cli")
	log.WithFields(logger.Fields{
		"left":  leftFile,
		"right": rightFile,
		"mode":  mode,
	}).Info("Starting reconciliation")

	leftTable, err := reader.LoadTable(leftFile)
	if err != nil {
		return err
	}
	rightTable, err := reader.LoadTable(rightFile)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	if mode == modeGeneric {
		return runGeneric(leftTable, rightTable, format)
	}
	return runFixed(leftTable, rightTable, format)
}

func runFixed(leftTable, rightTable *reader.Table, format reporter.OutputFormat) error {
	left, err := reader.ParseInvoices(leftTable, reader.InvoiceLayout{})
	if err != nil {
		return err
	}
	right, err := reader.ParseInvoices(rightTable, reader.InvoiceLayout{})
	if err != nil {
		return err
	}

	result := reconciler.ReconcileInvoices(left, right, matcher.DefaultConfig())

	switch format {
	case reporter.FormatXLSX:
		return reporter.SaveInvoiceWorkbook(outputFile, result)
	case reporter.FormatJSON:
		w, closeFn, err := outputWriter()
		if err != nil {
			return err
		}
		defer closeFn()
		return reporter.WriteJSON(w, reporter.BuildInvoiceReport(result))
	default:
		w, closeFn, err := outputWriter()
		if err != nil {
			return err
		}
		defer closeFn()
		return reporter.WriteConsole(w, result)
	}
}

func runGeneric(leftTable, rightTable *reader.Table, format reporter.OutputFormat) error {
	mappings := make([]models.ColumnMapping, 0, len(columnMaps))
	for _, raw := range columnMaps {
		m, err := models.ParseColumnMapping(raw)
		if err != nil {
			return err
		}
		mappings = append(mappings, m)
	}

	left := reader.GenericRecords(leftTable)
	right := reader.GenericRecords(rightTable)

	result := reconciler.ReconcileGeneric(left, right, mappings, matcher.DefaultConfig())

	switch format {
	case reporter.FormatXLSX:
		return reporter.SaveGenericWorkbook(outputFile, result)
	case reporter.FormatJSON:
		w, closeFn, err := outputWriter()
		if err != nil {
			return err
		}
		defer closeFn()
		return reporter.WriteJSON(w, reporter.BuildGenericReport(result))
	default:
		w, closeFn, err := outputWriter()
		if err != nil {
			return err
		}
		defer closeFn()
		return reporter.WriteGenericConsole(w, result)
	}
}

// outputWriter resolves --output: stdout when unset, otherwise the file.
func outputWriter() (*os.File, func(), error) {
	if outputFile == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CategoryReport, errors.CodeWriteFailed, "creating output file").
			WithContext("path", outputFile)
	}
	return f, func() { f.Close() }, nil
}
