package main

import (
	"fmt"
	"os"

	"github.com/mariuscozma11/program-conta/cmd/conta/cmd"
	"github.com/mariuscozma11/program-conta/pkg/errors"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if ce, ok := errors.As(err); ok && ce.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", ce.Suggestion)
		}
		os.Exit(errors.ExitCode(err))
	}
}
