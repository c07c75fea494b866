// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command bbprove runs the accelerated simulator against a rule table
// read from a file or picked from a small built-in catalog, printing
// the run's final ones/steps/state result.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lassandro/bbprove/pkg/driver"
	"github.com/lassandro/bbprove/pkg/ruletable"
	"github.com/lassandro/bbprove/pkg/ruletext"
)

// builtins is a small catalog of named rule tables for smoke-testing
// without a file on disk.
var builtins = map[string]string{
	"bb2": "B1R B1L  A1L H1R",
	"bb3": "B1R H1R  C0R B1R  C1L A1L",
	"bb4": "B1R B1L  A1L C0L  H1R D1L  D1R A0R",
	"bb5": "B1R C1L  C1R B1R  D1R E0L  A1L D1L  H1R A0L",
}

var (
	builtinFlag  string
	fileFlag     string
	macroNBits   int
	maxSpans     int
	freeFraction float64
	every        int
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "bbprove",
	Short: "Run the accelerated Turing-machine simulator against a rule table",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&builtinFlag, "builtin", "", "name of a built-in rule table (bb2, bb3, bb4, bb5)")
	rootCmd.Flags().StringVar(&fileFlag, "file", "", "path to a rule-table text file")
	rootCmd.Flags().IntVar(&macroNBits, "macro-nbit", 1, "macro symbol width in bits [1, 60]")
	rootCmd.Flags().IntVar(&maxSpans, "max-spans", driver.DefaultMaxSpans, "span-count budget before giving up as incomplete")
	rootCmd.Flags().Float64Var(&freeFraction, "memory-fraction", driver.DefaultFreeMemoryFraction, "minimum fraction of free physical memory before giving up as incomplete")
	rootCmd.Flags().IntVar(&every, "every", 0, "print progress every N proof steps (0 disables progress output)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
}

func loadTable() (*ruletable.Table, error) {
	if builtinFlag != "" && fileFlag != "" {
		return nil, fmt.Errorf("bbprove: --builtin and --file are mutually exclusive")
	}

	if builtinFlag != "" {
		text, ok := builtins[strings.ToLower(builtinFlag)]
		if !ok {
			return nil, fmt.Errorf("bbprove: unknown builtin %q", builtinFlag)
		}
		return ruletext.Parse(strings.Fields(text))
	}

	if fileFlag != "" {
		contents, err := os.ReadFile(fileFlag)
		if err != nil {
			return nil, err
		}
		return ruletext.Parse(strings.Fields(string(contents)))
	}

	return nil, fmt.Errorf("bbprove: one of --builtin or --file is required")
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		driver.Log.SetLevel(logrus.DebugLevel)
	}

	table, err := loadTable()
	if err != nil {
		return err
	}

	result, err := driver.Run(table, macroNBits, driver.Config{
		MaxSpans:           maxSpans,
		FreeMemoryFraction: freeFraction,
		Every:              every,
		Reporter:           reportProgress,
	})
	if err != nil {
		return err
	}

	fmt.Printf("final-state: %s\n", result.FinalState)
	fmt.Printf("num-ones:    %s\n", result.NumOnes)
	fmt.Printf("num-steps:   %s\n", result.NumSteps)

	return nil
}

func reportProgress(p driver.Progress) {
	fmt.Printf(
		"proof step %d: spans=%d state=%s micro-steps=%s\n",
		p.ProofSteps, p.SpanCount, p.State, p.MicroSteps,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
