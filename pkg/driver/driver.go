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

package driver

import (
	"math/big"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/lassandro/bbprove/pkg/macromachine"
	"github.com/lassandro/bbprove/pkg/macrosym"
	"github.com/lassandro/bbprove/pkg/proofmachine"
	"github.com/lassandro/bbprove/pkg/ruletable"
)

// Log is the package-level logger driver writes its diagnostic stream
// to. Every other core package (ruletable, micromachine, tape,
// macromachine, proofmachine) stays silent; only this outermost loop
// reports progress.
var Log = logrus.New()

// Run drives table to completion: it repeatedly steps a proof machine
// wrapped around a fresh macro-machine until the control state reaches
// HALT or NOHALT, the tape's span count reaches cfg's MaxSpans budget,
// or free memory falls below cfg's FreeMemoryFraction threshold. The
// latter two transition the reported final state to INCOMPLETE rather
// than returning an error: resource exhaustion is a terminal outcome
// of the simulation, not a failure of Run itself.
func Run(table *ruletable.Table, macroNBits int, cfg Config) (Result, error) {
	if macroNBits < 1 || macroNBits > macrosym.MaxWidth {
		return Result{}, &ConfigError{
			Field: "macroNBits", Value: macroNBits, Min: 1, Max: macrosym.MaxWidth,
		}
	}

	macro := macromachine.New(table, macroNBits)
	proof := proofmachine.New(macro)

	maxSpans := cfg.maxSpans()
	memFraction := cfg.freeMemoryFraction()

	var proofSteps int64

	for !macro.State.Terminal() {
		proof.Step()
		proofSteps++

		if !macro.State.Terminal() {
			if n := macro.Tape.SpanCount(); n >= maxSpans {
				Log.WithField("spans", n).Warn("span budget exhausted, marking incomplete")
				macro.State = ruletable.INCOMPLETE
				break
			}

			free, err := freeMemoryFraction()
			if err == nil && free < memFraction {
				Log.WithField("free_fraction", free).Warn("free memory below threshold, marking incomplete")
				macro.State = ruletable.INCOMPLETE
				break
			}
		}

		if cfg.Every > 0 && cfg.Reporter != nil && proofSteps%int64(cfg.Every) == 0 {
			cfg.Reporter(Progress{
				ProofSteps: proofSteps,
				SpanCount:  macro.Tape.SpanCount(),
				State:      macro.State,
				MicroSteps: new(big.Int).Set(proof.NumMicroSteps),
				MacroPos:   new(big.Int).Set(proof.MacroPos),
			})
		}
	}

	result := Result{
		NumSteps:   new(big.Int).Set(proof.NumMicroSteps),
		FinalState: macro.State,
		NumOnes:    big.NewInt(-1),
	}

	if macro.State == ruletable.HALT {
		result.NumOnes = countOnes(macro)
	}

	Log.WithFields(logrus.Fields{
		"final_state": macro.State,
		"num_ones":    result.NumOnes,
		"num_steps":   result.NumSteps,
	}).Info("run complete")

	return result, nil
}

// freeMemoryFraction reads free/total physical RAM via unix.Sysinfo
// and returns the free fraction.
func freeMemoryFraction() (float64, error) {
	var info unix.Sysinfo_t

	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}

	if info.Totalram == 0 {
		return 1, nil
	}

	return float64(info.Freeram) / float64(info.Totalram), nil
}
