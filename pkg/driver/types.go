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

// Package driver runs the proof machine to completion: it loops calling
// Step until the control state reaches HALT or NOHALT, or a resource
// limit (span count, free memory) forces INCOMPLETE, then reports the
// outcome as a Result.
package driver

import (
	"fmt"
	"math/big"

	"github.com/lassandro/bbprove/pkg/macromachine"
	"github.com/lassandro/bbprove/pkg/ruletable"
)

// DefaultMaxSpans and DefaultFreeMemoryFraction are the resource
// budgets Run falls back to when a Config leaves them unset.
const (
	DefaultMaxSpans           = 1 << 20
	DefaultFreeMemoryFraction = 0.05
)

// ConfigError reports an out-of-range Run parameter, mirroring
// ruletable.ConfigError's shape for the same kind of failure one layer
// up the stack.
type ConfigError struct {
	Field    string
	Value    int
	Min, Max int
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf(
		"driver: %s out of range: got %d, want [%d, %d]",
		err.Field, err.Value, err.Min, err.Max,
	)
}

// Config holds the resource budgets and observability hooks a Run call
// is parameterized by. The zero value is usable: MaxSpans and
// FreeMemoryFraction fall back to the defaults above, and a nil
// Reporter/Every means no progress is emitted.
type Config struct {
	MaxSpans           int
	FreeMemoryFraction float64

	// Every is how many proof steps elapse between Reporter calls.
	// Zero disables progress reporting regardless of Reporter.
	Every int

	// Reporter, if set, is called every Every proof steps with the
	// current progress snapshot. It must not mutate anything it is
	// given.
	Reporter func(Progress)
}

// Progress is one progress snapshot handed to a Config.Reporter call.
type Progress struct {
	ProofSteps int64
	SpanCount  int
	State      ruletable.State
	MicroSteps *big.Int
	MacroPos   *big.Int
}

// Result is the outcome of a complete Run: the number of ones left on
// the tape (sentinel -1 when the final state is not HALT), the total
// micro-step count, and the final control state.
type Result struct {
	NumOnes    *big.Int
	NumSteps   *big.Int
	FinalState ruletable.State
}

func (cfg Config) maxSpans() int {
	if cfg.MaxSpans > 0 {
		return cfg.MaxSpans
	}
	return DefaultMaxSpans
}

func (cfg Config) freeMemoryFraction() float64 {
	if cfg.FreeMemoryFraction > 0 {
		return cfg.FreeMemoryFraction
	}
	return DefaultFreeMemoryFraction
}

// countOnes sums popcount(symbol)*size across every interior span. It
// is only meaningful once the machine has reached HALT.
func countOnes(macro *macromachine.Machine) *big.Int {
	total := big.NewInt(0)
	t := macro.Tape

	for c := t.Next(t.First()); t.Valid(c) && c != t.Last(); c = t.Next(c) {
		pop := t.Symbol(c).PopCount(macro.Width)
		total.Add(total, new(big.Int).Mul(big.NewInt(int64(pop)), t.Size(c)))
	}

	return total
}
