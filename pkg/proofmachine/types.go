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

// Package proofmachine watches a macro-machine's steps, keyed by an
// abstract pattern signature (control state, ordered macro symbols,
// cursor position, direction). When the same signature recurs enough
// times with every span's identity preserved (or its size unchanged),
// the interval between recurrences is a linear pattern: each span's
// size changes by a fixed delta per repetition. The pattern is applied
// the maximum number of times provably safe in one arithmetic step,
// replacing many individual macro steps with one bignum update.
package proofmachine

import (
	"math/big"

	"github.com/lassandro/bbprove/pkg/macromachine"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// PatternInstanceThreshold is the number of times a pattern key must
// recur in the history map before confirmation against the most
// recent recurrence is attempted.
const PatternInstanceThreshold = 3

// PatternKey is the hashable signature two macro-machine states share
// when they are candidates for the same linear pattern: the control
// state, the cursor's position among the tape's spans (sentinels
// included), the direction of travel, and the ordered sequence of
// every span's symbol. Symbols are encoded into a single comparable
// string because a []macrosym.Symbol cannot itself be a map key.
type PatternKey struct {
	State       macromachine.State
	CursorIndex int
	MovingRight bool
	Symbols     string
}

// SpanSnapshot records one span's size and identity at the moment an
// Instance was taken.
type SpanSnapshot struct {
	Size *big.Int
	ID   int64
}

// Instance is one historic observation of a macro-machine state that
// shares a PatternKey with others: the step counters at that moment,
// plus every span's size and identity in tape order (sentinels
// included, so span index lines up with PatternKey.CursorIndex).
type Instance struct {
	MicroStep *big.Int
	MacroPos  *big.Int
	Iter      *big.Int
	Spans     []SpanSnapshot
}

// spanMicroSteps is the per-span linear model of micro-step cost
// harvested from did-jump events during a pattern's proof replay: m_i
// micro-steps per unit of span size, plus a fixed additive offset c_i.
type spanMicroSteps struct {
	PerSymbol *big.Int
	Offset    *big.Int
}

// Pattern is a confirmed linear pattern between two instances sharing
// a PatternKey: for each span, a lower bound on size below which the
// pattern is not proven to hold, and a delta applied per repetition.
type Pattern struct {
	lowerBounds []*big.Int
	deltas      []*big.Int
	microSteps  []spanMicroSteps

	NumMicroSteps *big.Int
	NumMacroSteps *big.Int
	NumIters      *big.Int
}

// NumSpans reports how many spans (sentinels included) the pattern
// covers.
func (p *Pattern) NumSpans() int {
	return len(p.deltas)
}

// StepOutcome reports the total change a single proof-machine Step
// produced, whether it delegated to one macro step or extrapolated a
// confirmed pattern across many.
type StepOutcome struct {
	DeltaMicro      *big.Int
	DeltaMacro      *big.Int
	DeltaIterations *big.Int
}

// Machine is the proof machine: a macro-machine under observation,
// the running step/position/iteration totals a driver loop reports
// on, and the history map from pattern key to past instances.
type Machine struct {
	Macro *macromachine.Machine

	NumMicroSteps *big.Int
	MacroPos      *big.Int
	NumIters      *big.Int

	history map[PatternKey][]Instance
}

// New wraps macro in a proof machine with zeroed counters and an
// empty history map.
func New(macro *macromachine.Machine) *Machine {
	return &Machine{
		Macro:         macro,
		NumMicroSteps: big.NewInt(0),
		MacroPos:      big.NewInt(0),
		NumIters:      big.NewInt(0),
		history:       make(map[PatternKey][]Instance),
	}
}
