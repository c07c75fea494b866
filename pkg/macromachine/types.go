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

// Package macromachine advances the run-length tape by one macro step:
// it invokes the micro-machine on the current span's symbol, then
// either jumps the cursor across the whole span (when the micro-machine
// result would replay identically across every copy of that symbol) or
// performs a single-span-symbol transition, merging adjacent
// same-symbol spans as it goes.
package macromachine

import (
	"math/big"

	"github.com/lassandro/bbprove/pkg/micromachine"
	"github.com/lassandro/bbprove/pkg/ruletable"
	"github.com/lassandro/bbprove/pkg/tape"
)

// State and Direction are aliases for the types macromachine shares
// with micromachine and ruletable.
type (
	State     = ruletable.State
	Direction = micromachine.Direction
)

const (
	HALT       = ruletable.HALT
	NOHALT     = ruletable.NOHALT
	RightEntry = micromachine.RightEntry
	LeftEntry  = micromachine.LeftEntry
)

// OptionalID is a span id that may or may not be present in a step's
// report, standing in for an optional deleted-id or shrunk-span field
// without resorting to a *int64.
type OptionalID struct {
	ID      int64
	Present bool
}

// StepOutcome reports everything one Step call changed, for the proof
// machine's bookkeeping.
type StepOutcome struct {
	DeltaMicro *big.Int
	DeltaMacro *big.Int
	Deleted    OptionalID
	Shrunk     OptionalID
	ShrunkSize *big.Int // the shrunk span's size immediately after this step, valid only when Shrunk.Present
	StepMicro  int64
	DidJump    bool
}

// Machine is the macro-machine: a micro-machine, a run-length tape,
// and the control state/cursor/direction triple that together make up
// the macro-machine state.
type Machine struct {
	Table *ruletable.Table
	Micro *micromachine.Machine
	Tape  *tape.Tape
	Width int

	State     State
	Cursor    tape.Cursor
	Direction Direction
}

// New builds a fresh macro-machine: an empty tape (two sentinels, no
// real spans) with the cursor on the second sentinel and direction
// right-entry, the canonical starting configuration.
func New(table *ruletable.Table, width int) *Machine {
	t := tape.New()

	return &Machine{
		Table:     table,
		Micro:     micromachine.New(table),
		Tape:      t,
		Width:     width,
		State:     0,
		Cursor:    t.Last(),
		Direction: RightEntry,
	}
}
