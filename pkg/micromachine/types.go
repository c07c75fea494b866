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

package micromachine

import (
	"github.com/lassandro/bbprove/pkg/macrosym"
	"github.com/lassandro/bbprove/pkg/ruletable"
)

// State and Rule are aliases for the ruletable types the walk consults;
// re-exporting them here saves a second import in every call site that
// already has "micromachine." in scope.
type (
	State = ruletable.State
	Rule  = ruletable.Rule
)

const (
	HALT   = ruletable.HALT
	NOHALT = ruletable.NOHALT
)

// Direction names which edge of a block the head is positioned at.
// RightEntry: the head is at the block's left edge, about to read
// offset 0 first (as if it just walked in moving rightward).
// LeftEntry: the head is at the block's right edge, about to read
// offset width-1 first.
type Direction int

const (
	RightEntry Direction = iota
	LeftEntry
)

func (d Direction) String() string {
	if d == LeftEntry {
		return "left-entry"
	}
	return "right-entry"
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == RightEntry {
		return LeftEntry
	}
	return RightEntry
}

// Result is what a single micro-machine invocation reports: the state
// and macro symbol after walking bit-by-bit until the head left the
// block (or halted, or a cycle was detected), the edge the head left
// through, and the number of ordinary Turing transitions taken.
type Result struct {
	ExitState ruletable.State
	Symbol    macrosym.Symbol
	ExitDir   Direction
	Steps     int64
}

// memoKey is the (entry state, symbol, entry direction, width) tuple a
// Machine's cache is keyed on. Packing this into a single machine word
// buys nothing in Go, where struct keys hash directly; the fields
// below already fit comfortably in 64 bits if that ever changes.
type memoKey struct {
	state ruletable.State
	sym   macrosym.Symbol
	dir   Direction
	width int
}

type cycleKey struct {
	pos   int
	bits  macrosym.Symbol
	state ruletable.State
}
