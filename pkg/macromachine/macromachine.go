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

package macromachine

import (
	"math/big"

	"github.com/lassandro/bbprove/pkg/macrosym"
	"github.com/lassandro/bbprove/pkg/micromachine"
	"github.com/lassandro/bbprove/pkg/tape"
)

var one = big.NewInt(1)

// Step advances the macro-machine by one macro step. It is a no-op
// (other than returning a zero StepOutcome) once State is HALT,
// NOHALT, or INCOMPLETE; callers check State between calls.
func (m *Machine) Step() StepOutcome {
	if m.State.Terminal() {
		return StepOutcome{DeltaMicro: big.NewInt(0), DeltaMacro: big.NewInt(0)}
	}

	sym := m.Tape.Symbol(m.Cursor)

	result := m.Micro.Step(m.State, sym, m.Width, m.Direction)

	if result.ExitState == NOHALT {
		m.State = NOHALT
		return StepOutcome{
			DeltaMicro: big.NewInt(result.Steps),
			DeltaMacro: big.NewInt(0),
			StepMicro:  result.Steps,
		}
	}

	if result.ExitState == HALT {
		return m.finishAtHalt(result)
	}

	if result.ExitState == m.State && result.ExitDir == m.Direction {
		return m.jump(result)
	}

	return m.singleStep(result)
}

// jump handles the case where the micro-machine's behavior replays
// identically across every copy of the current span's symbol: the
// cursor tunnels across the whole span in one arithmetic move. A jump
// from a sentinel would walk the infinite blank region forever, so it
// reports NOHALT. Otherwise the rewritten span merges into the
// neighbor behind it (the entry side) when their symbols match, and
// the cursor lands on the neighbor ahead.
func (m *Machine) jump(result micromachine.Result) StepOutcome {
	travelDir := result.ExitDir // == m.Direction, by the jump precondition

	nbr := m.Tape.Next(m.Cursor)
	behind := m.Tape.Prev(m.Cursor)
	if travelDir == LeftEntry {
		nbr, behind = behind, nbr
	}

	if m.Tape.IsSentinel(m.Cursor) {
		m.State = NOHALT
		return StepOutcome{DeltaMicro: big.NewInt(0), DeltaMacro: big.NewInt(0)}
	}

	spanSize := new(big.Int).Set(m.Tape.Size(m.Cursor))

	m.Tape.SetSymbol(m.Cursor, result.Symbol)

	outcome := StepOutcome{
		DeltaMicro: new(big.Int).Mul(big.NewInt(result.Steps), spanSize),
		DeltaMacro: signedDelta(spanSize, travelDir),
		StepMicro:  result.Steps,
		DidJump:    true,
	}

	if m.Tape.Valid(behind) && !m.Tape.IsSentinel(behind) && m.Tape.Symbol(behind) == result.Symbol {
		_, deletedID := m.Tape.MergeAdjacent(m.Cursor, behind)
		outcome.Deleted = OptionalID{ID: deletedID, Present: true}
	}
	m.Cursor = nbr

	m.State = result.ExitState
	m.Direction = result.ExitDir

	return outcome
}

// singleStep handles every transition that is not a jump: the current
// span's symbol changed, or the head changed direction, or both. Only
// the block of the span nearest the entry edge is ever touched.
//
// A size-1 current span has no meaningful entry edge: entering from
// the left or the right lands on the same single cell. For that case
// the continuation-style merge against the neighbor behind the exit
// direction is tried even when the entry and exit directions differ,
// before falling back to a direction reversal.
func (m *Machine) singleStep(result micromachine.Result) StepOutcome {
	entryDir := m.Direction
	exitDir := result.ExitDir
	newSymbol := result.Symbol

	outcome := StepOutcome{
		DeltaMicro: big.NewInt(result.Steps),
		DeltaMacro: signedDelta(one, exitDir),
		StepMicro:  result.Steps,
	}

	indeterminate := m.Tape.Size(m.Cursor).Cmp(one) == 0

	switch {
	case exitDir == entryDir:
		m.continuation(exitDir, newSymbol, &outcome)
	case indeterminate && m.mergeIndeterminateEntry(exitDir, newSymbol, &outcome):
		// handled: the size-1 span merged into the neighbor behind
		// the exit direction, as if it had been a continuation.
	default:
		m.reversal(exitDir, newSymbol, &outcome)
	}

	m.State = result.ExitState
	m.Direction = exitDir

	return outcome
}

// mergeIndeterminateEntry handles a size-1 current span whose entry
// edge can't be distinguished from its exit edge: if the written
// symbol matches the neighbor behind the exit direction, the span
// merges into it exactly as an ordinary continuation would, and
// reports true. Otherwise it leaves the tape untouched and reports
// false so the caller falls back to a direction reversal.
func (m *Machine) mergeIndeterminateEntry(exitDir Direction, newSymbol macrosym.Symbol, outcome *StepOutcome) bool {
	t := m.Tape
	current := m.Cursor

	behind := t.Next(current)
	if exitDir == RightEntry {
		behind = t.Prev(current)
	}

	if !t.Valid(behind) || t.IsSentinel(behind) || t.Symbol(behind) != newSymbol {
		return false
	}

	outcome.Shrunk = OptionalID{ID: t.ID(current), Present: true}
	outcome.ShrunkSize = big.NewInt(0)
	outcome.Deleted = OptionalID{ID: t.ID(current), Present: true}

	t.GrowBy(behind, one)
	ahead := forward(t, current, exitDir)
	t.Erase(current)
	m.Cursor = ahead

	return true
}

// continuation carves the entry-side block of the current span out as
// its own unit, merging it into the neighbor behind the cursor when
// the symbols already match, leaving whatever remains of the span (if
// anything) as the cursor's new position.
func (m *Machine) continuation(dir Direction, newSymbol macrosym.Symbol, outcome *StepOutcome) {
	t := m.Tape
	current := m.Cursor

	behind := t.Next(current)
	if dir == RightEntry {
		behind = t.Prev(current)
	}

	merge := t.Valid(behind) && !t.IsSentinel(behind) && t.Symbol(behind) == newSymbol

	switch {
	case t.IsSentinel(current):
		if merge {
			t.GrowBy(behind, one)
		} else {
			insertBehind(t, current, dir, newSymbol)
		}
		m.Cursor = current

	case t.Size(current).Cmp(one) == 0:
		outcome.Shrunk = OptionalID{ID: t.ID(current), Present: true}
		outcome.ShrunkSize = big.NewInt(0)
		outcome.Deleted = OptionalID{ID: t.ID(current), Present: true}
		if merge {
			t.GrowBy(behind, t.Size(current))
		} else {
			insertBehind(t, current, dir, newSymbol)
		}
		ahead := forward(t, current, dir)
		t.Erase(current)
		m.Cursor = ahead

	default:
		if merge {
			t.GrowBy(behind, one)
		} else {
			insertBehind(t, current, dir, newSymbol)
		}
		t.ShrinkBy(current, one)
		outcome.Shrunk = OptionalID{ID: t.ID(current), Present: true}
		outcome.ShrunkSize = new(big.Int).Set(t.Size(current))
		m.Cursor = current
	}
}

// reversal handles a head that turns around inside the current span:
// if the newly written symbol differs from the span's own symbol, the
// touched block is split off on the exit side before the cursor moves
// past it; if it matches, nothing structural changes and the cursor
// simply advances into whatever lies in the (new) exit direction.
func (m *Machine) reversal(exitDir Direction, newSymbol macrosym.Symbol, outcome *StepOutcome) {
	t := m.Tape
	current := m.Cursor

	if newSymbol == t.Symbol(current) {
		m.Cursor = forward(t, current, exitDir)
		return
	}

	var newSpan tape.Cursor
	if exitDir == RightEntry {
		newSpan = t.InsertAfter(current, newSymbol, big.NewInt(1))
	} else {
		newSpan = t.InsertBefore(current, newSymbol, big.NewInt(1))
	}

	if !t.IsSentinel(current) {
		t.ShrinkBy(current, one)
		outcome.Shrunk = OptionalID{ID: t.ID(current), Present: true}
		outcome.ShrunkSize = new(big.Int).Set(t.Size(current))

		if t.IsEmpty(current) {
			outcome.Deleted = OptionalID{ID: t.ID(current), Present: true}
			t.Erase(current)
		}
	}

	m.Cursor = forward(t, newSpan, exitDir)
}

// finishAtHalt writes the final bit the micro-machine produced before
// halting into the tape (carving out a size-1 span if the span it
// touched held more than one copy of the symbol) and transitions to
// HALT. There is no meaningful exit direction once halted, so no
// merge against the far neighbor is attempted.
func (m *Machine) finishAtHalt(result micromachine.Result) StepOutcome {
	t := m.Tape
	current := m.Cursor
	dir := m.Direction

	outcome := StepOutcome{
		DeltaMicro: big.NewInt(result.Steps),
		DeltaMacro: big.NewInt(0),
		StepMicro:  result.Steps,
	}

	switch {
	case t.IsSentinel(current):
		insertBehind(t, current, dir, result.Symbol)
	case t.Size(current).Cmp(one) == 0:
		t.SetSymbol(current, result.Symbol)
	default:
		insertBehind(t, current, dir, result.Symbol)
		t.ShrinkBy(current, one)
		outcome.Shrunk = OptionalID{ID: t.ID(current), Present: true}
	}

	m.State = HALT

	return outcome
}

// insertBehind places a new size-1 span carrying symbol on the side of
// current that is behind the direction of travel: before current when
// moving right, after it when moving left.
func insertBehind(t *tape.Tape, current tape.Cursor, dir Direction, symbol macrosym.Symbol) tape.Cursor {
	if dir == RightEntry {
		return t.InsertBefore(current, symbol, big.NewInt(1))
	}
	return t.InsertAfter(current, symbol, big.NewInt(1))
}

// forward returns the span that lies ahead of current in the given
// direction of travel, or current itself if current is the sentinel at
// the end being moved toward (the blank region beyond it is its own
// neighbor). Moving inward from a sentinel reaches the adjacent span.
func forward(t *tape.Tape, current tape.Cursor, dir Direction) tape.Cursor {
	if dir == RightEntry {
		if current == t.Last() {
			return current
		}
		return t.Next(current)
	}
	if current == t.First() {
		return current
	}
	return t.Prev(current)
}

func signedDelta(magnitude *big.Int, dir Direction) *big.Int {
	if dir == LeftEntry {
		return new(big.Int).Neg(magnitude)
	}
	return new(big.Int).Set(magnitude)
}
