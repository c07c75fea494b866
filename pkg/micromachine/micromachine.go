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

// Package micromachine simulates ordinary Turing-machine transitions
// confined to a single macro-symbol-width window, memoizing the result
// of each (entry state, symbol, entry direction) triple it has already
// resolved.
package micromachine

import "github.com/lassandro/bbprove/pkg/macrosym"

// Machine walks a rule table bit-by-bit inside fixed-width blocks. Its
// cache is the single largest memory consumer in a run and is allowed
// to grow unboundedly; it is coherent only for the rule table it was
// built with.
type Machine struct {
	table ruleLookup
	cache map[memoKey]Result
}

// ruleLookup is the subset of ruletable.Table the micro-machine needs.
// Keeping it as an interface (rather than importing *ruletable.Table
// directly into the hot-path type) lets tests drive the walk with a
// table built by hand without round-tripping through ruletext.
type ruleLookup interface {
	Lookup(state State, symbol byte) Rule
}

// New builds a Machine over the given rule table. The cache starts
// empty and is rebuilt as lookups are performed.
func New(table ruleLookup) *Machine {
	return &Machine{table: table, cache: make(map[memoKey]Result)}
}

// Step simulates transitions inside a width-wide block starting from
// sym, entering at entryDir with the head in entryState, until the head
// leaves the block, the machine halts, or a bit-level cycle is
// detected (in which case ExitState is NOHALT).
func (m *Machine) Step(entryState State, sym macrosym.Symbol, width int, entryDir Direction) Result {
	key := memoKey{state: entryState, sym: sym, dir: entryDir, width: width}

	if result, ok := m.cache[key]; ok {
		return result
	}

	result := m.simulate(entryState, sym, width, entryDir)
	m.cache[key] = result

	return result
}

// CacheLen reports the number of memoized (state, symbol, direction,
// width) triples resolved so far, for diagnostics.
func (m *Machine) CacheLen() int {
	return len(m.cache)
}

func (m *Machine) simulate(entryState State, sym macrosym.Symbol, width int, entryDir Direction) Result {
	pos := 0
	if entryDir == LeftEntry {
		pos = width - 1
	}

	state := entryState
	win := macrosym.NewWindow(sym, width)
	visited := make(map[cycleKey]bool)
	var steps int64

	for {
		if state == HALT {
			return Result{ExitState: state, Symbol: win.Symbol(), Steps: steps}
		}

		if pos < 0 {
			return Result{ExitState: state, Symbol: win.Symbol(), ExitDir: LeftEntry, Steps: steps}
		}

		if pos >= width {
			return Result{ExitState: state, Symbol: win.Symbol(), ExitDir: RightEntry, Steps: steps}
		}

		ck := cycleKey{pos: pos, bits: win.Symbol(), state: state}
		if visited[ck] {
			return Result{ExitState: NOHALT, Symbol: win.Symbol(), Steps: steps}
		}
		visited[ck] = true

		bit := win.Get(pos)
		rule := m.table.Lookup(state, bit)

		win.Set(pos, rule.Symbol)
		state = rule.Next

		if rule.MoveRight {
			pos++
		} else {
			pos--
		}

		steps++
	}
}
