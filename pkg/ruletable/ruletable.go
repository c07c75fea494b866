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

package ruletable

// New builds a Table with room for numStates ordinary states
// (1..MaxStates). Entries are filled in with Set after construction;
// a Table with unset entries still answers Lookup, returning the zero
// Rule (Next == 0, i.e. state A) for any entry never written; callers
// that build from a complete rule-table text always fill every cell
// before the table is used.
func New(numStates int) (*Table, error) {
	if numStates < 1 || numStates > MaxStates {
		return nil, &ConfigError{
			Field: "numStates", Value: numStates, Min: 1, Max: MaxStates,
		}
	}

	return &Table{states: numStates}, nil
}

// NumStates reports how many ordinary states this table was built with.
func (t *Table) NumStates() int {
	return t.states
}

// Set installs the transition for (state, symbol). state must be in
// [0, NumStates) and symbol must be 0 or 1.
func (t *Table) Set(state int, symbol byte, rule Rule) error {
	if state < 0 || state >= t.states {
		return &ConfigError{Field: "state", Value: state, Min: 0, Max: t.states - 1}
	}

	if symbol > 1 {
		return &ConfigError{Field: "symbol", Value: int(symbol), Min: 0, Max: 1}
	}

	t.rules[state][symbol] = rule
	t.defined[state][symbol] = true

	return nil
}

// Lookup returns the Rule for (state, symbol). state must be an
// ordinary, non-terminal state in [0, NumStates); callers never look up
// a terminal state, since the machine stops stepping once it enters one.
func (t *Table) Lookup(state State, symbol byte) Rule {
	return t.rules[int(state)][symbol&1]
}

// Defined reports whether (state, symbol) was ever Set; used by
// ruletext.Format to refuse a table that leaves a cell unset.
func (t *Table) Defined(state int, symbol byte) bool {
	return t.defined[state][symbol&1]
}
