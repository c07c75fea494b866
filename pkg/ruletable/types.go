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

import "fmt"

// State identifies a control state: 0..MaxStates-1 are ordinary states,
// plus the three terminal pseudo-states below.
type State int

const (
	HALT       State = -1
	NOHALT     State = -2
	INCOMPLETE State = -3
)

// MaxStates is the largest number of ordinary states this package
// supports.
const MaxStates = 6

func (s State) String() string {
	switch s {
	case HALT:
		return "HALT"
	case NOHALT:
		return "NOHALT"
	case INCOMPLETE:
		return "INCOMPLETE"
	}

	if s < 0 || int(s) >= MaxStates {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return string(rune('A' + int(s)))
}

// Terminal reports whether s is one of HALT, NOHALT, or INCOMPLETE.
func (s State) Terminal() bool {
	return s == HALT || s == NOHALT || s == INCOMPLETE
}

// Rule is the transition a rule table returns for one (state, symbol)
// lookup: write Symbol, move right if MoveRight, then enter Next.
type Rule struct {
	Next      State
	Symbol    byte
	MoveRight bool
}

// Table is a (state, symbol) -> Rule lookup, holding up to MaxStates*2
// entries, each installed with Set. The zero value is not usable; build
// one with New.
type Table struct {
	rules   [MaxStates][2]Rule
	defined [MaxStates][2]bool
	states  int
}

// ConfigError reports an out-of-range construction parameter.
type ConfigError struct {
	Field    string
	Value    int
	Min, Max int
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf(
		"ruletable: %s out of range: got %d, want [%d, %d]",
		err.Field, err.Value, err.Min, err.Max,
	)
}
