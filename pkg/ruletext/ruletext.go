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

package ruletext

import (
	"unicode"

	"github.com/lassandro/bbprove/pkg/ruletable"
)

// Parse reads a sequence of triples and builds the Table they name.
// len(tokens) must be even: tokens[2*s] and tokens[2*s+1] are state s's
// symbol-0 and symbol-1 rules respectively.
func Parse(tokens []string) (*ruletable.Table, error) {
	if len(tokens)%2 != 0 {
		return nil, &OddTokenCountError{Count: len(tokens)}
	}

	numStates := len(tokens) / 2
	if numStates > ruletable.MaxStates {
		return nil, &TooManyStatesError{NumStates: numStates, Max: ruletable.MaxStates}
	}

	tbl, err := ruletable.New(numStates)
	if err != nil {
		return nil, err
	}

	for i, token := range tokens {
		rule, err := parseTriple(i, token)
		if err != nil {
			return nil, err
		}

		state := i / 2
		symbol := byte(i % 2)

		if err := tbl.Set(state, symbol, rule); err != nil {
			return nil, err
		}
	}

	return tbl, nil
}

// parseTriple classifies token's three characters into the rule's
// symbol, direction, and next-state fields, in whatever order they
// appear.
func parseTriple(index int, token string) (ruletable.Rule, error) {
	if len(token) != 3 {
		return ruletable.Rule{}, &InvalidLengthError{Index: index, Token: token}
	}

	var rule ruletable.Rule
	var haveSymbol, haveDirection, haveState bool

	for _, r := range token {
		c := byte(unicode.ToUpper(r))

		switch {
		case c == '0' || c == '1':
			if haveSymbol {
				return ruletable.Rule{}, &IncompleteTripleError{Index: index, Token: token}
			}
			rule.Symbol = c - '0'
			haveSymbol = true

		case c == 'L' || c == 'R':
			if haveDirection {
				return ruletable.Rule{}, &IncompleteTripleError{Index: index, Token: token}
			}
			rule.MoveRight = c == 'R'
			haveDirection = true

		case c == 'H':
			if haveState {
				return ruletable.Rule{}, &IncompleteTripleError{Index: index, Token: token}
			}
			rule.Next = ruletable.HALT
			haveState = true

		case c >= 'A' && c <= 'F':
			if haveState {
				return ruletable.Rule{}, &IncompleteTripleError{Index: index, Token: token}
			}
			rule.Next = ruletable.State(c - 'A')
			haveState = true

		default:
			return ruletable.Rule{}, &InvalidCharError{Index: index, Token: token, Char: byte(r)}
		}
	}

	if !haveSymbol || !haveDirection || !haveState {
		return ruletable.Rule{}, &IncompleteTripleError{Index: index, Token: token}
	}

	return rule, nil
}

// Format renders tbl back into the same triple notation Parse reads,
// one pair of triples per state in order. It fails if any cell of tbl
// was never Set, since there would be nothing correct to print for it.
func Format(tbl *ruletable.Table) ([]string, error) {
	tokens := make([]string, 0, tbl.NumStates()*2)

	for state := 0; state < tbl.NumStates(); state++ {
		for symbol := byte(0); symbol < 2; symbol++ {
			if !tbl.Defined(state, symbol) {
				return nil, &UndefinedCellError{State: state, Symbol: symbol}
			}

			rule := tbl.Lookup(ruletable.State(state), symbol)
			tokens = append(tokens, formatTriple(rule))
		}
	}

	return tokens, nil
}

func formatTriple(rule ruletable.Rule) string {
	var stateChar byte
	if rule.Next == ruletable.HALT {
		stateChar = 'H'
	} else {
		stateChar = byte('A' + int(rule.Next))
	}

	dirChar := byte('L')
	if rule.MoveRight {
		dirChar = 'R'
	}

	return string([]byte{stateChar, '0' + rule.Symbol, dirChar})
}
