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

// Package ruletext converts between a ruletable.Table and its text
// form: whitespace-separated triples of three characters each, one
// triple per (state, symbol) pair in order (A0, A1, B0, B1, ...). Each
// triple carries, in any order, one symbol character ('0'/'1'), one
// direction character ('L'/'R'), and one next-state character
// ('A'-'F' or 'H'), case-insensitively.
package ruletext

import "fmt"

// InvalidLengthError reports a token that isn't exactly three
// characters long.
type InvalidLengthError struct {
	Index int
	Token string
}

func (err *InvalidLengthError) GetIndex() int { return err.Index }

func (err *InvalidLengthError) Error() string {
	return fmt.Sprintf(
		"ruletext: triple %d (%q): expected 3 characters, got %d",
		err.Index, err.Token, len(err.Token),
	)
}

// InvalidCharError reports a character that belongs to none of the
// three triple categories (symbol, direction, next-state).
type InvalidCharError struct {
	Index int
	Token string
	Char  byte
}

func (err *InvalidCharError) GetIndex() int { return err.Index }

func (err *InvalidCharError) Error() string {
	return fmt.Sprintf(
		"ruletext: triple %d (%q): invalid character %q",
		err.Index, err.Token, err.Char,
	)
}

// IncompleteTripleError reports a triple that doesn't carry exactly
// one character from each of the three categories: either one is
// missing, or two characters landed in the same category.
type IncompleteTripleError struct {
	Index int
	Token string
}

func (err *IncompleteTripleError) GetIndex() int { return err.Index }

func (err *IncompleteTripleError) Error() string {
	return fmt.Sprintf(
		"ruletext: triple %d (%q): must carry exactly one symbol, one direction, and one next-state character",
		err.Index, err.Token,
	)
}

// OddTokenCountError reports a token list whose length isn't a
// multiple of two: every state contributes exactly two triples (its
// symbol-0 and symbol-1 rules), so an odd count can never name a
// complete table.
type OddTokenCountError struct {
	Count int
}

func (err *OddTokenCountError) Error() string {
	return fmt.Sprintf(
		"ruletext: %d triples is not a multiple of 2 (one pair per state)",
		err.Count,
	)
}

// TooManyStatesError reports a token list implying more states than
// ruletable supports.
type TooManyStatesError struct {
	NumStates int
	Max       int
}

func (err *TooManyStatesError) Error() string {
	return fmt.Sprintf(
		"ruletext: %d triples imply %d states, exceeds limit of %d",
		err.NumStates*2, err.NumStates, err.Max,
	)
}

// UndefinedCellError reports that Format was asked to render a table
// with a (state, symbol) cell that was never Set.
type UndefinedCellError struct {
	State  int
	Symbol byte
}

func (err *UndefinedCellError) Error() string {
	return fmt.Sprintf(
		"ruletext: cell (state=%d, symbol=%d) was never set",
		err.State, err.Symbol,
	)
}
