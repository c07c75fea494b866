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

package ruletable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/bbprove/pkg/ruletable"
)

func TestNewRejectsOutOfRange(t *testing.T) {
	cases := []int{-1, 0, 7, 100}

	for _, n := range cases {
		_, err := ruletable.New(n)
		assert.Error(t, err, "numStates=%d", n)
	}
}

func TestNewAccepts(t *testing.T) {
	for n := 1; n <= ruletable.MaxStates; n++ {
		tbl, err := ruletable.New(n)
		require.NoError(t, err)
		assert.Equal(t, n, tbl.NumStates())
	}
}

func TestSetAndLookup(t *testing.T) {
	tbl, err := ruletable.New(2)
	require.NoError(t, err)

	require.NoError(t, tbl.Set(0, 0, ruletable.Rule{Next: 1, Symbol: 1, MoveRight: true}))
	require.NoError(t, tbl.Set(0, 1, ruletable.Rule{Next: 1, Symbol: 1, MoveRight: false}))
	require.NoError(t, tbl.Set(1, 0, ruletable.Rule{Next: 0, Symbol: 1, MoveRight: false}))
	require.NoError(t, tbl.Set(1, 1, ruletable.Rule{Next: ruletable.HALT, Symbol: 1, MoveRight: true}))

	got := tbl.Lookup(ruletable.State(0), 0)
	assert.Equal(t, ruletable.Rule{Next: 1, Symbol: 1, MoveRight: true}, got)

	got = tbl.Lookup(ruletable.State(1), 1)
	assert.Equal(t, ruletable.HALT, got.Next)
}

func TestSetRejectsOutOfRange(t *testing.T) {
	tbl, err := ruletable.New(3)
	require.NoError(t, err)

	assert.Error(t, tbl.Set(-1, 0, ruletable.Rule{}))
	assert.Error(t, tbl.Set(3, 0, ruletable.Rule{}))
	assert.Error(t, tbl.Set(0, 2, ruletable.Rule{}))
}

func TestDefined(t *testing.T) {
	tbl, err := ruletable.New(1)
	require.NoError(t, err)

	assert.False(t, tbl.Defined(0, 0))
	require.NoError(t, tbl.Set(0, 0, ruletable.Rule{Next: ruletable.HALT}))
	assert.True(t, tbl.Defined(0, 0))
	assert.False(t, tbl.Defined(0, 1))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "A", ruletable.State(0).String())
	assert.Equal(t, "F", ruletable.State(5).String())
	assert.Equal(t, "HALT", ruletable.HALT.String())
	assert.Equal(t, "NOHALT", ruletable.NOHALT.String())
	assert.Equal(t, "INCOMPLETE", ruletable.INCOMPLETE.String())
}

func TestTerminal(t *testing.T) {
	assert.False(t, ruletable.State(0).Terminal())
	assert.True(t, ruletable.HALT.Terminal())
	assert.True(t, ruletable.NOHALT.Terminal())
	assert.True(t, ruletable.INCOMPLETE.Terminal())
}
