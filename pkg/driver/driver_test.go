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

package driver_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/bbprove/pkg/driver"
	"github.com/lassandro/bbprove/pkg/ruletable"
	"github.com/lassandro/bbprove/pkg/ruletext"
)

// bb2Table builds the standard 2-state busy beaver: A0->1RB, A1->1LB,
// B0->1LA, B1->1RH, expected to write 4 ones in 6 steps.
func bb2Table(t *testing.T) *ruletable.Table {
	tbl, err := ruletable.New(2)
	require.NoError(t, err)
	require.NoError(t, tbl.Set(0, 0, ruletable.Rule{Next: 1, Symbol: 1, MoveRight: true}))
	require.NoError(t, tbl.Set(0, 1, ruletable.Rule{Next: 1, Symbol: 1, MoveRight: false}))
	require.NoError(t, tbl.Set(1, 0, ruletable.Rule{Next: 0, Symbol: 1, MoveRight: false}))
	require.NoError(t, tbl.Set(1, 1, ruletable.Rule{Next: ruletable.HALT, Symbol: 1, MoveRight: true}))
	return tbl
}

// neverHaltsTable grows a single block forever: A0->1RB, B0->1RA, with
// the "on 1" rules left undefined since the cursor never lands on a
// written symbol in this trace.
func neverHaltsTable(t *testing.T) *ruletable.Table {
	tbl, err := ruletable.New(2)
	require.NoError(t, err)
	require.NoError(t, tbl.Set(0, 0, ruletable.Rule{Next: 1, Symbol: 1, MoveRight: true}))
	require.NoError(t, tbl.Set(1, 0, ruletable.Rule{Next: 0, Symbol: 1, MoveRight: true}))
	return tbl
}

// parseTable is a small helper so the busy-beaver candidates below can
// be written in the same whitespace-triple notation they're usually
// quoted in, instead of a Set call per cell.
func parseTable(t *testing.T, text string) *ruletable.Table {
	tbl, err := ruletext.Parse(strings.Fields(text))
	require.NoError(t, err)
	return tbl
}

// bb3Table is the standard 3-state busy beaver champion: 6 ones in 14
// steps.
func bb3Table(t *testing.T) *ruletable.Table {
	return parseTable(t, "B1R H1R  C0R B1R  C1L A1L")
}

// bb4Table is the standard 4-state busy beaver champion: 13 ones in
// 107 steps.
func bb4Table(t *testing.T) *ruletable.Table {
	return parseTable(t, "B1R B1L  A1L C0L  H1R D1L  D1R A0R")
}

// bb5Table is the standard 5-state busy beaver champion: 4098 ones in
// 47,176,870 steps. Only the pattern-extrapolation path makes this
// table's full run tractable; reaching HALT here exercises replay,
// confirmation, and batch application together, not just one macro
// step at a time.
func bb5Table(t *testing.T) *ruletable.Table {
	return parseTable(t, "B1R C1L  C1R B1R  D1R E0L  A1L D1L  H1R A0L")
}

// nonShrinkingTable never halts: its spans only ever grow, so the
// proof machine must confirm a non-shrinking pattern and report
// NOHALT rather than run forever.
func nonShrinkingTable(t *testing.T) *ruletable.Table {
	return parseTable(t, "B1L A1R  C0R B1L  H1L A1R")
}

func TestRunBB2Halts(t *testing.T) {
	result, err := driver.Run(bb2Table(t), 1, driver.Config{})

	require.NoError(t, err)
	assert.Equal(t, ruletable.HALT, result.FinalState)
	assert.Equal(t, big.NewInt(4), result.NumOnes)
	assert.Equal(t, big.NewInt(6), result.NumSteps)
}

func TestRunInvalidMacroNBitsReturnsConfigError(t *testing.T) {
	tbl := bb2Table(t)

	_, err := driver.Run(tbl, 0, driver.Config{})
	assert.Error(t, err)

	_, err = driver.Run(tbl, 61, driver.Config{})
	assert.Error(t, err)
}

func TestRunSpanBudgetYieldsIncomplete(t *testing.T) {
	result, err := driver.Run(neverHaltsTable(t), 1, driver.Config{MaxSpans: 1})

	require.NoError(t, err)
	assert.Equal(t, ruletable.INCOMPLETE, result.FinalState)
	assert.Equal(t, big.NewInt(-1), result.NumOnes)
}

func TestRunReporterCalledOnCadence(t *testing.T) {
	var calls []driver.Progress

	_, err := driver.Run(bb2Table(t), 1, driver.Config{
		Every: 1,
		Reporter: func(p driver.Progress) {
			calls = append(calls, p)
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, calls)
}

// haltScenario is one row of the busy-beaver end-to-end table: a rule
// table, the macro-nbit widths it must be run at, and the result every
// one of those widths is expected to reproduce exactly.
type haltScenario struct {
	Name       string
	Table      func(*testing.T) *ruletable.Table
	MacroNBits []int
	NumOnes    int64
	NumSteps   int64
}

// TestRunHaltersAgreeAcrossMacroNBits runs the ordinary-halter busy
// beaver champions at several different macro-symbol widths and checks
// that every width reproduces the same (num-ones, num-steps, HALT)
// result, matching the invariant that macro-nbit only changes how fast
// a run reaches its answer, never the answer itself.
func TestRunHaltersAgreeAcrossMacroNBits(t *testing.T) {
	scenarios := []haltScenario{
		{"BB2", bb2Table, []int{1, 2, 3, 5, 10, 20, 60}, 4, 6},
		{"BB3", bb3Table, []int{1, 2, 3, 5, 10, 20, 60}, 6, 14},
		{"BB4", bb4Table, []int{1, 2, 3, 5, 10, 20, 60}, 13, 107},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			for _, nbits := range scenario.MacroNBits {
				result, err := driver.Run(scenario.Table(t), nbits, driver.Config{})

				require.NoError(t, err)
				assert.Equal(t, ruletable.HALT, result.FinalState, "macro-nbit=%d", nbits)
				assert.Equal(t, big.NewInt(scenario.NumOnes), result.NumOnes, "macro-nbit=%d", nbits)
				assert.Equal(t, big.NewInt(scenario.NumSteps), result.NumSteps, "macro-nbit=%d", nbits)
			}
		})
	}
}

// TestRunBB5HaltsViaExtrapolation drives the 5-state busy beaver
// champion to completion. Its 47 million steps are only reachable
// through the pattern-extrapolation path: this is the one end-to-end
// test that actually exercises replay, confirmation, and batch
// application together on the way to a real HALT.
func TestRunBB5HaltsViaExtrapolation(t *testing.T) {
	result, err := driver.Run(bb5Table(t), 6, driver.Config{})

	require.NoError(t, err)
	assert.Equal(t, ruletable.HALT, result.FinalState)
	assert.Equal(t, big.NewInt(4098), result.NumOnes)
	assert.Equal(t, big.NewInt(47176870), result.NumSteps)
}

// TestRunNonShrinkingPatternYieldsNohalt drives a table whose only
// reachable behavior is an ever-growing span to NOHALT, confirming the
// non-shrinking-pattern path reports through Run exactly like HALT and
// INCOMPLETE do: no error, just a terminal Result.
func TestRunNonShrinkingPatternYieldsNohalt(t *testing.T) {
	result, err := driver.Run(nonShrinkingTable(t), 3, driver.Config{})

	require.NoError(t, err)
	assert.Equal(t, ruletable.NOHALT, result.FinalState)
	assert.Equal(t, big.NewInt(-1), result.NumOnes)
	assert.Equal(t, big.NewInt(155), result.NumSteps)
}
