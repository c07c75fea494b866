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

package tape_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/bbprove/pkg/macrosym"
	"github.com/lassandro/bbprove/pkg/tape"
)

func TestNewHasTwoSentinels(t *testing.T) {
	tp := tape.New()

	assert.Equal(t, 0, tp.SpanCount())
	assert.True(t, tp.IsSentinel(tp.First()))
	assert.True(t, tp.IsSentinel(tp.Last()))
	assert.Equal(t, macrosym.Symbol(0), tp.Symbol(tp.First()))
	assert.Equal(t, macrosym.Symbol(0), tp.Symbol(tp.Last()))
	assert.Equal(t, 0, tp.Size(tp.First()).Sign())
	assert.Equal(t, 0, tp.Size(tp.Last()).Sign())
}

func TestInsertBetweenSentinels(t *testing.T) {
	tp := tape.New()

	c := tp.InsertAfter(tp.First(), macrosym.Symbol(1), big.NewInt(5))

	assert.Equal(t, 1, tp.SpanCount())
	assert.Equal(t, c, tp.Next(tp.First()))
	assert.Equal(t, c, tp.Prev(tp.Last()))
	assert.Equal(t, macrosym.Symbol(1), tp.Symbol(c))
	assert.Equal(t, big.NewInt(5), tp.Size(c))
}

func TestSpansIncludesSentinels(t *testing.T) {
	tp := tape.New()

	a := tp.InsertAfter(tp.First(), macrosym.Symbol(1), big.NewInt(1))
	tp.InsertAfter(a, macrosym.Symbol(2), big.NewInt(1))

	spans := tp.Spans()
	require.Len(t, spans, 4)
	assert.Equal(t, tp.First(), spans[0])
	assert.Equal(t, tp.Last(), spans[3])
}

func TestIDsAreMonotonicAndNeverReused(t *testing.T) {
	tp := tape.New()

	leftID, rightID := tp.ID(tp.First()), tp.ID(tp.Last())
	assert.Less(t, leftID, rightID)

	a := tp.InsertAfter(tp.First(), macrosym.Symbol(0), big.NewInt(1))
	b := tp.InsertAfter(a, macrosym.Symbol(0), big.NewInt(1))

	assert.Less(t, tp.ID(a), tp.ID(b))

	seenIDs := map[int64]bool{tp.ID(a): true, tp.ID(b): true}

	tp.Erase(a)

	c := tp.InsertAfter(tp.First(), macrosym.Symbol(0), big.NewInt(1))
	assert.False(t, seenIDs[tp.ID(c)], "a freed slot must not reuse its old id")
	assert.Greater(t, tp.ID(c), tp.ID(b))
}

func TestEraseRelinksNeighbors(t *testing.T) {
	tp := tape.New()

	a := tp.InsertAfter(tp.First(), macrosym.Symbol(1), big.NewInt(1))
	b := tp.InsertAfter(a, macrosym.Symbol(2), big.NewInt(1))
	c := tp.InsertAfter(b, macrosym.Symbol(3), big.NewInt(1))

	tp.Erase(b)

	assert.Equal(t, c, tp.Next(a))
	assert.Equal(t, a, tp.Prev(c))
	assert.Equal(t, 2, tp.SpanCount())
}

func TestEraseSentinelPanics(t *testing.T) {
	tp := tape.New()
	assert.Panics(t, func() { tp.Erase(tp.First()) })
}

func TestGrowAndShrink(t *testing.T) {
	tp := tape.New()
	c := tp.InsertAfter(tp.First(), macrosym.Symbol(1), big.NewInt(10))

	tp.GrowBy(c, big.NewInt(5))
	assert.Equal(t, big.NewInt(15), tp.Size(c))

	tp.ShrinkBy(c, big.NewInt(15))
	assert.True(t, tp.IsEmpty(c))
}

func TestMergeAdjacentKeepsOlderID(t *testing.T) {
	tp := tape.New()

	a := tp.InsertAfter(tp.First(), macrosym.Symbol(1), big.NewInt(3))
	b := tp.InsertAfter(a, macrosym.Symbol(1), big.NewInt(4))

	require.Less(t, tp.ID(a), tp.ID(b))
	bID := tp.ID(b)

	survivor, deletedID := tp.MergeAdjacent(a, b)

	assert.Equal(t, a, survivor)
	assert.Equal(t, bID, deletedID)
	assert.Equal(t, big.NewInt(7), tp.Size(survivor))
	assert.False(t, tp.Valid(b))
}

func TestNextPrevOffEndsAreInvalid(t *testing.T) {
	tp := tape.New()

	assert.False(t, tp.Valid(tp.Next(tp.Last())))
	assert.False(t, tp.Valid(tp.Prev(tp.First())))
}

func TestInsertBeforeLeftSentinelPanics(t *testing.T) {
	tp := tape.New()
	assert.Panics(t, func() {
		tp.InsertBefore(tp.First(), macrosym.Symbol(0), big.NewInt(1))
	})
}

func TestSetSymbolOnSentinelPanics(t *testing.T) {
	tp := tape.New()
	assert.Panics(t, func() {
		tp.SetSymbol(tp.First(), macrosym.Symbol(1))
	})
}
