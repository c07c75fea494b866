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

package tape

import (
	"math/big"

	"github.com/lassandro/bbprove/pkg/macrosym"
)

// New returns an empty tape: just the two zero-symbol, zero-size
// sentinels, with the root anchor linking them into a circle.
func New() *Tape {
	t := &Tape{nodes: make([]node, 1)}
	t.nodes[root] = node{inUse: true, prev: root, next: root}

	t.left = t.alloc(macrosym.Symbol(0), big.NewInt(0))
	t.spliceAfter(root, t.left)

	t.right = t.alloc(macrosym.Symbol(0), big.NewInt(0))
	t.spliceAfter(t.left, t.right)

	return t
}

// alloc reserves a slot (reusing a freed one if available) and assigns
// it the next monotonic span id. The node starts detached from the
// list; callers splice it in immediately after allocating.
func (t *Tape) alloc(symbol macrosym.Symbol, size *big.Int) Cursor {
	id := t.nextID
	t.nextID++

	n := node{inUse: true, symbol: symbol, size: size, id: id}

	if len(t.free) > 0 {
		idx := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[idx] = n
		return idx
	}

	t.nodes = append(t.nodes, n)
	return Cursor(len(t.nodes) - 1)
}

// spliceAfter links c into the list immediately after prev.
func (t *Tape) spliceAfter(prev, c Cursor) {
	next := t.nodes[prev].next

	t.nodes[c].prev = prev
	t.nodes[c].next = next
	t.nodes[prev].next = c
	t.nodes[next].prev = c
}

// unlink removes c from the list without freeing its slot.
func (t *Tape) unlink(c Cursor) {
	prev, next := t.nodes[c].prev, t.nodes[c].next
	t.nodes[prev].next = next
	t.nodes[next].prev = prev
}

// InsertBefore creates a new span with the given symbol and size
// immediately before c, returning a cursor to it. c must not be the
// left sentinel (nothing may be inserted before the left edge of the
// infinite blank region).
func (t *Tape) InsertBefore(c Cursor, symbol macrosym.Symbol, size *big.Int) Cursor {
	if c == t.left {
		panic("tape: attempted to insert before the left sentinel")
	}

	nc := t.alloc(symbol, size)
	t.spliceAfter(t.nodes[c].prev, nc)
	return nc
}

// InsertAfter creates a new span with the given symbol and size
// immediately after c, returning a cursor to it. c must not be the
// right sentinel.
func (t *Tape) InsertAfter(c Cursor, symbol macrosym.Symbol, size *big.Int) Cursor {
	if c == t.right {
		panic("tape: attempted to insert after the right sentinel")
	}

	nc := t.alloc(symbol, size)
	t.spliceAfter(c, nc)
	return nc
}

// Erase removes c from the tape and returns its slot to the free list.
// c must not be a sentinel: sentinels are never modified or removed.
func (t *Tape) Erase(c Cursor) {
	if t.IsSentinel(c) {
		panic("tape: attempted to erase a sentinel span")
	}

	t.unlink(c)
	t.nodes[c] = node{}
	t.free = append(t.free, c)
}

// First returns the left sentinel.
func (t *Tape) First() Cursor {
	return t.left
}

// Last returns the right sentinel.
func (t *Tape) Last() Cursor {
	return t.right
}

// Next returns the span after c, or invalid if c is the right
// sentinel.
func (t *Tape) Next(c Cursor) Cursor {
	n := t.nodes[c].next
	if n == root {
		return invalid
	}
	return n
}

// Prev returns the span before c, or invalid if c is the left
// sentinel.
func (t *Tape) Prev(c Cursor) Cursor {
	p := t.nodes[c].prev
	if p == root {
		return invalid
	}
	return p
}

// Valid reports whether c names a live span.
func (t *Tape) Valid(c Cursor) bool {
	return c != invalid && c != root && int(c) < len(t.nodes) && t.nodes[c].inUse
}

// IsSentinel reports whether c is one of the two fixed blank-region
// sentinels.
func (t *Tape) IsSentinel(c Cursor) bool {
	return c == t.left || c == t.right
}

// Symbol returns c's macro symbol.
func (t *Tape) Symbol(c Cursor) macrosym.Symbol {
	return t.nodes[c].symbol
}

// SetSymbol overwrites c's macro symbol. Sentinels may not be
// modified.
func (t *Tape) SetSymbol(c Cursor, symbol macrosym.Symbol) {
	if t.IsSentinel(c) {
		panic("tape: attempted to modify a sentinel span")
	}
	t.nodes[c].symbol = symbol
}

// Size returns c's run length. Callers must not mutate the returned
// *big.Int directly; use GrowBy/ShrinkBy/SetSize.
func (t *Tape) Size(c Cursor) *big.Int {
	return t.nodes[c].size
}

// SetSize overwrites c's run length.
func (t *Tape) SetSize(c Cursor, size *big.Int) {
	t.nodes[c].size = size
}

// GrowBy adds delta (which must be non-negative) to c's run length.
func (t *Tape) GrowBy(c Cursor, delta *big.Int) {
	t.nodes[c].size = new(big.Int).Add(t.nodes[c].size, delta)
}

// ShrinkBy subtracts delta (which must be non-negative and at most
// c's current size) from c's run length.
func (t *Tape) ShrinkBy(c Cursor, delta *big.Int) {
	t.nodes[c].size = new(big.Int).Sub(t.nodes[c].size, delta)
}

// IsEmpty reports whether c's run length has reached zero.
func (t *Tape) IsEmpty(c Cursor) bool {
	return t.nodes[c].size.Sign() == 0
}

// ID returns c's process-unique, creation-order identity.
func (t *Tape) ID(c Cursor) int64 {
	return t.nodes[c].id
}

// SpanCount returns the number of interior (non-sentinel) spans.
func (t *Tape) SpanCount() int {
	count := 0
	for c := t.Next(t.left); c != invalid && c != t.right; c = t.Next(c) {
		count++
	}
	return count
}

// Spans returns cursors to every span on the tape in order, including
// both sentinels. Used to build the proof machine's pattern key.
func (t *Tape) Spans() []Cursor {
	spans := make([]Cursor, 0, t.SpanCount()+2)
	for c := t.left; c != invalid; c = t.Next(c) {
		spans = append(spans, c)
		if c == t.right {
			break
		}
	}
	return spans
}

// MergeAdjacent merges two neighboring spans known to carry the same
// symbol. The span with the lower (older) id survives and absorbs the
// other's size; the other is erased. It returns the surviving cursor
// and the deleted span's id.
func (t *Tape) MergeAdjacent(a, b Cursor) (survivor Cursor, deletedID int64) {
	winner, loser := a, b
	if t.nodes[b].id < t.nodes[a].id {
		winner, loser = b, a
	}

	t.GrowBy(winner, t.Size(loser))
	deletedID = t.ID(loser)
	t.Erase(loser)

	return winner, deletedID
}
