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

// Package tape implements the run-length-encoded tape: a doubly linked
// sequence of spans backed by a contiguous arena with a free-list, so
// splice/erase at a cursor is O(1) and carries no per-node allocation.
package tape

import (
	"math/big"

	"github.com/lassandro/bbprove/pkg/macrosym"
)

// Cursor is a stable handle to one span. It stays valid across any
// modification to spans other than the one it names, for as long as
// the owning Tape is not itself replaced (i.e. never, in this package:
// there is no whole-tape move operation).
type Cursor int

// invalid marks a cursor that fell off either end of the tape.
const invalid Cursor = -1

// root is the arena's anchor slot: not a span a caller ever sees, just
// the circular list's fixed point. Index 0 is reserved for it, the
// conventional sentinel slot for an intrusive circular list.
const root Cursor = 0

type node struct {
	inUse      bool
	prev, next Cursor
	symbol     macrosym.Symbol
	size       *big.Int
	id         int64
}

// Tape is the owning arena. The zero value is not usable; use New.
type Tape struct {
	nodes  []node
	free   []Cursor
	nextID int64

	left, right Cursor
}
