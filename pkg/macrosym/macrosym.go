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

// Package macrosym defines the macro symbol: a block of up to MaxWidth
// bits of tape treated as a single alphabet letter by the macro-machine.
// Bit 0 is the leftmost offset within the block; bit width-1 is the
// rightmost, matching the direction conventions the micro-machine relies
// on (a right-entering walk starts at offset 0, a left-entering walk at
// offset width-1).
package macrosym

import "github.com/bits-and-blooms/bitset"

// MaxWidth is the largest supported macro-symbol width: one Symbol's
// worth of bits fits in a uint64.
const MaxWidth = 60

// Symbol is a packed bit vector of up to MaxWidth bits.
type Symbol uint64

// Bit reads the bit at logical offset i (0 = leftmost) within a block
// of the given width.
func (s Symbol) Bit(i, width int) byte {
	return byte((s >> uint(width-1-i)) & 1)
}

// WithBit returns a copy of s with the bit at logical offset i set to v.
func (s Symbol) WithBit(i, width int, v byte) Symbol {
	shift := uint(width - 1 - i)

	if v&1 == 1 {
		return s | (1 << shift)
	}

	return s &^ (1 << shift)
}

// PopCount returns the number of set bits within the given width.
func (s Symbol) PopCount(width int) int {
	count := 0

	for i := 0; i < width; i++ {
		if s.Bit(i, width) == 1 {
			count++
		}
	}

	return count
}

// Window is a mutable scratch copy of a Symbol's bits, used by the
// micro-machine while it walks a single block. A bitset.BitSet backs
// it instead of a hand-rolled mask so the walk reads as named
// operations (Test/Set/Clear) rather than shift-and-mask arithmetic.
type Window struct {
	bits  *bitset.BitSet
	width int
}

// NewWindow loads sym into a Window of the given width.
func NewWindow(sym Symbol, width int) *Window {
	w := &Window{bits: bitset.New(uint(width)), width: width}

	for i := 0; i < width; i++ {
		if sym.Bit(i, width) == 1 {
			w.bits.Set(uint(i))
		}
	}

	return w
}

// Get reads the bit at offset i.
func (w *Window) Get(i int) byte {
	if w.bits.Test(uint(i)) {
		return 1
	}

	return 0
}

// Set writes the bit at offset i.
func (w *Window) Set(i int, v byte) {
	if v&1 == 1 {
		w.bits.Set(uint(i))
	} else {
		w.bits.Clear(uint(i))
	}
}

// Symbol packs the window's bits back into a Symbol.
func (w *Window) Symbol() Symbol {
	var sym Symbol

	for i := 0; i < w.width; i++ {
		sym = sym.WithBit(i, w.width, w.Get(i))
	}

	return sym
}
