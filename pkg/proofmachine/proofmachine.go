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

package proofmachine

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/lassandro/bbprove/pkg/macromachine"
	"github.com/lassandro/bbprove/pkg/tape"
)

// counters is a point-in-time copy of the running totals, used to
// compute a Step call's own delta once it returns.
type counters struct {
	micro, macro, iters *big.Int
}

func (m *Machine) snapshot() counters {
	return counters{
		micro: new(big.Int).Set(m.NumMicroSteps),
		macro: new(big.Int).Set(m.MacroPos),
		iters: new(big.Int).Set(m.NumIters),
	}
}

func (m *Machine) deltaSince(before counters) StepOutcome {
	return StepOutcome{
		DeltaMicro:      new(big.Int).Sub(m.NumMicroSteps, before.micro),
		DeltaMacro:      new(big.Int).Sub(m.MacroPos, before.macro),
		DeltaIterations: new(big.Int).Sub(m.NumIters, before.iters),
	}
}

// Step performs one proof step: it either confirms and extrapolates a
// repeating pattern across many macro iterations, or delegates to a
// single macro-machine step while recording this observation for
// future pattern confirmation. It is a no-op once the macro-machine's
// control state is HALT, NOHALT, or INCOMPLETE.
func (m *Machine) Step() StepOutcome {
	if m.Macro.State.Terminal() {
		return StepOutcome{DeltaMicro: big.NewInt(0), DeltaMacro: big.NewInt(0), DeltaIterations: big.NewInt(0)}
	}

	before := m.snapshot()

	key := patternKey(m.Macro)
	current := newInstance(m.Macro, m.NumMicroSteps, m.MacroPos, m.NumIters)

	history := m.history[key]
	if len(history) >= PatternInstanceThreshold {
		h := history[len(history)-1]

		pattern, nohalt, confirmed := confirmPattern(h, current)
		if confirmed {
			if nohalt {
				m.Macro.State = macromachine.NOHALT
				return m.deltaSince(before)
			}

			m.stepWithPotentialPattern(pattern, current)
			m.history = make(map[PatternKey][]Instance)

			return m.deltaSince(before)
		}
	}

	m.history[key] = append(m.history[key], current)

	out := m.Macro.Step()
	m.NumMicroSteps.Add(m.NumMicroSteps, out.DeltaMicro)
	m.MacroPos.Add(m.MacroPos, out.DeltaMacro)
	m.NumIters.Add(m.NumIters, one)

	return m.deltaSince(before)
}

// patternKey computes the current macro-machine state's signature:
// control state, the ordered symbols of every span (sentinels
// included), the cursor's position among them, and direction.
func patternKey(macro *macromachine.Machine) PatternKey {
	spans := macro.Tape.Spans()

	var symbols strings.Builder
	cursorIndex := -1

	for i, c := range spans {
		if c == macro.Cursor {
			cursorIndex = i
		}
		fmt.Fprintf(&symbols, "%d|", macro.Tape.Symbol(c))
	}

	return PatternKey{
		State:       macro.State,
		CursorIndex: cursorIndex,
		MovingRight: macro.Direction == macromachine.RightEntry,
		Symbols:     symbols.String(),
	}
}

// newInstance snapshots the macro-machine's tape (every span's size
// and identity, sentinels included) alongside the running totals at
// this moment.
func newInstance(macro *macromachine.Machine, microStep, macroPos, iter *big.Int) Instance {
	spans := macro.Tape.Spans()
	snapshots := make([]SpanSnapshot, len(spans))

	for i, c := range spans {
		snapshots[i] = SpanSnapshot{
			Size: new(big.Int).Set(macro.Tape.Size(c)),
			ID:   macro.Tape.ID(c),
		}
	}

	return Instance{
		MicroStep: new(big.Int).Set(microStep),
		MacroPos:  new(big.Int).Set(macroPos),
		Iter:      new(big.Int).Set(iter),
		Spans:     snapshots,
	}
}

// confirmPattern tests whether h and current (two instances sharing a
// PatternKey) form a confirmed linear pattern: every span survived
// between the two observations (same identity, or the identity
// changed but the size didn't, meaning it can't have been erased and
// recreated in between). If confirmed, nohalt reports whether the
// pattern is non-shrinking (no span ever gets smaller, so the machine
// cannot halt by exhausting one). A pattern whose every span delta is
// zero is reported as unconfirmed: nothing changed between the two
// observations, so there is nothing to extrapolate and no basis for a
// non-halting judgment either.
func confirmPattern(h, current Instance) (pattern *Pattern, nohalt bool, confirmed bool) {
	n := len(h.Spans)

	lowerBounds := make([]*big.Int, n)
	deltas := make([]*big.Int, n)
	microSteps := make([]spanMicroSteps, n)

	anyDecreasing := false
	anyNonzero := false

	for i := 0; i < n; i++ {
		if current.Spans[i].ID != h.Spans[i].ID && current.Spans[i].Size.Cmp(h.Spans[i].Size) != 0 {
			return nil, false, false
		}

		lowerBounds[i] = new(big.Int).Set(h.Spans[i].Size)
		deltas[i] = new(big.Int).Sub(current.Spans[i].Size, h.Spans[i].Size)
		microSteps[i] = spanMicroSteps{PerSymbol: big.NewInt(0), Offset: big.NewInt(0)}

		switch deltas[i].Sign() {
		case -1:
			anyDecreasing = true
			anyNonzero = true
		case 1:
			anyNonzero = true
		}
	}

	if !anyNonzero {
		return nil, false, false
	}

	p := &Pattern{
		lowerBounds:   lowerBounds,
		deltas:        deltas,
		microSteps:    microSteps,
		NumMicroSteps: new(big.Int).Sub(current.MicroStep, h.MicroStep),
		NumMacroSteps: new(big.Int).Sub(current.MacroPos, h.MacroPos),
		NumIters:      new(big.Int).Sub(current.Iter, h.Iter),
	}

	return p, !anyDecreasing, true
}

// spanTrack is the bookkeeping kept, for the duration of one proof
// replay, for each span the pattern expects to change size.
type spanTrack struct {
	idx       int
	minSize   *big.Int
	perSymbol *big.Int
	offset    *big.Int
}

// stepWithPotentialPattern runs the macro-machine forward for exactly
// one more repetition of the pattern (pattern.NumIters macro steps),
// tightening the pattern's lower bounds against the minimum size each
// affected span reaches during that replay and harvesting each span's
// linear micro-step cost from its did-jump events. It then applies the
// tightened pattern as many times as the current (post-replay) span
// sizes provably allow.
func (m *Machine) stepWithPotentialPattern(pattern *Pattern, current Instance) *big.Int {
	tracked := make(map[int64]*spanTrack)
	for idx, delta := range pattern.deltas {
		if delta.Sign() != 0 {
			tracked[current.Spans[idx].ID] = &spanTrack{
				idx:       idx,
				minSize:   new(big.Int).Set(current.Spans[idx].Size),
				perSymbol: big.NewInt(0),
				offset:    big.NewInt(0),
			}
		}
	}

	baseMicroSteps := big.NewInt(0)

	for i := big.NewInt(0); i.Cmp(pattern.NumIters) < 0; i.Add(i, one) {
		oldCurSize := new(big.Int).Set(m.Macro.Tape.Size(m.Macro.Cursor))
		oldCurID := m.Macro.Tape.ID(m.Macro.Cursor)

		out := m.Macro.Step()
		m.NumMicroSteps.Add(m.NumMicroSteps, out.DeltaMicro)
		m.MacroPos.Add(m.MacroPos, out.DeltaMacro)
		m.NumIters.Add(m.NumIters, one)

		if out.Deleted.Present {
			if _, ok := tracked[out.Deleted.ID]; ok {
				// A span the pattern depends on was erased outright:
				// it failed in practice before completing even one
				// more repetition. Whatever progress the replay made
				// so far stands; there is nothing left to extrapolate.
				return big.NewInt(0)
			}
		}

		if out.Shrunk.Present {
			if info, ok := tracked[out.Shrunk.ID]; ok && out.ShrunkSize.Cmp(info.minSize) < 0 {
				info.minSize = new(big.Int).Set(out.ShrunkSize)
			}
		}

		if info, ok := tracked[oldCurID]; out.DidJump && ok {
			info.perSymbol.Add(info.perSymbol, big.NewInt(out.StepMicro))

			sizeDiff := new(big.Int).Sub(oldCurSize, current.Spans[info.idx].Size)
			info.offset.Add(info.offset, new(big.Int).Mul(big.NewInt(out.StepMicro), sizeDiff))
		} else {
			baseMicroSteps.Add(baseMicroSteps, big.NewInt(out.StepMicro))
		}

		if m.Macro.State.Terminal() {
			// The machine reached HALT or NOHALT partway through a
			// replay that was supposed to be a harmless repeat of
			// already-observed behavior. Treat it the same as a
			// broken pattern: stop extrapolating, keep the progress
			// already made.
			return big.NewInt(0)
		}
	}

	pattern.NumMicroSteps = baseMicroSteps
	for _, info := range tracked {
		lowerBound := new(big.Int).Sub(current.Spans[info.idx].Size, info.minSize)
		lowerBound.Add(lowerBound, one)

		pattern.lowerBounds[info.idx] = lowerBound
		pattern.microSteps[info.idx] = spanMicroSteps{PerSymbol: info.perSymbol, Offset: info.offset}
	}

	return pattern.apply(m.Macro, m.NumMicroSteps, m.MacroPos, m.NumIters)
}

// numTimesApplicable computes the largest N for which every shrinking
// span's size is at or above its lower bound before each of the N
// repetitions, i.e. min floor((size-bound)/-delta)+1. It returns 0 when
// no span shrinks.
// A fixed span (delta=0) must already sit exactly at its bound, or the
// pattern does not apply at all.
func (p *Pattern) numTimesApplicable(spans []tape.Cursor, t *tape.Tape) *big.Int {
	var minTimes *big.Int

	for idx, c := range spans {
		delta := p.deltas[idx]
		size := t.Size(c)

		switch delta.Sign() {
		case 0:
			if size.Cmp(p.lowerBounds[idx]) != 0 {
				return big.NewInt(0)
			}
		case -1:
			if size.Cmp(p.lowerBounds[idx]) < 0 {
				return big.NewInt(0)
			}

			diff := new(big.Int).Sub(size, p.lowerBounds[idx])
			negDelta := new(big.Int).Neg(delta)

			times := new(big.Int).Div(diff, negDelta)
			times.Add(times, one)

			if minTimes == nil || times.Cmp(minTimes) < 0 {
				minTimes = times
			}
		}
	}

	if minTimes == nil {
		return big.NewInt(0)
	}

	return minTimes
}

// apply repeats the pattern N times in one arithmetic update: each
// span's size moves by delta*N, and the running totals move by the
// pattern's per-repetition counts times N, plus each changing span's
// linear micro-step contribution summed as an arithmetic series. It
// returns N, which is 0 when the current span sizes don't meet the
// pattern's lower bounds even once.
func (p *Pattern) apply(macro *macromachine.Machine, microSteps, macroPos, iters *big.Int) *big.Int {
	spans := macro.Tape.Spans()

	n := p.numTimesApplicable(spans, macro.Tape)
	if n.Sign() == 0 {
		return n
	}

	microSteps.Add(microSteps, new(big.Int).Mul(p.NumMicroSteps, n))

	nMinus1 := new(big.Int).Sub(n, one)

	for idx, c := range spans {
		delta := p.deltas[idx]
		s0 := macro.Tape.Size(c)

		if delta.Sign() != 0 {
			s1 := new(big.Int).Add(s0, new(big.Int).Mul(delta, nMinus1))

			x := new(big.Int).Add(s0, s1)
			x.Mul(x, n)
			x.Div(x, two)

			microSteps.Add(microSteps, new(big.Int).Mul(p.microSteps[idx].PerSymbol, x))
		}

		microSteps.Add(microSteps, new(big.Int).Mul(p.microSteps[idx].Offset, n))

		if delta.Sign() != 0 {
			macro.Tape.SetSize(c, new(big.Int).Add(s0, new(big.Int).Mul(delta, n)))
		}
	}

	macroPos.Add(macroPos, new(big.Int).Mul(p.NumMacroSteps, n))
	iters.Add(iters, new(big.Int).Mul(p.NumIters, n))

	return n
}
