// Package layout implements the Flex/Grid constraint solver (C9): splitting
// a rectangle into sub-rectangles from a sequence of per-axis constraints.
package layout

import "math"

// ConstraintKind discriminates a Constraint's resolution rule.
type ConstraintKind int

const (
	Fixed ConstraintKind = iota
	Min
	Percentage
	Ratio
)

// Constraint sizes one item along a layout axis. Value is the fixed length
// or minimum for Fixed/Min, the percentage (0-100) for Percentage, and the
// numerator for Ratio (Denom holds the denominator).
type Constraint struct {
	Kind  ConstraintKind
	Value float64
	Denom float64 // Ratio only
}

func Len(n int) Constraint         { return Constraint{Kind: Fixed, Value: float64(n)} }
func Minimum(n int) Constraint     { return Constraint{Kind: Min, Value: float64(n)} }
func Pct(p float64) Constraint     { return Constraint{Kind: Percentage, Value: p} }
func RatioOf(num, den int) Constraint { return Constraint{Kind: Ratio, Value: float64(num), Denom: float64(den)} }

// Direction selects how Solve splits the available length.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// Solve distributes `available` length across constraints, separated by a
// constant `gap` between consecutive items, and returns each item's
// resolved length in constraint order. Resolution order per §4.6:
//  1. sum Fixed, subtract from available
//  2. subtract total gap
//  3. allocate Percentage against what remains
//  4. allocate Ratio against what remains after Percentage
//  5. distribute the rest to Min items (at least their minimum, excess split evenly)
//  6. clamp negatives to 0; overflow truncates items from the end and
//     reports via the second return value
//
// Percentage and Ratio items round down independently, so equal-weight
// siblings never overshoot `available` between them; the last item then
// absorbs whatever positive residual remains so the total still matches
// exactly (e.g. two Percentage(50) over 11 columns split 5, 6 — not 6, 5).
func Solve(constraints []Constraint, available, gap int) ([]int, bool) {
	n := len(constraints)
	if n == 0 {
		return nil, false
	}
	lengths := make([]float64, n)

	remaining := float64(available)
	if n > 1 {
		remaining -= float64(gap * (n - 1))
	}

	var fixedTotal float64
	for i, c := range constraints {
		if c.Kind == Fixed {
			lengths[i] = c.Value
			fixedTotal += c.Value
		}
	}
	remaining -= fixedTotal

	pctBase := remaining
	var pctTotal float64
	for i, c := range constraints {
		if c.Kind == Percentage {
			lengths[i] = math.Floor(pctBase * c.Value / 100)
			pctTotal += lengths[i]
		}
	}
	remaining -= pctTotal

	ratioBase := remaining
	var ratioTotal float64
	for i, c := range constraints {
		if c.Kind == Ratio && c.Denom != 0 {
			lengths[i] = math.Floor(ratioBase * c.Value / c.Denom)
			ratioTotal += lengths[i]
		}
	}
	remaining -= ratioTotal

	var minIdx []int
	var minSum float64
	for i, c := range constraints {
		if c.Kind == Min {
			minIdx = append(minIdx, i)
			minSum += c.Value
		}
	}
	if len(minIdx) > 0 {
		extra := remaining - minSum
		share := extra / float64(len(minIdx))
		for _, i := range minIdx {
			lengths[i] = constraints[i].Value + share
		}
	}

	// Residual: Σ rounded lengths may be off by ±1 from `available` due to
	// independent per-item rounding; the last item absorbs it so the sum
	// matches exactly (§4.6 determinism contract).
	out := make([]int, n)
	var sum int
	for i, l := range lengths {
		v := int(bankersRound(l))
		if v < 0 {
			v = 0
		}
		out[i] = v
		sum += v
	}
	target := available
	if n > 1 {
		target -= gap * (n - 1)
	}
	if n > 0 {
		out[n-1] += target - sum
		if out[n-1] < 0 {
			out[n-1] = 0
		}
	}

	overflow := false
	total := 0
	for _, v := range out {
		total += v
	}
	if n > 1 {
		total += gap * (n - 1)
	}
	if total > available {
		overflow = truncateFromEnd(out, available, gap)
	}
	return out, overflow
}

// truncateFromEnd zeroes items from the end until the layout fits within
// available (including gaps), reporting whether any item was dropped.
func truncateFromEnd(lengths []int, available, gap int) bool {
	dropped := false
	for i := len(lengths) - 1; i >= 0; i-- {
		total := sumWithGaps(lengths, gap)
		if total <= available {
			break
		}
		lengths[i] = 0
		dropped = true
	}
	return dropped
}

func sumWithGaps(lengths []int, gap int) int {
	n := 0
	total := 0
	for _, v := range lengths {
		if v > 0 {
			n++
		}
		total += v
	}
	if n > 1 {
		total += gap * (n - 1)
	}
	return total
}

// bankersRound implements round-half-to-even, matching §4.6's determinism
// contract for distributing fractional cells.
func bankersRound(v float64) float64 {
	floor := math.Floor(v)
	diff := v - floor
	switch {
	case diff < 0.5:
		return floor
	case diff > 0.5:
		return floor + 1
	default:
		if math.Mod(floor, 2) == 0 {
			return floor
		}
		return floor + 1
	}
}
