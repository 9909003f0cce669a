// Package flow implements input back-pressure decisions (C12): a pure
// function from a sliding FlowControlSnapshot and an arriving event class to
// an Accept/Drop/Coalesce/Throttle decision, with a Jain fairness guard
// against starving any one event class.
package flow

import (
	"math"
	"sort"
)

// InputEventClass discriminates the kinds of input events the policy rate-
// limits independently (per-class weights and rate samples).
type InputEventClass int

const (
	ClassKey InputEventClass = iota
	ClassPaste
	ClassMouseMotion
	ClassMouseButton
	ClassScroll
	ClassResize
	ClassFocus
)

// Coalescable reports whether repeated events of class can be collapsed
// into their most recent occurrence without losing information the
// consumer cares about. Discrete events (key presses, button clicks,
// pastes) are never coalescable; continuous streams are.
func (c InputEventClass) Coalescable() bool {
	switch c {
	case ClassMouseMotion, ClassScroll, ClassResize:
		return true
	default:
		return false
	}
}

// DecisionKind is the outcome of a flow control decision.
type DecisionKind int

const (
	Accept DecisionKind = iota
	Drop
	Coalesce
	Throttle
)

// DecisionReason records which rule of the algorithm produced the decision.
type DecisionReason int

const (
	ReasonNone DecisionReason = iota
	ReasonQueueDepth
	ReasonLatency
	ReasonRateWindow
	ReasonStarvationGuard
)

// FlowControlDecision is the result of FlowControlPolicy.Decide. Only
// BackPressureMs is meaningful when Kind is Throttle.
type FlowControlDecision struct {
	Kind           DecisionKind
	Reason         DecisionReason
	BackPressureMs int
}

// FlowControlSnapshot is the sliding window of recent system state a
// decision is computed against. LatencyWindowMs and RateWindowBps are
// caller-maintained ring samples; this package only reads them.
type FlowControlSnapshot struct {
	QueueDepthBytes int
	LatencyWindowMs []float64
	RateWindowBps   map[InputEventClass]float64
	PerClassWeights map[InputEventClass]float64
}

// FlowControlPolicy is the set of thresholds a Decide call is evaluated
// against. All fields are caller-tuned; there are no hidden defaults.
type FlowControlPolicy struct {
	HardCapBytes              int     // queue_depth above this is always dropped
	QueueCoalesceThresholdBytes int   // queue_depth above this (but below the hard cap) coalesces coalescable classes
	LatencyBudgetMs           float64 // latency p99 above this coalesces coalescable classes
	FairnessThreshold         float64 // starvation guard divisor; see Decide
	RateBudgetBps             float64 // per-class rate above this throttles
}

// Decide applies the four-step algorithm in order: hard queue-depth drop,
// queue-depth/latency coalesce, Jain fairness starvation guard, then
// rate-window throttle. It is a pure function of snapshot and class.
func (p FlowControlPolicy) Decide(snapshot FlowControlSnapshot, class InputEventClass) FlowControlDecision {
	if snapshot.QueueDepthBytes > p.HardCapBytes {
		return FlowControlDecision{Kind: Drop, Reason: ReasonQueueDepth}
	}

	coalescable := class.Coalescable()
	if coalescable && snapshot.QueueDepthBytes > p.QueueCoalesceThresholdBytes {
		return FlowControlDecision{Kind: Coalesce, Reason: ReasonQueueDepth}
	}
	if coalescable && percentile99(snapshot.LatencyWindowMs) > p.LatencyBudgetMs {
		return FlowControlDecision{Kind: Coalesce, Reason: ReasonLatency}
	}

	if starved(snapshot, class, p.FairnessThreshold) {
		return FlowControlDecision{Kind: Accept, Reason: ReasonStarvationGuard}
	}

	rate := snapshot.RateWindowBps[class]
	if p.RateBudgetBps > 0 && rate > p.RateBudgetBps {
		overshoot := rate/p.RateBudgetBps - 1
		return FlowControlDecision{
			Kind:           Throttle,
			Reason:         ReasonRateWindow,
			BackPressureMs: backPressureMs(overshoot),
		}
	}
	return FlowControlDecision{Kind: Accept}
}

// starved reports whether class's share of total recent rate falls below
// the Jain fairness starvation threshold 1/(n*fairnessThreshold), meaning it
// should be let through regardless of what step 4 would otherwise decide.
func starved(snapshot FlowControlSnapshot, class InputEventClass, fairnessThreshold float64) bool {
	n := len(snapshot.RateWindowBps)
	if n == 0 || fairnessThreshold <= 0 {
		return false
	}
	var total float64
	for _, x := range snapshot.RateWindowBps {
		total += x
	}
	if total == 0 {
		return false
	}
	share := snapshot.RateWindowBps[class] / total
	return share < 1/(float64(n)*fairnessThreshold)
}

// backPressureMs maps a rate overshoot fraction (rate/budget - 1) to a
// back-pressure delay in whole milliseconds, linear and floored at 1ms for
// any positive overshoot.
func backPressureMs(overshoot float64) int {
	if overshoot <= 0 {
		return 0
	}
	ms := int(overshoot * 100)
	if ms < 1 {
		ms = 1
	}
	return ms
}

// JainFairnessIndex computes (Σx)²/(n·Σx²) over xs, the standard fairness
// measure over [1/n, 1]: 1 means every sample is equal, 1/n means all the
// weight sits on a single sample.
func JainFairnessIndex(xs []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 1
	}
	var sum, sumSq float64
	for _, x := range xs {
		sum += x
		sumSq += x * x
	}
	if sumSq == 0 {
		return 1
	}
	return (sum * sum) / (n * sumSq)
}

// percentile99 returns the 99th percentile of samples (nearest-rank),
// or 0 for an empty window.
func percentile99(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	idx := int(math.Ceil(0.99*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
