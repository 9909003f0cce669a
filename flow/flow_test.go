package flow

import "testing"

func TestHardCapAlwaysDrops(t *testing.T) {
	p := FlowControlPolicy{HardCapBytes: 1000, QueueCoalesceThresholdBytes: 500, LatencyBudgetMs: 20, FairnessThreshold: 1, RateBudgetBps: 1000}
	snap := FlowControlSnapshot{QueueDepthBytes: 1500}
	d := p.Decide(snap, ClassKey)
	if d.Kind != Drop || d.Reason != ReasonQueueDepth {
		t.Errorf("expected Drop/QueueDepth over hard cap, got %+v", d)
	}
}

func TestQueueDepthAboveSoftThresholdCoalescesCoalescableClass(t *testing.T) {
	// queue=150% of the coalesce threshold, below the hard cap: S8.
	p := FlowControlPolicy{HardCapBytes: 1000, QueueCoalesceThresholdBytes: 400, LatencyBudgetMs: 9999, FairnessThreshold: 1, RateBudgetBps: 1000}
	snap := FlowControlSnapshot{QueueDepthBytes: 600}
	d := p.Decide(snap, ClassMouseMotion)
	if d.Kind != Coalesce || d.Reason != ReasonQueueDepth {
		t.Errorf("expected Coalesce/QueueDepth, got %+v", d)
	}
}

func TestNonCoalescableClassIgnoresQueueDepthSoftThreshold(t *testing.T) {
	p := FlowControlPolicy{HardCapBytes: 1000, QueueCoalesceThresholdBytes: 400, LatencyBudgetMs: 9999, FairnessThreshold: 1, RateBudgetBps: 1000}
	snap := FlowControlSnapshot{QueueDepthBytes: 600}
	d := p.Decide(snap, ClassKey)
	if d.Kind == Coalesce {
		t.Errorf("key events are never coalescable, got %+v", d)
	}
}

func TestLatencyBudgetCoalescesCoalescableClass(t *testing.T) {
	p := FlowControlPolicy{HardCapBytes: 1000, QueueCoalesceThresholdBytes: 999, LatencyBudgetMs: 10, FairnessThreshold: 1, RateBudgetBps: 1000}
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = 5
	}
	// nearest-rank p99 of 100 samples is the 99th smallest (index 98): the
	// single highest sample alone wouldn't move it, so raise the top two.
	samples[98] = 50
	samples[99] = 50
	snap := FlowControlSnapshot{QueueDepthBytes: 0, LatencyWindowMs: samples}
	d := p.Decide(snap, ClassScroll)
	if d.Kind != Coalesce || d.Reason != ReasonLatency {
		t.Errorf("expected Coalesce/Latency, got %+v", d)
	}
}

func TestStarvationGuardAcceptsUnderrepresentedClass(t *testing.T) {
	p := FlowControlPolicy{HardCapBytes: 1000, QueueCoalesceThresholdBytes: 999, LatencyBudgetMs: 9999, FairnessThreshold: 1, RateBudgetBps: 1000}
	snap := FlowControlSnapshot{
		RateWindowBps: map[InputEventClass]float64{
			ClassKey:         990,
			ClassMouseMotion: 10,
		},
	}
	// n=2, fairnessThreshold=1: starvation cutoff share = 1/(2*1) = 0.5.
	// ClassMouseMotion's share = 10/1000 = 0.01 < 0.5 -> starvation guard.
	d := p.Decide(snap, ClassMouseMotion)
	if d.Kind != Accept || d.Reason != ReasonStarvationGuard {
		t.Errorf("expected Accept/StarvationGuard, got %+v", d)
	}
}

func TestRateWindowOverBudgetThrottles(t *testing.T) {
	p := FlowControlPolicy{HardCapBytes: 1000, QueueCoalesceThresholdBytes: 999, LatencyBudgetMs: 9999, FairnessThreshold: 1, RateBudgetBps: 100}
	snap := FlowControlSnapshot{
		RateWindowBps: map[InputEventClass]float64{ClassKey: 200},
	}
	d := p.Decide(snap, ClassKey)
	if d.Kind != Throttle || d.Reason != ReasonRateWindow {
		t.Errorf("expected Throttle/RateWindow, got %+v", d)
	}
	// overshoot = 200/100 - 1 = 1.0 -> 100ms.
	if d.BackPressureMs != 100 {
		t.Errorf("expected 100ms back pressure, got %d", d.BackPressureMs)
	}
}

func TestUnderBudgetAccepts(t *testing.T) {
	p := FlowControlPolicy{HardCapBytes: 1000, QueueCoalesceThresholdBytes: 999, LatencyBudgetMs: 9999, FairnessThreshold: 1, RateBudgetBps: 100}
	snap := FlowControlSnapshot{
		RateWindowBps: map[InputEventClass]float64{ClassKey: 50},
	}
	d := p.Decide(snap, ClassKey)
	if d.Kind != Accept {
		t.Errorf("expected Accept, got %+v", d)
	}
}

func TestJainFairnessIndexRange(t *testing.T) {
	equal := JainFairnessIndex([]float64{10, 10, 10, 10})
	if equal != 1 {
		t.Errorf("expected perfectly fair index of 1, got %v", equal)
	}
	skewed := JainFairnessIndex([]float64{100, 0, 0, 0})
	if skewed != 0.25 {
		t.Errorf("expected index 1/n=0.25 for a single hog, got %v", skewed)
	}
}
