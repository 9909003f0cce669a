package scorer

import "sort"

// RankStability classifies how reliable a ranked position is, derived from
// the gap between its score and the next item's.
type RankStability int

const (
	Stable RankStability = iota
	Marginal
	Unstable
)

// Label is the human-readable name for a RankStability.
func (s RankStability) Label() string {
	switch s {
	case Stable:
		return "stable"
	case Marginal:
		return "marginal"
	default:
		return "unstable"
	}
}

// RankConfidence is the conformal confidence assigned to one ranked
// position: the fraction of all adjacent score gaps in the result set that
// are no larger than this item's gap to its successor.
type RankConfidence struct {
	Confidence float64
	GapToNext  float64
	Stability  RankStability
}

// RankedItem is one MatchResult placed at a rank position, with its
// original (pre-sort) index preserved so callers can map back to their
// input corpus.
type RankedItem struct {
	OriginalIndex int
	Result        MatchResult
	Confidence    RankConfidence
}

// RankingSummary aggregates statistics about a ranked result set.
type RankingSummary struct {
	Count         int
	StableCount   int
	TieGroupCount int
	MedianGap     float64
}

// RankedResults is the output of ConformalRanker.Rank: items sorted by
// descending score, each carrying its rank confidence.
type RankedResults struct {
	Items   []RankedItem
	Summary RankingSummary
}

// ConformalRanker assigns distribution-free confidence to rank positions
// using conformal prediction: the nonconformity score for position i is the
// gap g_i = score_i - score_{i+1}, and its conformal p-value is the
// fraction of all gaps in the set that are <= g_i. A gap below TieEpsilon
// is treated as a tie (Unstable).
type ConformalRanker struct {
	TieEpsilon        float64
	StableThreshold   float64
	MarginalThreshold float64
}

// NewConformalRanker returns a ranker with the default thresholds: a tie
// epsilon suited to float64 posterior probabilities, 0.7 for Stable, 0.3
// for Marginal.
func NewConformalRanker() ConformalRanker {
	return ConformalRanker{TieEpsilon: 1e-9, StableThreshold: 0.7, MarginalThreshold: 0.3}
}

// Rank sorts results by descending score (ties broken by the stronger
// MatchType), then assigns each position a conformal confidence and
// stability classification.
func (r ConformalRanker) Rank(results []MatchResult) RankedResults {
	count := len(results)
	if count == 0 {
		return RankedResults{}
	}

	type indexed struct {
		origIdx int
		result  MatchResult
	}
	rows := make([]indexed, count)
	for i, res := range results {
		rows[i] = indexed{origIdx: i, result: res}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].result.Score != rows[j].result.Score {
			return rows[i].result.Score > rows[j].result.Score
		}
		return rows[i].result.MatchType > rows[j].result.MatchType
	})

	gaps := make([]float64, 0, count-1)
	for i := 0; i+1 < count; i++ {
		gap := rows[i].result.Score - rows[i+1].result.Score
		if gap < 0 {
			gap = 0
		}
		gaps = append(gaps, gap)
	}
	sortedGaps := append([]float64(nil), gaps...)
	sort.Float64s(sortedGaps)

	items := make([]RankedItem, 0, count)
	stableCount := 0
	tieGroupCount := 0
	inTieGroup := false

	for rank, row := range rows {
		gapToNext := 0.0
		if rank < len(gaps) {
			gapToNext = gaps[rank]
		}

		var confidence float64
		if len(sortedGaps) == 0 {
			confidence = 1.0
		} else {
			threshold := gapToNext + r.TieEpsilon*0.5
			leq := 0
			for _, g := range sortedGaps {
				if g <= threshold {
					leq++
				}
			}
			confidence = float64(leq) / float64(len(sortedGaps))
		}

		isTie := gapToNext < r.TieEpsilon
		var stability RankStability
		if isTie {
			if !inTieGroup {
				tieGroupCount++
				inTieGroup = true
			}
			stability = Unstable
		} else {
			inTieGroup = false
			switch {
			case confidence >= r.StableThreshold:
				stableCount++
				stability = Stable
			case confidence >= r.MarginalThreshold:
				stability = Marginal
			default:
				stability = Unstable
			}
		}

		items = append(items, RankedItem{
			OriginalIndex: row.origIdx,
			Result:        row.result,
			Confidence:    RankConfidence{Confidence: confidence, GapToNext: gapToNext, Stability: stability},
		})
	}

	medianGap := 0.0
	if n := len(sortedGaps); n > 0 {
		mid := n / 2
		if n%2 == 0 {
			medianGap = (sortedGaps[mid-1] + sortedGaps[mid]) / 2.0
		} else {
			medianGap = sortedGaps[mid]
		}
	}

	return RankedResults{
		Items: items,
		Summary: RankingSummary{
			Count:         count,
			StableCount:   stableCount,
			TieGroupCount: tieGroupCount,
			MedianGap:     medianGap,
		},
	}
}

// RankTopK ranks results, then truncates to the top k items. StableCount is
// recomputed over the truncated set; Count/TieGroupCount/MedianGap still
// describe the full ranking.
func (r ConformalRanker) RankTopK(results []MatchResult, k int) RankedResults {
	ranked := r.Rank(results)
	if k < len(ranked.Items) {
		ranked.Items = ranked.Items[:k]
	}
	stable := 0
	for _, item := range ranked.Items {
		if item.Confidence.Stability == Stable {
			stable++
		}
	}
	ranked.Summary.StableCount = stable
	return ranked
}
