// Package scorer implements the command palette's fuzzy match scoring: a
// Bayesian model that turns a query/title pair into a posterior relevance
// probability, with an evidence ledger explaining which factors drove the
// score. Grounded on the command palette's Bayesian scorer: prior odds per
// match type, combined via Bayes factors for position, word-boundary, gap,
// and tag-match evidence.
package scorer

import (
	"fmt"
	"math"
	"strings"
)

// MatchType discriminates how a query matched a title, ordered weakest to
// strongest so MatchType comparisons (e.g. tie-breaking a rank) behave like
// an ordinal scale.
type MatchType int

const (
	NoMatch MatchType = iota
	Fuzzy
	Substring
	WordStart
	Prefix
	Exact
)

// PriorOdds returns the prior odds ratio P(relevant)/P(not_relevant) for
// this match type, derived from empirical observation of user intent: exact
// and prefix matches are almost always what the user wants; fuzzy matches
// need other evidence to be convincing.
func (m MatchType) PriorOdds() float64 {
	switch m {
	case Exact:
		return 99.0 // 99:1 odds -> P ~= 0.99
	case Prefix:
		return 9.0 // 9:1 odds -> P ~= 0.90
	case WordStart:
		return 4.0 // 4:1 odds -> P ~= 0.80
	case Substring:
		return 2.0 // 2:1 odds -> P ~= 0.67
	case Fuzzy:
		return 0.333 // 1:3 odds -> P ~= 0.25
	default:
		return 0.0
	}
}

// Description is the evidence ledger's human-readable label for this match
// type.
func (m MatchType) Description() string {
	switch m {
	case Exact:
		return "exact match"
	case Prefix:
		return "prefix match"
	case WordStart:
		return "word-start match"
	case Substring:
		return "contiguous substring"
	case Fuzzy:
		return "fuzzy match"
	default:
		return "no match"
	}
}

// EvidenceKind tags what an EvidenceEntry's Bayes factor is evidence of.
type EvidenceKind int

const (
	EvidenceMatchType EvidenceKind = iota
	EvidenceWordBoundary
	EvidencePosition
	EvidenceGapPenalty
	EvidenceTagMatch
	EvidenceTitleLength
)

func (k EvidenceKind) String() string {
	switch k {
	case EvidenceMatchType:
		return "MatchType"
	case EvidenceWordBoundary:
		return "WordBoundary"
	case EvidencePosition:
		return "Position"
	case EvidenceGapPenalty:
		return "GapPenalty"
	case EvidenceTagMatch:
		return "TagMatch"
	case EvidenceTitleLength:
		return "TitleLength"
	default:
		return "Unknown"
	}
}

// EvidenceEntry is one factor contributing to a match score: BayesFactor is
// the likelihood ratio P(evidence|relevant)/P(evidence|not_relevant), where
// values above 1.0 support relevance and values below it oppose it.
type EvidenceEntry struct {
	Kind        EvidenceKind
	BayesFactor float64
	Description string
}

func (e EvidenceEntry) String() string {
	direction := "neutral"
	switch {
	case e.BayesFactor > 1.0:
		direction = "supports"
	case e.BayesFactor < 1.0:
		direction = "opposes"
	}
	return fmt.Sprintf("%s: BF=%.2f (%s) - %s", e.Kind, e.BayesFactor, direction, e.Description)
}

// EvidenceLedger records every factor that contributed to a match score,
// giving a full trail from prior odds to posterior probability for
// debugging and user-facing explanations.
type EvidenceLedger struct {
	entries []EvidenceEntry
}

// Add appends one evidence entry to the ledger.
func (l *EvidenceLedger) Add(kind EvidenceKind, bayesFactor float64, description string) {
	l.entries = append(l.entries, EvidenceEntry{Kind: kind, BayesFactor: bayesFactor, Description: description})
}

// Entries returns every recorded entry in insertion order.
func (l *EvidenceLedger) Entries() []EvidenceEntry { return l.entries }

// CombinedBayesFactor is the product of every entry's Bayes factor.
func (l *EvidenceLedger) CombinedBayesFactor() float64 {
	bf := 1.0
	for _, e := range l.entries {
		bf *= e.BayesFactor
	}
	return bf
}

// PriorOdds returns the MatchType entry's Bayes factor (the prior odds), if
// one was recorded.
func (l *EvidenceLedger) PriorOdds() (float64, bool) {
	for _, e := range l.entries {
		if e.Kind == EvidenceMatchType {
			return e.BayesFactor, true
		}
	}
	return 0, false
}

// PosteriorProbability computes posterior_odds / (1 + posterior_odds) where
// posterior_odds = prior_odds * (product of every non-prior Bayes factor).
// An infinite posterior odds (a Bayes factor of +Inf) clamps to 1.0 rather
// than producing NaN.
func (l *EvidenceLedger) PosteriorProbability() float64 {
	prior, ok := l.PriorOdds()
	if !ok {
		prior = 1.0
	}
	bf := 1.0
	for _, e := range l.entries {
		if e.Kind != EvidenceMatchType {
			bf *= e.BayesFactor
		}
	}
	posteriorOdds := prior * bf
	if math.IsInf(posteriorOdds, 1) {
		return 1.0
	}
	return posteriorOdds / (1.0 + posteriorOdds)
}

func (l *EvidenceLedger) String() string {
	var b strings.Builder
	b.WriteString("Evidence Ledger:\n")
	for _, e := range l.entries {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	fmt.Fprintf(&b, "  Combined BF: %.3f\n", l.CombinedBayesFactor())
	fmt.Fprintf(&b, "  Posterior P: %.3f\n", l.PosteriorProbability())
	return b.String()
}

// MatchResult is the outcome of scoring one query against one title.
type MatchResult struct {
	Score     float64
	MatchType MatchType
	Positions []int // rune indices into the title that matched
	Evidence  EvidenceLedger
}

// noMatch builds the canonical zero-score result, with its own evidence
// entry explaining why (so the ledger is never empty).
func noMatch() MatchResult {
	var ledger EvidenceLedger
	ledger.Add(EvidenceMatchType, 0.0, "no matching characters found")
	return MatchResult{Score: 0.0, MatchType: NoMatch, Evidence: ledger}
}

// Scorer is a Bayesian fuzzy matcher for command palette entries.
// TrackEvidence trades a small amount of allocation for an explainable
// ledger; set it false on a hot path (e.g. scoring a large corpus per
// keystroke) where only the final score matters.
type Scorer struct {
	TrackEvidence bool
}

// NewScorer returns a Scorer with evidence tracking enabled.
func NewScorer() Scorer { return Scorer{TrackEvidence: true} }

// NewFastScorer returns a Scorer without evidence tracking.
func NewFastScorer() Scorer { return Scorer{TrackEvidence: false} }

// Score scores query against title, case-insensitively. A query longer
// than the title can never match and short-circuits to a zero-score
// NoMatch result (the len(query) > len(title) boundary case). An empty
// query matches everything, with a slight preference for shorter titles.
func (s Scorer) Score(query, title string) MatchResult {
	if len(query) > len(title) {
		return noMatch()
	}
	if query == "" {
		return s.scoreEmptyQuery(title)
	}

	queryLower := strings.ToLower(query)
	matchType, positions := s.detectMatchType(queryLower, strings.ToLower(title))
	if matchType == NoMatch {
		return noMatch()
	}
	return s.computeScore(matchType, positions, queryLower, title)
}

// ScoreWithTags scores query against title, then boosts the score if query
// also matches any tag (strong positive evidence: a 3:1 Bayes factor in
// favor).
func (s Scorer) ScoreWithTags(query, title string, tags []string) MatchResult {
	result := s.Score(query, title)
	if result.MatchType == NoMatch {
		return result
	}

	queryLower := strings.ToLower(query)
	tagMatch := false
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), queryLower) {
			tagMatch = true
			break
		}
	}
	if !tagMatch {
		return result
	}

	if s.TrackEvidence {
		result.Evidence.Add(EvidenceTagMatch, 3.0, "query matches tag")
		result.Score = result.Evidence.PosteriorProbability()
	} else if result.Score > 0.0 && result.Score < 1.0 {
		odds := result.Score / (1.0 - result.Score)
		boosted := odds * 3.0
		result.Score = boosted / (1.0 + boosted)
	}
	return result
}

func (s Scorer) scoreEmptyQuery(title string) MatchResult {
	titleLen := len([]rune(title))
	lengthFactor := 1.0 + (1.0/(float64(titleLen)+1.0))*0.1
	if !s.TrackEvidence {
		odds := lengthFactor
		return MatchResult{Score: odds / (1.0 + odds), MatchType: Fuzzy}
	}
	var ledger EvidenceLedger
	ledger.Add(EvidenceMatchType, 1.0, "empty query matches all")
	ledger.Add(EvidenceTitleLength, lengthFactor, fmt.Sprintf("title length %d chars", titleLen))
	return MatchResult{Score: ledger.PosteriorProbability(), MatchType: Fuzzy, Evidence: ledger}
}

// detectMatchType classifies how queryLower matched titleLower, trying each
// match type from strongest to weakest and returning the first that fits.
// Positions are rune indices into the title.
func (s Scorer) detectMatchType(queryLower, titleLower string) (MatchType, []int) {
	if queryLower == titleLower {
		return Exact, indexRange(0, len([]rune(titleLower)))
	}
	if strings.HasPrefix(titleLower, queryLower) {
		return Prefix, indexRange(0, len([]rune(queryLower)))
	}
	if positions, ok := wordStartMatch(queryLower, titleLower); ok {
		return WordStart, positions
	}
	if start := runeIndex(titleLower, queryLower); start >= 0 {
		return Substring, indexRange(start, start+len([]rune(queryLower)))
	}
	if positions, ok := fuzzyMatch(queryLower, titleLower); ok {
		return Fuzzy, positions
	}
	return NoMatch, nil
}

func indexRange(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// runeIndex is strings.Index but returns a rune offset instead of a byte
// offset, so positions stay comparable across the matcher's other paths.
func runeIndex(s, sub string) int {
	byteIdx := strings.Index(s, sub)
	if byteIdx < 0 {
		return -1
	}
	return len([]rune(s[:byteIdx]))
}

// wordStartMatch checks whether every query rune matches the start of a
// consecutive word in title (e.g. "gd" -> "Go Dashboard"), in order.
func wordStartMatch(query, title string) ([]int, bool) {
	queryRunes := []rune(query)
	if len(queryRunes) == 0 {
		return nil, true
	}
	titleRunes := []rune(title)

	var positions []int
	qi := 0
	for i, c := range titleRunes {
		if !isWordStart(titleRunes, i) {
			continue
		}
		if c == queryRunes[qi] {
			positions = append(positions, i)
			qi++
			if qi == len(queryRunes) {
				return positions, true
			}
		}
	}
	return nil, false
}

func isWordStart(title []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := title[i-1]
	return prev == ' ' || prev == '-' || prev == '_'
}

// fuzzyMatch checks whether every query rune appears in title in order,
// with arbitrary gaps between them.
func fuzzyMatch(query, title string) ([]int, bool) {
	queryRunes := []rune(query)
	if len(queryRunes) == 0 {
		return nil, true
	}
	var positions []int
	qi := 0
	for i, c := range []rune(title) {
		if c == queryRunes[qi] {
			positions = append(positions, i)
			qi++
			if qi == len(queryRunes) {
				return positions, true
			}
		}
	}
	return nil, false
}

// computeScore builds the evidence ledger (or, without tracking, folds the
// same factors directly into a combined Bayes factor) and derives the
// final posterior score.
func (s Scorer) computeScore(matchType MatchType, positions []int, query, title string) MatchResult {
	titleLen := len([]rune(title))
	queryLen := len([]rune(query))

	if !s.TrackEvidence {
		bf := matchType.PriorOdds()
		if len(positions) > 0 {
			bf *= 1.0 + (1.0/(float64(positions[0])+1.0))*0.5
		}
		if wb := countWordBoundaries(positions, title); wb > 0 {
			bf *= 1.0 + float64(wb)*0.3
		}
		if matchType == Fuzzy && len(positions) > 1 {
			bf *= 1.0 / (1.0 + float64(totalGap(positions))*0.1)
		}
		bf *= 1.0 + (float64(queryLen)/float64(titleLen))*0.2
		return MatchResult{Score: bf / (1.0 + bf), MatchType: matchType, Positions: positions}
	}

	var ledger EvidenceLedger
	ledger.Add(EvidenceMatchType, matchType.PriorOdds(), matchType.Description())

	if len(positions) > 0 {
		firstPos := positions[0]
		positionFactor := 1.0 + (1.0/(float64(firstPos)+1.0))*0.5
		ledger.Add(EvidencePosition, positionFactor, fmt.Sprintf("first match at position %d", firstPos))
	}

	if wb := countWordBoundaries(positions, title); wb > 0 {
		boundaryFactor := 1.0 + float64(wb)*0.3
		ledger.Add(EvidenceWordBoundary, boundaryFactor, fmt.Sprintf("%d word boundary matches", wb))
	}

	if matchType == Fuzzy && len(positions) > 1 {
		gap := totalGap(positions)
		gapFactor := 1.0 / (1.0 + float64(gap)*0.1)
		ledger.Add(EvidenceGapPenalty, gapFactor, fmt.Sprintf("total gap of %d characters", gap))
	}

	coverage := float64(queryLen) / float64(titleLen)
	lengthFactor := 1.0 + coverage*0.2
	ledger.Add(EvidenceTitleLength, lengthFactor, fmt.Sprintf("query covers %.0f%% of title", coverage*100.0))

	return MatchResult{Score: ledger.PosteriorProbability(), MatchType: matchType, Positions: positions, Evidence: ledger}
}

// countWordBoundaries counts how many matched positions land on a word
// boundary in title.
func countWordBoundaries(positions []int, title string) int {
	titleRunes := []rune(title)
	count := 0
	for _, pos := range positions {
		if pos < len(titleRunes) && isWordStart(titleRunes, pos) {
			count++
		}
	}
	return count
}

// totalGap sums the gaps between consecutive matched positions.
func totalGap(positions []int) int {
	if len(positions) < 2 {
		return 0
	}
	total := 0
	for i := 1; i < len(positions); i++ {
		gap := positions[i] - positions[i-1] - 1
		if gap > 0 {
			total += gap
		}
	}
	return total
}
