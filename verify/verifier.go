package verify

import (
	"go-firewatch/types"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
)

const (
	baseConfidence     = 0.5
	casualtyConfidence = 0.9

	// Corroboration uses a tighter window than the nearby-candidate query:
	// "similar report" evidence is freshness-biased.
	corroborationWindow = time.Hour
	minKeywordOverlap   = 2
	corroborationBonus  = 0.15

	urgencyThreshold = 8
	urgencyBonus     = 0.10

	// A resolved place string longer than this is taken as a specific
	// (rather than generic) place description.
	specificLocationLength = 20
	specificLocationBonus  = 0.05

	consensusThreshold = 2
	consensusBonus     = 0.20
)

// Verifier scores a new report against nearby recent reports. It is stateless
// between calls; the clock is injected so the one-hour window is testable.
type Verifier struct {
	clock clockwork.Clock
}

func New(clock clockwork.Clock) *Verifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Verifier{clock: clock}
}

// Verify combines extracted-info signals and candidate overlap into a
// confidence score and verification status. It never fails.
//
// totalNearbyCount is the raw count of candidates within the query radius and
// window; it is only reported on the short-circuit path, where the keyword
// overlap pass cannot run.
func (v *Verifier) Verify(info types.ExtractedInfo, nearbyReports []types.IncidentReport, totalNearbyCount int) types.VerificationResult {
	// Partial extraction (the rule-based path leaves severity and the oracle
	// confidence unset) cannot be scored; casualty reports are the exception
	// and still verify below.
	if !info.HasCasualties && !scorable(info) {
		return types.VerificationResult{
			Status:              types.Pending,
			Confidence:          baseConfidence,
			SimilarReportsCount: totalNearbyCount,
			VerifiedBy:          []string{},
			Reason:              "awaiting analysis",
		}
	}

	confidence := baseConfidence
	status := types.Pending
	similarCount := 0

	oneHourAgo := v.clock.Now().Add(-corroborationWindow)
	newKeywords := keywordSet(info.Keywords)

	for _, report := range nearbyReports {
		if !report.Timestamp.After(oneHourAgo) {
			continue
		}
		// Overlap is a set intersection: duplicate keywords on either side
		// count once.
		overlap := 0
		for keyword := range keywordSet(report.ExtractedInfo.Keywords) {
			if _, ok := newKeywords[keyword]; ok {
				overlap++
			}
		}
		if overlap >= minKeywordOverlap {
			similarCount++
			confidence += corroborationBonus
		}
	}

	if info.UrgencyScore >= urgencyThreshold {
		confidence += urgencyBonus
	}

	if utf8.RuneCountInString(info.Location) > specificLocationLength {
		confidence += specificLocationBonus
	}

	if similarCount >= consensusThreshold {
		status = types.Verified
		confidence += consensusBonus
	}

	// Casualty override: replaces, not adds to, accumulated confidence.
	if info.HasCasualties {
		status = types.Verified
		confidence = casualtyConfidence
	}

	return types.VerificationResult{
		Status:              status,
		Confidence:          clamp(confidence),
		SimilarReportsCount: similarCount,
		VerifiedBy:          []string{},
	}
}

// scorable reports carry a severity and a sane oracle confidence; the
// rule-based extraction path produces neither.
func scorable(info types.ExtractedInfo) bool {
	if info.Severity == "" {
		return false
	}
	return info.Confidence > 0 && info.Confidence <= 100
}

func keywordSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[k] = struct{}{}
	}
	return set
}

func clamp(confidence float64) float64 {
	if confidence > 1.0 {
		return 1.0
	}
	if confidence < 0.0 {
		return 0.0
	}
	return confidence
}
