package verify

import (
	"context"
	"go-firewatch/extraction"
	"go-firewatch/types"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestVerifier() *Verifier {
	return New(clockwork.NewFakeClockAt(testNow))
}

func scorableInfo(keywords ...string) types.ExtractedInfo {
	return types.ExtractedInfo{
		Location:     "Downtown",
		FireType:     types.Building,
		Severity:     types.High,
		Confidence:   80,
		UrgencyScore: 5,
		Keywords:     keywords,
	}
}

func corroborator(age time.Duration, keywords ...string) types.IncidentReport {
	return types.IncidentReport{
		ExtractedInfo: types.ExtractedInfo{Keywords: keywords},
		Timestamp:     testNow.Add(-age),
	}
}

func TestVerifyBaseCase(t *testing.T) {
	result := newTestVerifier().Verify(scorableInfo("fire", "smoke"), nil, 0)

	assert.Equal(t, types.Pending, result.Status)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Zero(t, result.SimilarReportsCount)
	assert.Empty(t, result.VerifiedBy)
}

func TestVerifyUrgencyBonus(t *testing.T) {
	info := scorableInfo("fire", "smoke")
	info.UrgencyScore = 9

	result := newTestVerifier().Verify(info, nil, 0)
	assert.Equal(t, types.Pending, result.Status)
	assert.InDelta(t, 0.60, result.Confidence, 1e-9)
}

func TestVerifySpecificLocationBonus(t *testing.T) {
	info := scorableInfo("fire", "smoke")
	info.Location = "Echo Park, Los Angeles, California" // longer than 20 chars

	result := newTestVerifier().Verify(info, nil, 0)
	assert.InDelta(t, 0.55, result.Confidence, 1e-9)
}

func TestVerifySingleCorroboratorAddsConfidence(t *testing.T) {
	nearby := []types.IncidentReport{
		corroborator(30*time.Minute, "fire", "warehouse", "smoke"),
	}

	result := newTestVerifier().Verify(scorableInfo("fire", "warehouse"), nearby, len(nearby))
	assert.Equal(t, types.Pending, result.Status)
	assert.Equal(t, 1, result.SimilarReportsCount)
	assert.InDelta(t, 0.65, result.Confidence, 1e-9)
}

func TestVerifyConsensusForcesVerifiedAndClamps(t *testing.T) {
	nearby := []types.IncidentReport{
		corroborator(10*time.Minute, "fire", "warehouse"),
		corroborator(20*time.Minute, "fire", "warehouse", "smoke"),
		corroborator(30*time.Minute, "warehouse", "fire"),
	}

	// 0.5 + 3*0.15 + 0.20 = 1.15, clamped.
	result := newTestVerifier().Verify(scorableInfo("fire", "warehouse"), nearby, len(nearby))
	assert.Equal(t, types.Verified, result.Status)
	assert.Equal(t, 3, result.SimilarReportsCount)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestVerifyDuplicateCandidateKeywordsCountOnce(t *testing.T) {
	// A fallback-path candidate can carry repeated keywords; repeats must not
	// inflate the intersection past the single shared keyword.
	nearby := []types.IncidentReport{
		corroborator(10*time.Minute, "fire", "fire", "everywhere"),
	}

	result := newTestVerifier().Verify(scorableInfo("fire", "smoke"), nearby, len(nearby))
	assert.Equal(t, types.Pending, result.Status)
	assert.Zero(t, result.SimilarReportsCount)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
}

func TestVerifySpecificLocationBonusCountsCharacters(t *testing.T) {
	// 12 characters, 36 bytes. Byte length must not trigger the bonus.
	info := scorableInfo("fire", "smoke")
	info.Location = "東京都渋谷区道玄坂一丁目"

	result := newTestVerifier().Verify(info, nil, 0)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)

	info.Location = strings.Repeat("区", specificLocationLength+1)
	result = newTestVerifier().Verify(info, nil, 0)
	assert.InDelta(t, 0.55, result.Confidence, 1e-9)
}

func TestVerifyIgnoresStaleAndWeakOverlap(t *testing.T) {
	nearby := []types.IncidentReport{
		corroborator(2*time.Hour, "fire", "warehouse"), // outside the 1h window
		corroborator(10*time.Minute, "fire"),           // only one shared keyword
	}

	result := newTestVerifier().Verify(scorableInfo("fire", "warehouse"), nearby, len(nearby))
	assert.Equal(t, types.Pending, result.Status)
	assert.Zero(t, result.SimilarReportsCount)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
}

func TestVerifyCasualtyOverrideReplacesConfidence(t *testing.T) {
	info := scorableInfo("fire", "warehouse")
	info.HasCasualties = true
	info.UrgencyScore = 10
	nearby := []types.IncidentReport{
		corroborator(10*time.Minute, "fire", "warehouse"),
		corroborator(20*time.Minute, "fire", "warehouse"),
	}

	result := newTestVerifier().Verify(info, nearby, len(nearby))
	assert.Equal(t, types.Verified, result.Status)
	assert.Equal(t, 0.90, result.Confidence)
	assert.Equal(t, 2, result.SimilarReportsCount)
}

func TestVerifyShortCircuitsPartialExtraction(t *testing.T) {
	partial := types.ExtractedInfo{
		Location: "Nearby area",
		FireType: types.UnknownFire,
		Keywords: []string{"fire", "smoke"},
		// Severity and Confidence unset.
	}

	result := newTestVerifier().Verify(partial, nil, 7)
	assert.Equal(t, types.Pending, result.Status)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Equal(t, 7, result.SimilarReportsCount)
	assert.Equal(t, "awaiting analysis", result.Reason)
	assert.Empty(t, result.VerifiedBy)
}

func TestVerifyRuleBasedRoundTrip(t *testing.T) {
	v := newTestVerifier()

	calm := extraction.ExtractRuleBased(context.Background(), "Small brush fire near the hiking trail, no one around", types.GeoPoint{Latitude: 34, Longitude: -118}, nil)
	result := v.Verify(calm, nil, 3)
	assert.Equal(t, types.Pending, result.Status)
	assert.Equal(t, 3, result.SimilarReportsCount)

	// Casualty language still verifies even on the partial schema.
	urgent := extraction.ExtractRuleBased(context.Background(), "Large fire in warehouse, people trapped inside", types.GeoPoint{Latitude: 34, Longitude: -118}, nil)
	require.True(t, urgent.HasCasualties)
	result = v.Verify(urgent, nil, 0)
	assert.Equal(t, types.Verified, result.Status)
	assert.Equal(t, 0.90, result.Confidence)
}
