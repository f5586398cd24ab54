package extraction

import (
	"context"
	"go-firewatch/geocode"
	"go-firewatch/types"
	"strings"
)

const (
	maxKeywords          = 6
	maxDescriptionLength = 120
)

var casualtyMarkers = []string{"injured", "trapped", "casualt"}

// ExtractRuleBased is the deterministic last-resort extractor. It produces a
// partial schema: severity and the oracle confidence stay unset, which routes
// the verifier onto its awaiting-analysis path.
func ExtractRuleBased(ctx context.Context, reportText string, location types.GeoPoint, places PlaceResolver) types.ExtractedInfo {
	placeName := geocode.FallbackPlaceName
	if places != nil {
		placeName = places.ResolvePlaceName(ctx, location.Latitude, location.Longitude)
	}

	return types.ExtractedInfo{
		Location:      placeName,
		FireType:      types.UnknownFire,
		Keywords:      KeywordsFromText(reportText),
		HasCasualties: MentionsCasualties(reportText),
		Description:   Truncate(reportText, maxDescriptionLength),
	}
}

// KeywordsFromText returns the first 6 lowercase words longer than 3
// characters, in text order. No dedup and no stop-word filtering: this path
// is a last resort and stays deliberately simple.
func KeywordsFromText(reportText string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(reportText)) {
		if len(word) <= 3 {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// MentionsCasualties runs a simple substring check for casualty language.
func MentionsCasualties(reportText string) bool {
	lowered := strings.ToLower(reportText)
	for _, marker := range casualtyMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// Truncate cuts the text to at most n characters, verbatim, including any
// partial word at the cut.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
