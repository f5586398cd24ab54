package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"go-firewatch/types"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const oracleTimeout = 8 * time.Second

const promptTemplate = `Analyze this fire report and respond ONLY in valid JSON.

Report: %q
GPS: %f, %f

JSON:
{
  "location": "specific place",
  "fireType": "wildfire|building|vehicle|industrial|electrical|unknown",
  "severity": "low|moderate|high|critical",
  "confidence": 0-100,
  "urgencyScore": 0-10,
  "keywords": ["fire", "smoke"],
  "hasCasualties": true or false,
  "reason": "one sentence rationale"
}`

// ChatOracle is the slice of the OpenAI client the adapter uses.
type ChatOracle interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// PlaceResolver resolves coordinates to a short place descriptor.
type PlaceResolver interface {
	ResolvePlaceName(ctx context.Context, lat, lon float64) string
}

// Adapter extracts structured fire info from free report text via the
// text-understanding oracle. The oracle is treated as unreliable: malformed,
// empty or late output degrades to a synthesized safe default, so Extract
// always returns a fully populated ExtractedInfo and never fails.
type Adapter struct {
	oracle  ChatOracle
	places  PlaceResolver
	timeout time.Duration
}

func NewAdapter(oracle ChatOracle, places PlaceResolver) *Adapter {
	return &Adapter{oracle: oracle, places: places, timeout: oracleTimeout}
}

func (a *Adapter) Extract(ctx context.Context, reportText string, location types.GeoPoint) types.ExtractedInfo {
	info, err := a.callOracle(ctx, reportText, location)
	if err != nil {
		log.Printf("Extraction oracle failed, using safe default: %v", err)
		info = SafeDefault(reportText)
	}

	// Always overwrite with the geocoded name. The oracle's own place-name
	// guess is never trusted.
	info.Location = a.places.ResolvePlaceName(ctx, location.Latitude, location.Longitude)

	return info
}

// oracleResult mirrors the JSON object the prompt requests. Numeric fields
// are float64 so a model emitting "confidence": 87.5 still parses.
type oracleResult struct {
	Location      string   `json:"location"`
	FireType      string   `json:"fireType"`
	Severity      string   `json:"severity"`
	Confidence    float64  `json:"confidence"`
	UrgencyScore  float64  `json:"urgencyScore"`
	Keywords      []string `json:"keywords"`
	HasCasualties bool     `json:"hasCasualties"`
	Reason        string   `json:"reason"`
}

func (a *Adapter) callOracle(ctx context.Context, reportText string, location types.GeoPoint) (types.ExtractedInfo, error) {
	var info types.ExtractedInfo
	if a.oracle == nil {
		return info, fmt.Errorf("no oracle client configured")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.oracle.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an assistant specializing in analyzing citizen fire reports. Respond with strict JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, reportText, location.Latitude, location.Longitude),
			},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return info, fmt.Errorf("oracle request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return info, fmt.Errorf("oracle returned no choices")
	}

	cleaned := StripCodeFence(resp.Choices[0].Message.Content)
	if cleaned == "" {
		return info, fmt.Errorf("oracle returned empty content")
	}

	var result oracleResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return info, fmt.Errorf("oracle returned non-JSON content: %w", err)
	}

	return normalize(result), nil
}

// normalize cleans the oracle's best-effort guess into a valid ExtractedInfo.
func normalize(result oracleResult) types.ExtractedInfo {
	info := types.ExtractedInfo{
		Location:      result.Location,
		FireType:      types.UnknownFire,
		Severity:      types.Moderate,
		Confidence:    clampInt(int(result.Confidence), 0, 100),
		UrgencyScore:  clampInt(int(result.UrgencyScore), 0, 10),
		HasCasualties: result.HasCasualties,
		Reason:        strings.TrimSpace(result.Reason),
	}

	switch types.FireType(strings.ToLower(strings.TrimSpace(result.FireType))) {
	case types.Wildfire, types.Building, types.Vehicle, types.Industrial, types.Electrical:
		info.FireType = types.FireType(strings.ToLower(strings.TrimSpace(result.FireType)))
	}

	switch types.Severity(strings.ToLower(strings.TrimSpace(result.Severity))) {
	case types.Low, types.High, types.Critical:
		info.Severity = types.Severity(strings.ToLower(strings.TrimSpace(result.Severity)))
	}

	if info.Confidence == 0 {
		info.Confidence = fallbackConfidence
	}

	for _, keyword := range result.Keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			info.Keywords = append(info.Keywords, keyword)
		}
	}
	// Only a missing keywords field gets the default. An explicit empty list
	// is a statement by the oracle and is kept.
	if result.Keywords == nil {
		info.Keywords = []string{"fire"}
	}

	return info
}

const (
	fallbackConfidence   = 60
	fallbackUrgencyScore = 6
)

// SafeDefault synthesizes a degraded-but-valid extraction result used when
// the oracle is unavailable or its output is unusable. Location is left for
// the caller to resolve via geocoding.
func SafeDefault(reportText string) types.ExtractedInfo {
	return types.ExtractedInfo{
		FireType:      types.Building,
		Severity:      types.Moderate,
		Confidence:    fallbackConfidence,
		UrgencyScore:  fallbackUrgencyScore,
		Keywords:      KeywordsFromText(reportText),
		HasCasualties: MentionsCasualties(reportText),
		Reason:        "fallback used due to extraction error",
		Description:   Truncate(reportText, maxDescriptionLength),
	}
}

var codeFence = regexp.MustCompile("(?i)```(?:json)?")

// StripCodeFence removes markdown code-fence wrapping the oracle tends to add
// around JSON payloads.
func StripCodeFence(raw string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(raw, ""))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
