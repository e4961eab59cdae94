package domain

import (
	"encoding/json"
	"strings"
)

// Recommendations for third-party signals.
const (
	RecommendationFollow  = "FOLLOW"
	RecommendationSkip    = "SKIP"
	RecommendationCaution = "CAUTION"
)

// SignalVerdict is the model's assessment of a third-party trading signal.
type SignalVerdict struct {
	Recommendation string `json:"recommendation"`
	Confidence     int    `json:"confidence"`
	RiskReward     string `json:"risk_reward"`
	Reason         string `json:"reason"`
}

// SkipVerdict returns the canonical negative verdict with a diagnostic reason.
func SkipVerdict(reason string) SignalVerdict {
	return SignalVerdict{
		Recommendation: RecommendationSkip,
		Confidence:     0,
		RiskReward:     "N/A",
		Reason:         reason,
	}
}

type verdictPayload struct {
	Recommendation string   `json:"recommendation"`
	Confidence     *float64 `json:"confidence"`
	RiskReward     string   `json:"risk_reward"`
	Reason         string   `json:"reason"`
}

// ParseSignalVerdict decodes a signal assessment from a raw model response.
// Failures yield SKIP with a diagnostic, never an error.
func ParseSignalVerdict(raw string) SignalVerdict {
	payload, ok := ExtractJSONObject(raw)
	if !ok {
		return SkipVerdict("no JSON object found in model response")
	}

	var p verdictPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return SkipVerdict("malformed JSON in model response: " + Truncate(err.Error(), 80))
	}

	v := SignalVerdict{
		Recommendation: strings.ToUpper(strings.TrimSpace(p.Recommendation)),
		RiskReward:     defaultString(p.RiskReward, "N/A"),
		Reason:         defaultString(p.Reason, "no assessment provided"),
	}
	if p.Confidence != nil {
		v.Confidence = clampConfidence(*p.Confidence)
	}

	switch v.Recommendation {
	case RecommendationFollow, RecommendationSkip, RecommendationCaution:
	default:
		v.Recommendation = RecommendationSkip
	}

	return v
}

// ChartAnalysis is the model's read of a chart image.
type ChartAnalysis struct {
	Trend            string    `json:"trend"`
	Structure        string    `json:"structure"`
	SupportLevels    []float64 `json:"support_levels"`
	ResistanceLevels []float64 `json:"resistance_levels"`
	Pattern          string    `json:"pattern"`
	Recommendation   string    `json:"recommendation"`
	Confidence       int       `json:"confidence"`
	Reason           string    `json:"reason"`
}

// maxChartLevels caps support/resistance levels reported per side.
const maxChartLevels = 3

// SkipChartAnalysis returns the canonical negative chart analysis.
func SkipChartAnalysis(reason string) ChartAnalysis {
	return ChartAnalysis{
		Trend:          TrendUnknown,
		Structure:      "NEUTRAL",
		Recommendation: RecommendationSkip,
		Confidence:     0,
		Reason:         reason,
	}
}

type chartPayload struct {
	Trend            string    `json:"trend"`
	Structure        string    `json:"structure"`
	SupportLevels    []float64 `json:"support_levels"`
	ResistanceLevels []float64 `json:"resistance_levels"`
	Pattern          string    `json:"pattern"`
	Recommendation   string    `json:"recommendation"`
	Confidence       *float64  `json:"confidence"`
	Reason           string    `json:"reason"`
}

// ParseChartAnalysis decodes a chart assessment from a raw model response.
// An unparseable response downgrades to CAUTION so a blurry chart is
// distinguishable from a failed download.
func ParseChartAnalysis(raw string) ChartAnalysis {
	payload, ok := ExtractJSONObject(raw)
	if !ok {
		a := SkipChartAnalysis("no JSON object found in model response")
		a.Recommendation = RecommendationCaution
		return a
	}

	var p chartPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		a := SkipChartAnalysis("malformed JSON in model response: " + Truncate(err.Error(), 80))
		a.Recommendation = RecommendationCaution
		return a
	}

	a := ChartAnalysis{
		Trend:            defaultString(strings.ToUpper(strings.TrimSpace(p.Trend)), TrendUnknown),
		Structure:        defaultString(strings.ToUpper(strings.TrimSpace(p.Structure)), "NEUTRAL"),
		SupportLevels:    capLevels(p.SupportLevels),
		ResistanceLevels: capLevels(p.ResistanceLevels),
		Pattern:          p.Pattern,
		Recommendation:   strings.ToUpper(strings.TrimSpace(p.Recommendation)),
		Reason:           defaultString(p.Reason, "chart analysis"),
	}
	if p.Confidence != nil {
		a.Confidence = clampConfidence(*p.Confidence)
	}

	switch a.Recommendation {
	case RecommendationFollow, RecommendationSkip, RecommendationCaution:
	default:
		a.Recommendation = RecommendationCaution
	}

	return a
}

func capLevels(levels []float64) []float64 {
	if len(levels) > maxChartLevels {
		return levels[:maxChartLevels]
	}
	return levels
}
