package scoring

import "math"

// ScoreResults holds the five quality axes for one piece of content.
// SlopScore and VendorSpeakScore are "lower is better"; the other three
// are "higher is better". All axes run 0-10.
type ScoreResults struct {
	SlopScore         float64       `json:"slopScore"`
	VendorSpeakScore  float64       `json:"vendorSpeakScore"`
	AuthenticityScore float64       `json:"authenticityScore"`
	SpecificityScore  float64       `json:"specificityScore"`
	PersonaAvgScore   float64       `json:"personaAvgScore"`
	SlopAnalysis      *SlopAnalysis `json:"slopAnalysis,omitempty"`
}

// Thresholds are the per-voice-profile quality gates.
type Thresholds struct {
	SlopMax         float64 `json:"slopMax"`
	VendorSpeakMax  float64 `json:"vendorSpeakMax"`
	AuthenticityMin float64 `json:"authenticityMin"`
	SpecificityMin  float64 `json:"specificityMin"`
	PersonaMin      float64 `json:"personaMin"`
}

// DefaultThresholds applies when a voice profile has none configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SlopMax:         5,
		VendorSpeakMax:  5,
		AuthenticityMin: 6,
		SpecificityMin:  6,
		PersonaMin:      6,
	}
}

// CheckQualityGates is true iff every axis clears its threshold.
// There is no partial-pass state.
func CheckQualityGates(s ScoreResults, t Thresholds) bool {
	return s.SlopScore <= t.SlopMax &&
		s.VendorSpeakScore <= t.VendorSpeakMax &&
		s.AuthenticityScore >= t.AuthenticityMin &&
		s.SpecificityScore >= t.SpecificityMin &&
		s.PersonaAvgScore >= t.PersonaMin
}

// TotalQualityScore reduces the five axes to one scalar, used only to rank
// candidates against each other. Never shown to the user.
func TotalQualityScore(s ScoreResults) float64 {
	return (10 - s.SlopScore) + (10 - s.VendorSpeakScore) +
		s.AuthenticityScore + s.SpecificityScore + s.PersonaAvgScore
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(10, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
