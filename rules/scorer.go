// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rules

import (
	"math"
	"strings"

	"github.com/poiesic/refind/core"
)

// Config holds the attribute weights and decay parameters for rule scoring.
type Config struct {
	// BrandWeight is added when the candidate's brand appears in the query.
	BrandWeight float64

	// ColorWeight is added when the candidate's color appears in the query.
	ColorWeight float64

	// PlaceWeight is added when the candidate's stored place appears in the query.
	PlaceWeight float64

	// TextWeight is added once for a name match and once for a features-text
	// match; the two checks are independent.
	TextWeight float64

	// SigmaKm is the Gaussian spatial decay radius in kilometers.
	SigmaKm float64

	// HalfLifeHours is the temporal decay half-life. A non-positive value
	// disables temporal decay.
	HalfLifeHours float64
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() Config {
	return Config{
		BrandWeight:   20.0,
		ColorWeight:   15.0,
		PlaceWeight:   15.0,
		TextWeight:    10.0,
		SigmaKm:       2.0,
		HalfLifeHours: 72.0,
	}
}

// Scorer computes deterministic rule-based match scores for candidates.
// It is stateless and safe for concurrent use.
type Scorer struct {
	cfg Config
}

// NewScorer creates a rule scorer with the given configuration.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the raw rule score for a candidate against the query.
//
// Attribute weights accumulate for each candidate attribute found as a
// case-insensitive substring of the query, then the sum is attenuated by
// spatial and temporal decay. Missing optional fields skip their term; the
// result is a non-negative float on a roughly 0-100 scale. Scale
// reconciliation with the [0,1] semantic scores happens downstream.
func (s *Scorer) Score(query string, candidate *core.Candidate) float64 {
	if candidate == nil {
		return 0.0
	}

	q := strings.ToLower(query)
	score := 0.0

	boost := func(token string, weight float64) {
		t := strings.ToLower(token)
		if t != "" && strings.Contains(q, t) {
			score += weight
		}
	}

	boost(candidate.Brand, s.cfg.BrandWeight)
	boost(candidate.Color, s.cfg.ColorWeight)
	boost(candidate.StoredPlace, s.cfg.PlaceWeight)

	// Name and features are checked independently, so both can contribute.
	boost(candidate.Name, s.cfg.TextWeight)
	boost(candidate.FeaturesText, s.cfg.TextWeight)

	score *= s.distancePenalty(candidate.DistanceKm)
	score *= s.timeDecay(candidate.MinutesSinceFound)

	return score
}

// distancePenalty returns the Gaussian spatial decay multiplier.
// An unknown distance is not evidence against a match, so nil yields 1.0.
func (s *Scorer) distancePenalty(distanceKm *float64) float64 {
	if distanceKm == nil {
		return 1.0
	}
	sigma := math.Max(s.cfg.SigmaKm, 1e-6)
	return math.Exp(-(*distanceKm * *distanceKm) / (2 * sigma * sigma))
}

// timeDecay returns the exponential temporal decay multiplier.
// nil elapsed time yields 1.0, same policy as distancePenalty.
func (s *Scorer) timeDecay(minutesSinceFound *float64) float64 {
	if minutesSinceFound == nil {
		return 1.0
	}
	halfLifeMins := s.cfg.HalfLifeHours * 60.0
	if halfLifeMins <= 0 {
		return 1.0
	}
	return math.Pow(0.5, *minutesSinceFound/halfLifeMins)
}
