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


package core

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ValidateQuery validates search query text.
//
// Validation rules:
//   - Query must not be empty after trimming whitespace
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// ValidateCandidate validates a Candidate at the pipeline boundary.
// Internal pipeline stages operate on validated candidates and never
// re-check these rules.
//
// Validation rules:
//   - ItemId must be positive
//   - DistanceKm, when present, must be finite and non-negative
//   - MinutesSinceFound, when present, must be finite and non-negative
//
// NOT validated (all attribute fields are optional):
//   - Name, Category, Brand, Color, StoredPlace, FeaturesText, CreatedAt
func ValidateCandidate(candidate *Candidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if candidate.ItemId <= 0 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidCandidate, ErrInvalidItemId, candidate.ItemId)
	}

	if candidate.DistanceKm != nil && !isFiniteNonNegative(*candidate.DistanceKm) {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrInvalidDistance)
	}

	if candidate.MinutesSinceFound != nil && !isFiniteNonNegative(*candidate.MinutesSinceFound) {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrInvalidElapsed)
	}

	return nil
}

// ValidateFoundItem validates a FoundItem according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - FoundAt must not be in the future
//
// NOT validated:
//   - ID (0 is valid from database sequences)
//   - Optional attribute fields
func ValidateFoundItem(item *FoundItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidFoundItem)
	}

	if item.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFoundItem, ErrEmptyName)
	}

	if !IsValidTimestamp(item.FoundAt) {
		return fmt.Errorf("%w: %w", ErrInvalidFoundItem, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
