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

import "errors"

// Domain validation errors
var (
	// ErrEmptyQuery indicates the search query text is empty after trimming.
	ErrEmptyQuery = errors.New("query text cannot be empty")

	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrInvalidItemId indicates a candidate's item id is not positive.
	ErrInvalidItemId = errors.New("item id must be positive")

	// ErrInvalidDistance indicates a negative or non-finite distance.
	ErrInvalidDistance = errors.New("distance must be a finite non-negative number")

	// ErrInvalidElapsed indicates negative or non-finite elapsed minutes.
	ErrInvalidElapsed = errors.New("minutes since found must be a finite non-negative number")

	// ErrInvalidFoundItem indicates a FoundItem failed validation.
	ErrInvalidFoundItem = errors.New("invalid found item")

	// ErrEmptyName indicates the item Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
