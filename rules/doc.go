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


// Package rules provides the deterministic half of the match scoring.
//
// The Scorer assigns fixed weights for candidate attributes (brand, color,
// stored place, name, free-text features) found in the searcher's query and
// attenuates the sum with Gaussian spatial decay and exponential temporal
// decay. It is a pure function of its inputs: no I/O, no errors, no
// mutation of the candidate.
package rules
