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


// Package cache provides the TTL memo for semantic scoring results.
//
// A Store is an explicitly constructed, injectable instance: created at
// service start and handed to the components that need it, never process
// global. Keys are BLAKE2b hashes over the canonical serialization of
// {query text, ordered candidate snapshot, model identifier}.
package cache
