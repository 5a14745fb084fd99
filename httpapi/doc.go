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


// Package httpapi exposes refind over HTTP.
//
// Endpoints:
//
//	POST   /rerank      rank caller-supplied candidates against a query
//	POST   /search      rank the stored found items against a query
//	POST   /items       store found items
//	GET    /items       list stored items
//	GET    /items/{id}  fetch one stored item
//	DELETE /items/{id}  remove a stored item
//	GET    /healthz     liveness probe
//	GET    /metrics     Prometheus metrics, when a registry is attached
//
// Validation failures return 400 with {"error": "..."}; an empty candidate
// set returns 200 with an empty array. Semantic-scorer outages never
// surface as HTTP errors, the ranking degrades to rule-only instead.
package httpapi
