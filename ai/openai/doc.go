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


// Package openai scores candidate relevance with OpenAI-compatible chat
// APIs via langchaingo, including local services such as LM Studio and
// Ollama.
//
// The model is asked for a strict JSON contract but is never trusted to
// honor it: responses pass through fence stripping, balanced-brace
// extraction, a JSON repair pass, and element-wise coercion before any
// score reaches the reranking pipeline. Every failure mode, including
// timeouts, degrades to a status result rather than an error.
package openai
