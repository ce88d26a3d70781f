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


// Package search answers free-text property queries.
//
// The Searcher runs a query through a fixed pipeline:
//   - interpret the text into structured criteria
//   - retrieve similar candidates from the catalogue
//   - score each candidate against the criteria
//   - normalize and rank the survivors
//
// When nothing qualifies the outcome carries a no-match payload with
// suggestions tailored to what the query asked for, rather than an error.
package search
