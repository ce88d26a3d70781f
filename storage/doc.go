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


// Package storage defines the persistence abstraction for canonical
// property profiles, their embedding vectors and the search history.
//
// Backends return their concrete types; callers hold them through the
// PropertyRepository and SearchLogRepository interfaces:
//
//	var repo storage.PropertyRepository = store  // store, _ := sqlite.Open(path)
//
// # Backends
//
//   - storage/badger: embedded key-value store, the default
//   - storage/sqlite: single-file SQL store on a pure Go driver
//
// Both store profiles as MUS-encoded blobs (MarshalProperty) and vectors
// as little-endian float32 runs (MarshalVector).
//
// # Vectors
//
// Vectors are stored next to the profile and are expected to be unit
// length. FindSimilar ranks by dot product, which equals cosine similarity
// for normalized vectors. Profiles without a vector are never returned by
// FindSimilar.
//
// Repositories are safe for concurrent use.
package storage
