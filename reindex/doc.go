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


// Package reindex recomputes the stored embedding of every property.
//
// Run it after switching embedding models or dimensions: vectors produced
// by different models are not comparable, so similarity retrieval returns
// nonsense until the whole catalogue has been re-embedded. Profiles are
// read in ID order, embedded in batches under the retry policy, and only
// their vectors are rewritten.
package reindex
