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


// Package registration turns the raw sources describing one property into a
// stored, searchable canonical profile.
//
// Each source (listing text, photos, a walkthrough video) is sent to the
// extraction oracle on a worker pool. The results are merged in the order
// the caller gave the sources, embedded and saved as a full replacement of
// any earlier registration of the same property.
//
// Example usage:
//
//	r, err := registration.NewRegistrar(provider, repo, registration.WithSyncWrites(true))
//	if err != nil {
//		return err
//	}
//	defer r.Release()
//
//	profile, err := r.Register(ctx, registration.Registration{
//		Sources: []registration.SourceInput{
//			{Kind: core.SourceKindText, Text: listing},
//			{Kind: core.SourceKindImage, Paths: []string{"kitchen.jpg", "hall.jpg"}},
//		},
//	})
package registration
