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


// Package ai provides abstractions for the AI services propmatch depends on.
//
// This package defines interfaces for text embeddings and for the extraction
// oracle that turns a raw property source into structured JSON. The core
// pipeline depends on these abstractions rather than on a concrete model
// vendor.
//
// The pipeline sees three interfaces: Embedder for document and query
// vectors, ExtractionOracle for reading one listing source, and AIProvider
// bundling the two for one backend.
//
//   - ai/openai: OpenAI-compatible servers through langchaingo (text and images)
//   - ai/gemini: Google Gemini through google.golang.org/genai (text, images and video)
//   - ai/mock: in-memory doubles that record their calls
//
// Backend constructors return ai.AIProvider. Mock constructors return their
// concrete types so tests can inject behavior and inspect calls.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithBackend(ai.BackendGemini), ai.WithAPIKey(key))
//	provider, err := gemini.NewProvider(ctx, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	raw, err := provider.Oracle().Extract(ctx, ai.ExtractionRequest{
//	    Kind:  core.SourceKindVideo,
//	    Media: []ai.Media{{MIMEType: "video/mp4", Data: walkthrough}},
//	})
//
// Vectors are stored unit length (NormalizeVector) so similarity is a dot
// product. Embedders reject a vector whose length differs from the first one
// they produced (DimensionGuard).
package ai
