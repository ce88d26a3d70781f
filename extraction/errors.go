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


package extraction

import "errors"

var (
	// ErrOracleRequired is returned when an Extractor is built without an oracle
	ErrOracleRequired = errors.New("extraction oracle is required")

	// ErrEmptySource is returned for a request with neither text nor media
	ErrEmptySource = errors.New("source has no text or media")
)
