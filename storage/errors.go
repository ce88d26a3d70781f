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


package storage

import "errors"

// ErrNotFound is returned when no property has the requested ID.
var ErrNotFound = errors.New("property not found")

var (
	// ErrStorageClosed is returned by a backend used after Close.
	ErrStorageClosed = errors.New("store is closed")

	// ErrInvalidPath is returned when a store cannot be located from its path.
	ErrInvalidPath = errors.New("invalid store path")

	// ErrBackendRequired is returned when a repository is built without a backend.
	ErrBackendRequired = errors.New("storage backend is required")
)

// Decoding failures of stored bytes.
var (
	ErrCorruptValue    = errors.New("corrupt stored value")
	ErrTruncatedVector = errors.New("truncated vector")
)
