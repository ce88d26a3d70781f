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

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/poiesic/propmatch/core"
)

// MarshalProperty serializes a PropertyProfile to bytes.
func MarshalProperty(profile *core.PropertyProfile) []byte {
	buf := make([]byte, core.PropertyProfileMUS.Size(*profile))
	core.PropertyProfileMUS.Marshal(*profile, buf)
	return buf
}

// UnmarshalProperty deserializes a PropertyProfile from bytes.
func UnmarshalProperty(data []byte) (*core.PropertyProfile, error) {
	profile, _, err := core.PropertyProfileMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: property: %w", ErrCorruptValue, err)
	}
	return &profile, nil
}

// MarshalSearchLog serializes a SearchLogEntry to bytes.
func MarshalSearchLog(entry core.SearchLogEntry) []byte {
	buf := make([]byte, core.SearchLogEntryMUS.Size(entry))
	core.SearchLogEntryMUS.Marshal(entry, buf)
	return buf
}

// UnmarshalSearchLog deserializes a SearchLogEntry from bytes.
func UnmarshalSearchLog(data []byte) (core.SearchLogEntry, error) {
	entry, _, err := core.SearchLogEntryMUS.Unmarshal(data)
	if err != nil {
		return core.SearchLogEntry{}, fmt.Errorf("%w: search log: %w", ErrCorruptValue, err)
	}
	return entry, nil
}

// MarshalVector encodes a vector as consecutive little-endian float32 values.
func MarshalVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, f := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// UnmarshalVector decodes bytes written by MarshalVector.
func UnmarshalVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: vector of %d bytes", ErrTruncatedVector, len(data))
	}
	if len(data) == 0 {
		return nil, nil
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vector, nil
}
