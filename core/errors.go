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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidSourceProfile indicates a SourceProfile failed validation.
	ErrInvalidSourceProfile = errors.New("invalid source profile")

	// ErrInvalidPropertyProfile indicates a PropertyProfile failed validation.
	ErrInvalidPropertyProfile = errors.New("invalid property profile")

	// ErrInvalidCriteria indicates SearchCriteria failed validation.
	ErrInvalidCriteria = errors.New("invalid search criteria")

	// ErrEmptyPropertyID indicates the property ID is empty.
	ErrEmptyPropertyID = errors.New("property id cannot be empty")

	// ErrInvalidSourceKind indicates an unknown SourceKind value.
	ErrInvalidSourceKind = errors.New("invalid source kind")

	// ErrNegativeApplianceCount indicates an appliance count below zero.
	ErrNegativeApplianceCount = errors.New("appliance count cannot be negative")

	// ErrInvalidWeight indicates a requirement weight outside {1, 2, 3}.
	ErrInvalidWeight = errors.New("requirement weight must be 1, 2 or 3")

	// ErrInvalidPolarity indicates an unknown Polarity value.
	ErrInvalidPolarity = errors.New("invalid requirement polarity")

	// ErrInvalidPriceBound indicates a price bound with min greater than max.
	ErrInvalidPriceBound = errors.New("price bound minimum exceeds maximum")
)
