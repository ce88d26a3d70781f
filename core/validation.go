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

import (
	"fmt"
)

// ValidateSourceProfile validates a SourceProfile according to domain rules.
//
// Validation rules:
//   - Kind must be image, video or text
//   - Appliance counts must be non-negative
func ValidateSourceProfile(profile *SourceProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidSourceProfile)
	}

	if err := ValidateSourceKind(profile.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSourceProfile, err)
	}

	if err := validateAppliances(profile.Appliances); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSourceProfile, err)
	}

	return nil
}

// ValidatePropertyProfile validates a PropertyProfile according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Appliance counts must be non-negative
//
// NOT validated:
//   - Set fields (may be empty when sources reported nothing)
//   - Timestamps (populated by the store)
func ValidatePropertyProfile(profile *PropertyProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidPropertyProfile)
	}

	if profile.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPropertyProfile, ErrEmptyPropertyID)
	}

	if err := validateAppliances(profile.Appliances); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPropertyProfile, err)
	}

	return nil
}

// ValidateCriteria validates SearchCriteria built by hand or by the interpreter.
func ValidateCriteria(criteria *SearchCriteria) error {
	if criteria == nil {
		return fmt.Errorf("%w: criteria is nil", ErrInvalidCriteria)
	}

	for _, req := range criteria.Requirements {
		if req.Weight != WeightImplied && req.Weight != WeightStated && req.Weight != WeightEmphasized {
			return fmt.Errorf("%w: %w: %q has %v", ErrInvalidCriteria, ErrInvalidWeight, req.Name, req.Weight)
		}
		if req.Polarity != Required && req.Polarity != Excluded {
			return fmt.Errorf("%w: %w: %q", ErrInvalidCriteria, ErrInvalidPolarity, req.Name)
		}
	}

	if b := criteria.PriceBound; b != nil && b.Min != nil && b.Max != nil && *b.Min > *b.Max {
		return fmt.Errorf("%w: %w", ErrInvalidCriteria, ErrInvalidPriceBound)
	}

	return nil
}

// ValidateSourceKind validates that a SourceKind has a valid value.
func ValidateSourceKind(kind SourceKind) error {
	if kind != SourceKindImage && kind != SourceKindVideo && kind != SourceKindText {
		return fmt.Errorf("%w: value %d", ErrInvalidSourceKind, kind)
	}
	return nil
}

func validateAppliances(appliances map[string]int) error {
	for name, count := range appliances {
		if count < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeApplianceCount, name, count)
		}
	}
	return nil
}
