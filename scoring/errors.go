package scoring

import "errors"

// ErrInvalidBonuses indicates a bonus table with a negative entry.
var ErrInvalidBonuses = errors.New("bonuses cannot be negative")
