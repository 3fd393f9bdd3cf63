package scoring

import (
	"errors"
	"fmt"
)

// The five trait names form a closed set: no name may be added or removed,
// and weight updates against any other name are rejected.
const (
	TraitBackground = "background"
	TraitBody       = "body"
	TraitEyes       = "eyes"
	TraitAccessory  = "accessory"
	TraitSpecial    = "special"
)

// TraitNames lists the traits in canonical scoring order.
var TraitNames = [5]string{TraitBackground, TraitBody, TraitEyes, TraitAccessory, TraitSpecial}

const (
	// MaxTraitValue is the inclusive upper bound for every trait value.
	MaxTraitValue = 100
	// MaxWeight is the inclusive upper bound for every weight.
	MaxWeight = 1000
	// MaxNormalized is the top of the normalized score scale.
	MaxNormalized = 10000
	// MaxBatchSize caps the number of asset ids per batch computation.
	MaxBatchSize = 10
)

var (
	// ErrInvalidAttribute reports a trait value above MaxTraitValue or a
	// trait name outside the closed set.
	ErrInvalidAttribute = errors.New("invalid attribute")
	// ErrInvalidWeight reports a weight above MaxWeight.
	ErrInvalidWeight = errors.New("invalid weight")
)

// AttributeSet holds the five bounded trait values for one asset.
type AttributeSet struct {
	Background uint32 `json:"background"`
	Body       uint32 `json:"body"`
	Eyes       uint32 `json:"eyes"`
	Accessory  uint32 `json:"accessory"`
	Special    uint32 `json:"special"`
}

// Values returns the trait values in canonical order, matching TraitNames.
func (a AttributeSet) Values() [5]uint32 {
	return [5]uint32{a.Background, a.Body, a.Eyes, a.Accessory, a.Special}
}

// Validate checks every trait value against MaxTraitValue. No side effects.
func (a AttributeSet) Validate() error {
	vals := a.Values()
	for i, name := range TraitNames {
		if vals[i] > MaxTraitValue {
			return fmt.Errorf("%w: %s=%d exceeds %d", ErrInvalidAttribute, name, vals[i], MaxTraitValue)
		}
	}
	return nil
}

// ValidTraitName reports whether name belongs to the closed trait set.
func ValidTraitName(name string) bool {
	for _, t := range TraitNames {
		if t == name {
			return true
		}
	}
	return false
}
