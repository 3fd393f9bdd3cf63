package scoring

import (
	"fmt"
)

// WeightTable maps trait names to their scoring coefficients.
// A trait missing from the table contributes 0 to the raw score.
type WeightTable map[string]uint32

// DefaultWeights returns the genesis weight distribution.
func DefaultWeights() WeightTable {
	return WeightTable{
		TraitBackground: 150,
		TraitBody:       200,
		TraitEyes:       250,
		TraitAccessory:  300,
		TraitSpecial:    400,
	}
}

// ValidateWeight checks a candidate weight update: the name must belong to
// the closed trait set and the weight must not exceed MaxWeight.
func ValidateWeight(name string, weight uint32) error {
	if !ValidTraitName(name) {
		return fmt.Errorf("%w: unknown trait %q", ErrInvalidAttribute, name)
	}
	if weight > MaxWeight {
		return fmt.Errorf("%w: %s=%d exceeds %d", ErrInvalidWeight, name, weight, MaxWeight)
	}
	return nil
}

// Validate checks every entry of the table against ValidateWeight.
func (w WeightTable) Validate() error {
	for name, weight := range w {
		if err := ValidateWeight(name, weight); err != nil {
			return err
		}
	}
	return nil
}
