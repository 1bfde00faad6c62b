package country

import (
	"fmt"

	"github.com/gookit/validate"
)

// InputValidator wraps gookit/validate for the shape-level checks on an
// Input: a thin constructor plus a Validate() error method, the same shape
// as providers.CnfValidator in the config-loading stack.
type InputValidator struct {
	input *Input
}

func NewInputValidator(input *Input) *InputValidator {
	return &InputValidator{input: input}
}

// Validate runs the struct-tag validation rules declared on Input and
// ZoneMappingInput. It reports the first shape-level problem found; deeper,
// cross-field invariants are the job of Resolve.
func (v *InputValidator) Validate() error {
	vd := validate.Struct(v.input)
	if !vd.Validate() {
		return fmt.Errorf("country input invalid: %s", vd.Errors.One())
	}
	for i := range v.input.Zones {
		zvd := validate.Struct(&v.input.Zones[i])
		if !zvd.Validate() {
			return fmt.Errorf("zone mapping %d invalid: %s", i, zvd.Errors.One())
		}
	}
	return nil
}
