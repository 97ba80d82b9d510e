package markup

import "sync/atomic"

// Both toggles are stored inverted so the zero value means enabled.
var (
	childValidationOff     atomic.Bool
	attributeValidationOff atomic.Bool
)

// SetChildValidation turns content model checks on or off and returns the
// previous setting.
func SetChildValidation(on bool) bool {
	return !childValidationOff.Swap(!on)
}

// ChildValidationEnabled reports whether content models are checked.
func ChildValidationEnabled() bool {
	return !childValidationOff.Load()
}

// SetAttributeValidation turns attribute validation on or off and returns
// the previous setting. With validation off, SetAttribute stores values
// as given, including for undeclared names.
func SetAttributeValidation(on bool) bool {
	return !attributeValidationOff.Swap(!on)
}

// AttributeValidationEnabled reports whether attribute writes are validated.
func AttributeValidationEnabled() bool {
	return !attributeValidationOff.Load()
}
