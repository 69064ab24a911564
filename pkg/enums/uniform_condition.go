package enums

import "fmt"

// UniformCondition describes the wear state of a uniform item.
type UniformCondition string

const (
	UniformConditionUsed UniformCondition = "Used"
	UniformConditionNew  UniformCondition = "New"
)

var validUniformConditions = []UniformCondition{
	UniformConditionUsed,
	UniformConditionNew,
}

// String implements fmt.Stringer.
func (c UniformCondition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known UniformCondition.
func (c UniformCondition) IsValid() bool {
	for _, candidate := range validUniformConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseUniformCondition converts raw input into a UniformCondition.
func ParseUniformCondition(value string) (UniformCondition, error) {
	for _, candidate := range validUniformConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid uniform condition %q", value)
}
