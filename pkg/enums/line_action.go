package enums

import "fmt"

// LineAction tells the ERP what to do with a journal line during an update.
type LineAction string

const (
	LineActionAdd    LineAction = "Add"
	LineActionUpdate LineAction = "Update"
	LineActionDelete LineAction = "Delete"
)

var validLineActions = []LineAction{
	LineActionAdd,
	LineActionUpdate,
	LineActionDelete,
}

// String implements fmt.Stringer.
func (a LineAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known LineAction.
func (a LineAction) IsValid() bool {
	for _, candidate := range validLineActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseLineAction converts raw input into a LineAction.
func ParseLineAction(value string) (LineAction, error) {
	for _, candidate := range validLineActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line action %q", value)
}
