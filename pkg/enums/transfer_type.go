package enums

import "fmt"

// TransferType is the kind of uniform journal handled by the ERP.
type TransferType string

const (
	TransferTypeNone     TransferType = "None"
	TransferTypeIssuance TransferType = "Issuance"
	TransferTypeReturn   TransferType = "Return"
	TransferTypeWriteOff TransferType = "WriteOff"
)

var validTransferTypes = []TransferType{
	TransferTypeNone,
	TransferTypeIssuance,
	TransferTypeReturn,
	TransferTypeWriteOff,
}

// TransferTypes returns every known transfer type in declaration order.
func TransferTypes() []TransferType {
	out := make([]TransferType, len(validTransferTypes))
	copy(out, validTransferTypes)
	return out
}

// String implements fmt.Stringer.
func (t TransferType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransferType.
func (t TransferType) IsValid() bool {
	for _, candidate := range validTransferTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// RequiresReason reports whether journal lines of this type must carry a return reason.
func (t TransferType) RequiresReason() bool {
	return t == TransferTypeReturn
}

// ParseTransferType converts raw input into a TransferType.
func ParseTransferType(value string) (TransferType, error) {
	for _, candidate := range validTransferTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transfer type %q", value)
}
