package transfers

import (
	"github.com/angelmondragon/uniforms-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caller identifies the authenticated user acting on journals.
type Caller struct {
	UserID     uuid.UUID
	EmployeeID string
}

// Record is the read-only header view of one journal in a list.
type Record struct {
	ID               string
	Date             string
	InventLocationID string
	Posted           bool
	EmployeeID       string
	EmployeeGUID     string
	FirstName        string
	LastName         string
	EmployeeFullName string
	Type             enums.TransferType
}

// Details is a single journal with its lines and computed availability.
type Details struct {
	ID               string
	Date             string
	InventLocationID string
	Posted           bool
	EmployeeID       string
	EmployeeGUID     string
	FirstName        string
	LastName         string
	EmployeeFullName string
	Type             enums.TransferType
	Lines            []DetailsLine
}

type DetailsLine struct {
	LineNum           int
	ItemID            string
	ItemName          string
	Condition         enums.UniformCondition
	Quantity          decimal.Decimal
	AvailableQuantity decimal.Decimal
	Reason            string
}

func fullName(firstName, lastName string) string {
	return firstName + " " + lastName
}
