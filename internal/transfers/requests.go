package transfers

import (
	"time"

	"github.com/angelmondragon/uniforms-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	InventLocationID string
	Date             time.Time
	EmployeeID       string
	Type             enums.TransferType
	Lines            []CreateLine
}

type CreateLine struct {
	ItemID    string
	Condition enums.UniformCondition
	Quantity  decimal.Decimal
	Reason    string
}

type UpdateRequest struct {
	InventLocationID string
	EmployeeID       string
	Type             enums.TransferType
	Lines            []UpdateLine
}

type UpdateLine struct {
	Action    enums.LineAction
	ItemID    string
	LineNum   int
	Condition enums.UniformCondition
	Quantity  decimal.Decimal
	Reason    string
}

// LineRequest targets a single line of an existing journal.
type LineRequest struct {
	TransferID       string
	ItemID           string
	Condition        enums.UniformCondition
	Quantity         decimal.Decimal
	Reason           string
	Type             enums.TransferType
	InventLocationID string
}
