package transfers

import (
	"github.com/angelmondragon/uniforms-backend/pkg/db/models"
	"github.com/angelmondragon/uniforms-backend/pkg/enums"
	"github.com/angelmondragon/uniforms-backend/pkg/erp"
	"github.com/shopspring/decimal"
)

type employeeFields struct {
	id        string
	guid      string
	firstName string
	lastName  string
}

func employeeFieldsOf(employee *models.Employee) employeeFields {
	if employee == nil {
		return employeeFields{}
	}
	return employeeFields{
		id:        employee.EmployeeID,
		guid:      employee.EmployeeGUID,
		firstName: employee.FirstName,
		lastName:  employee.LastName,
	}
}

func mapRecord(row erp.JournalTableRow, employee *models.Employee, transferType enums.TransferType) Record {
	e := employeeFieldsOf(employee)
	return Record{
		ID:               row.JournalID,
		Date:             row.TransDate,
		InventLocationID: row.LocationID,
		Posted:           row.Posted.Bool(),
		EmployeeID:       e.id,
		EmployeeGUID:     e.guid,
		FirstName:        e.firstName,
		LastName:         e.lastName,
		EmployeeFullName: fullName(e.firstName, e.lastName),
		Type:             transferType,
	}
}

func mapDetails(
	details *erp.JournalDetails,
	frp []erp.ByFRPRow,
	employee *models.Employee,
	itemNames map[string]string,
	inventLocationID string,
	transferType enums.TransferType,
) *Details {
	e := employeeFieldsOf(employee)
	returnable := indexFRP(frp)

	lines := make([]DetailsLine, 0, len(details.Lines()))
	for _, line := range details.Lines() {
		lines = append(lines, DetailsLine{
			LineNum:           int(line.LineNum),
			ItemID:            line.ItemID,
			ItemName:          itemNames[line.ItemID],
			Condition:         line.Condition,
			Quantity:          line.Qty,
			AvailableQuantity: availableQuantity(line, returnable, transferType),
			Reason:            line.ReasonReturn,
		})
	}

	return &Details{
		ID:               details.JournalID,
		Date:             details.TransDate,
		InventLocationID: inventLocationID,
		Posted:           details.Posted.Bool(),
		EmployeeID:       e.id,
		EmployeeGUID:     e.guid,
		FirstName:        e.firstName,
		LastName:         e.lastName,
		EmployeeFullName: fullName(e.firstName, e.lastName),
		Type:             transferType,
		Lines:            lines,
	}
}

// availableQuantity picks the source of truth for a line: the returnable
// quantity for Return journals, otherwise the ERP stock for the line's condition.
func availableQuantity(line erp.JournalDetailsLine, returnable frpIndex, transferType enums.TransferType) decimal.Decimal {
	if transferType == enums.TransferTypeReturn {
		return returnable.quantity(line.ItemID, line.Condition)
	}
	if line.Condition == enums.UniformConditionNew {
		return line.AvailableQtyNew
	}
	return line.AvailableQtyUsed
}

type frpKey struct {
	itemID    string
	condition enums.UniformCondition
}

type frpIndex struct {
	byItemAndCondition map[frpKey]decimal.Decimal
	byItem             map[string]decimal.Decimal
}

// indexFRP keeps the first row seen for each key.
func indexFRP(rows []erp.ByFRPRow) frpIndex {
	idx := frpIndex{
		byItemAndCondition: make(map[frpKey]decimal.Decimal, len(rows)),
		byItem:             make(map[string]decimal.Decimal, len(rows)),
	}
	for _, row := range rows {
		key := frpKey{itemID: row.ItemID, condition: row.Condition}
		if _, ok := idx.byItemAndCondition[key]; !ok {
			idx.byItemAndCondition[key] = row.Qty
		}
		if _, ok := idx.byItem[row.ItemID]; !ok {
			idx.byItem[row.ItemID] = row.Qty
		}
	}
	return idx
}

func (idx frpIndex) quantity(itemID string, condition enums.UniformCondition) decimal.Decimal {
	if qty, ok := idx.byItemAndCondition[frpKey{itemID: itemID, condition: condition}]; ok {
		return qty
	}
	if qty, ok := idx.byItem[itemID]; ok {
		return qty
	}
	return decimal.Zero
}

func createLines(lines []CreateLine) []erp.CreateLine {
	out := make([]erp.CreateLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, erp.CreateLine{
			Condition:    line.Condition,
			ItemID:       line.ItemID,
			Qty:          line.Quantity,
			ReasonReturn: line.Reason,
		})
	}
	return out
}

func updateLines(lines []UpdateLine) []erp.UpdateLine {
	out := make([]erp.UpdateLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, erp.UpdateLine{
			Action:       line.Action,
			Condition:    line.Condition,
			ItemID:       line.ItemID,
			LineNum:      line.LineNum,
			Qty:          line.Quantity,
			ReasonReturn: line.Reason,
		})
	}
	return out
}

func lineItemIDs(details *erp.JournalDetails) []string {
	ids := make([]string, 0, len(details.Lines()))
	for _, line := range details.Lines() {
		ids = append(ids, line.ItemID)
	}
	return ids
}
