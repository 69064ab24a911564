package controllers

import (
	"sort"

	"github.com/angelmondragon/uniforms-backend/internal/transfers"
	"github.com/angelmondragon/uniforms-backend/pkg/filters"
	"github.com/shopspring/decimal"
)

type transferResource struct {
	ID               string `json:"id"`
	Date             string `json:"date"`
	InventLocationID string `json:"inventLocationId"`
	Posted           bool   `json:"posted"`
	Type             string `json:"type"`
	EmployeeID       string `json:"employeeId"`
	EmployeeGUID     string `json:"employeeGuid"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	EmployeeFullName string `json:"employeeFullName"`
}

type transferDetailsResource struct {
	transferResource
	Lines []transferLineResource `json:"lines"`
}

type transferLineResource struct {
	LineNum           int             `json:"lineNum"`
	ItemID            string          `json:"itemId"`
	ItemName          string          `json:"itemName"`
	Condition         string          `json:"condition"`
	Quantity          decimal.Decimal `json:"quantity"`
	AvailableQuantity decimal.Decimal `json:"availableQuantity"`
	Reason            string          `json:"reason"`
}

// transferFilterRules lists the query fields a transfer list can be narrowed by.
var transferFilterRules = filters.Rules{
	"id":               filters.CastString,
	"date":             filters.CastString,
	"inventLocationId": filters.CastString,
	"posted":           filters.CastBoolean,
	"type":             filters.CastString,
	"employeeId":       filters.CastString,
	"firstName":        filters.CastString,
	"lastName":         filters.CastString,
	"employeeFullName": filters.CastString,
}

func toTransferResource(rec transfers.Record) transferResource {
	return transferResource{
		ID:               rec.ID,
		Date:             rec.Date,
		InventLocationID: rec.InventLocationID,
		Posted:           rec.Posted,
		Type:             rec.Type.String(),
		EmployeeID:       rec.EmployeeID,
		EmployeeGUID:     rec.EmployeeGUID,
		FirstName:        rec.FirstName,
		LastName:         rec.LastName,
		EmployeeFullName: rec.EmployeeFullName,
	}
}

func toTransferDetailsResource(d *transfers.Details) transferDetailsResource {
	lines := make([]transferLineResource, 0, len(d.Lines))
	for _, line := range d.Lines {
		lines = append(lines, transferLineResource{
			LineNum:           line.LineNum,
			ItemID:            line.ItemID,
			ItemName:          line.ItemName,
			Condition:         line.Condition.String(),
			Quantity:          line.Quantity,
			AvailableQuantity: line.AvailableQuantity,
			Reason:            line.Reason,
		})
	}
	return transferDetailsResource{
		transferResource: transferResource{
			ID:               d.ID,
			Date:             d.Date,
			InventLocationID: d.InventLocationID,
			Posted:           d.Posted,
			Type:             d.Type.String(),
			EmployeeID:       d.EmployeeID,
			EmployeeGUID:     d.EmployeeGUID,
			FirstName:        d.FirstName,
			LastName:         d.LastName,
			EmployeeFullName: d.EmployeeFullName,
		},
		Lines: lines,
	}
}

func transferFieldValue(res transferResource, field string) (any, bool) {
	switch field {
	case "id":
		return res.ID, true
	case "date":
		return res.Date, true
	case "inventLocationId":
		return res.InventLocationID, true
	case "posted":
		return res.Posted, true
	case "type":
		return res.Type, true
	case "employeeId":
		return res.EmployeeID, true
	case "firstName":
		return res.FirstName, true
	case "lastName":
		return res.LastName, true
	case "employeeFullName":
		return res.EmployeeFullName, true
	}
	return nil, false
}

// sortByDateDesc orders transfers newest first; equal dates keep their ERP order.
func sortByDateDesc(items []transferResource) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
}
