package erp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/uniforms-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// DateTimeLayout is the timestamp format the ERP expects and returns.
const DateTimeLayout = "2006-01-02T15:04:05"

// FormatDate renders t in the ERP timestamp layout.
func FormatDate(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// Flag decodes the ERP error flag, which arrives as a JSON bool, 0/1 or Yes/No.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*f = false
		return nil
	}
	raw = strings.Trim(raw, `"`)
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no":
		*f = false
		return nil
	case "1", "true", "yes":
		*f = true
		return nil
	}
	return fmt.Errorf("erp: invalid flag value %s", string(data))
}

// LineNum decodes a journal line number sent either as a JSON number or a string.
type LineNum int

func (n *LineNum) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("erp: invalid line number %s", string(data))
	}
	*n = LineNum(int(v))
	return nil
}

// Response is the status part shared by every ERP answer.
type Response struct {
	IsError Flag   `json:"IsError"`
	Message string `json:"Message,omitempty"`
}

// Failed reports whether the ERP flagged the operation as unsuccessful.
func (r *Response) Failed() bool {
	return r != nil && bool(r.IsError)
}

type envelope struct {
	Response
	Result json.RawMessage `json:"Result"`
}

func (e envelope) hasResult() bool {
	trimmed := bytes.TrimSpace(e.Result)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

type JournalTableRequest struct {
	WorkerGUID       string             `json:"WorkerGuid"`
	DepartmentGUID   string             `json:"DepartmentGuid"`
	InventLocationID string             `json:"InventLocationId"`
	JournalsType     enums.TransferType `json:"JournalsType"`
	FromDate         string             `json:"FromDate"`
	ToDate           string             `json:"ToDate"`
}

// JournalTableRow is one journal header from wfRequestUniformJournalTable.
type JournalTableRow struct {
	Employee   string      `json:"Employee"`
	JournalID  string      `json:"JournalId"`
	LocationID string      `json:"LocationId"`
	Posted     enums.NoYes `json:"Posted"`
	TransDate  string      `json:"TransDate"`
}

type JournalDetailsRequest struct {
	WorkerGUID     string             `json:"WorkerGuid"`
	DepartmentGUID string             `json:"DepartmentGuid"`
	JournalID      string             `json:"JournalId"`
	JournalsType   enums.TransferType `json:"JournalsType"`
}

type JournalDetails struct {
	JournalID    string              `json:"JournalId"`
	Employee     string              `json:"Employee"`
	JournalsType enums.TransferType  `json:"JournalsType"`
	TransDate    string              `json:"TransDate"`
	Posted       enums.NoYes         `json:"Posted"`
	Items        JournalDetailsItems `json:"Items"`
}

type JournalDetailsItems struct {
	UniformJournalDetails []JournalDetailsLine `json:"UniformJournalDetails"`
}

// Lines returns the journal lines in ERP order.
func (d *JournalDetails) Lines() []JournalDetailsLine {
	if d == nil {
		return nil
	}
	return d.Items.UniformJournalDetails
}

type JournalDetailsLine struct {
	LineNum          LineNum                `json:"LineNum"`
	ItemID           string                 `json:"ItemId"`
	Condition        enums.UniformCondition `json:"Condition"`
	Qty              decimal.Decimal        `json:"Qty"`
	AvailableQtyNew  decimal.Decimal        `json:"AvailableQtyNew"`
	AvailableQtyUsed decimal.Decimal        `json:"AvailableQtyUsed"`
	ReasonReturn     string                 `json:"ReasonReturn"`
}

type ByFRPRequest struct {
	WorkerGUID       string `json:"WorkerGuid"`
	DepartmentGUID   string `json:"DepartmentGuid"`
	Employee         string `json:"Employee"`
	InventLocationID string `json:"InventLocationId"`
}

// ByFRPRow is an item the employee may hand back, with the returnable quantity.
type ByFRPRow struct {
	Condition       enums.UniformCondition `json:"Condition"`
	FinishUsingDate string                 `json:"FinishUsingDate"`
	ItemID          string                 `json:"ItemId"`
	ItemName        string                 `json:"ItemName"`
	PossibleReturn  enums.NoYes            `json:"PossibleReturn"`
	Qty             decimal.Decimal        `json:"Qty"`
}

// CreateLine is the create-journal line shape.
type CreateLine struct {
	Condition    enums.UniformCondition `json:"Condition"`
	ItemID       string                 `json:"ItemId"`
	Qty          decimal.Decimal        `json:"Qty"`
	ReasonReturn string                 `json:"ReasonReturn"`
}

// UpdateLine is the update-journal line shape.
type UpdateLine struct {
	Action       enums.LineAction       `json:"Action"`
	Condition    enums.UniformCondition `json:"Condition"`
	ItemID       string                 `json:"ItemId"`
	LineNum      int                    `json:"LineNum"`
	Qty          decimal.Decimal        `json:"Qty"`
	ReasonReturn string                 `json:"ReasonReturn"`
}

type JournalCreateRequest struct {
	WorkerGUID       string             `json:"WorkerGuid"`
	DepartmentGUID   string             `json:"DepartmentGuid"`
	InventLocationID string             `json:"InventLocationId"`
	Employee         string             `json:"Employee"`
	JournalsType     enums.TransferType `json:"JournalsType"`
	TransDate        string             `json:"TransDate"`
	Lines            []CreateLine       `json:"Lines"`
}

type journalCreateResult struct {
	JournalID string `json:"JournalId"`
}

func (r *journalCreateResult) validateResult() string {
	if strings.TrimSpace(r.JournalID) == "" {
		return "response carries no journal id"
	}
	return ""
}

type JournalUpdateRequest struct {
	WorkerGUID     string             `json:"WorkerGuid"`
	DepartmentGUID string             `json:"DepartmentGuid"`
	JournalID      string             `json:"JournalId"`
	Employee       string             `json:"Employee"`
	JournalsType   enums.TransferType `json:"JournalsType"`
	Lines          []UpdateLine       `json:"Lines"`
}

// JournalRequest addresses a whole journal for delete and post.
type JournalRequest struct {
	WorkerGUID     string             `json:"WorkerGuid"`
	DepartmentGUID string             `json:"DepartmentGuid"`
	JournalID      string             `json:"JournalId"`
	JournalsType   enums.TransferType `json:"JournalsType"`
}
