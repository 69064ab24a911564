package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/uniforms-backend/api/middleware"
	"github.com/angelmondragon/uniforms-backend/api/responses"
	"github.com/angelmondragon/uniforms-backend/api/validators"
	"github.com/angelmondragon/uniforms-backend/internal/transfers"
	"github.com/angelmondragon/uniforms-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/uniforms-backend/pkg/errors"
	"github.com/angelmondragon/uniforms-backend/pkg/filters"
	"github.com/angelmondragon/uniforms-backend/pkg/logger"
	"github.com/angelmondragon/uniforms-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

// ReferenceChecker confirms that ids sent by clients exist in the local directory.
type ReferenceChecker interface {
	InventLocationExists(ctx context.Context, inventLocationID string) (bool, error)
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}

type journalScopeQuery struct {
	InventLocationID string `json:"inventLocationId" validate:"required"`
	Type             string `json:"type" validate:"required,transfer_type"`
}

type listTransfersQuery struct {
	InventLocationID string `json:"inventLocationId" validate:"required"`
	Type             string `json:"type" validate:"required,transfer_type"`
	FromDate         string `json:"fromDate" validate:"required,datetime=2006-01-02"`
	ToDate           string `json:"toDate" validate:"required,datetime=2006-01-02"`
}

type createTransferRequest struct {
	InventLocationID string                      `json:"inventLocationId" validate:"required"`
	Date             string                      `json:"date" validate:"required,datetime=2006-01-02"`
	EmployeeID       string                      `json:"employeeId" validate:"required"`
	Type             string                      `json:"type" validate:"required,transfer_type"`
	Lines            []createTransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type createTransferLineRequest struct {
	ItemID    string           `json:"itemId" validate:"required"`
	Condition string           `json:"condition" validate:"required,uniform_condition"`
	Quantity  *decimal.Decimal `json:"quantity" validate:"required,nonnegative"`
	Reason    string           `json:"reason"`
}

type updateTransferRequest struct {
	InventLocationID string                      `json:"inventLocationId" validate:"required"`
	EmployeeID       string                      `json:"employeeId" validate:"required"`
	Type             string                      `json:"type" validate:"required,transfer_type"`
	Lines            []updateTransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type updateTransferLineRequest struct {
	Action    string           `json:"action" validate:"required,line_action"`
	ItemID    string           `json:"itemId"`
	LineNum   json.Number      `json:"lineNum" validate:"required,numeric"`
	Condition string           `json:"condition" validate:"required,uniform_condition"`
	Quantity  *decimal.Decimal `json:"quantity" validate:"required,nonnegative"`
	Reason    string           `json:"reason"`
}

type postTransferRequest struct {
	InventLocationID string `json:"inventLocationId" validate:"required"`
	Type             string `json:"type" validate:"required,transfer_type"`
}

type bulkDeleteTransfersRequest struct {
	InventLocationID string   `json:"inventLocationId" validate:"required"`
	Type             string   `json:"type" validate:"required,transfer_type"`
	IDs              []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ListTransfers returns the filtered, date-sorted and paginated journals of a location.
func ListTransfers(svc transfers.Service, refs ReferenceChecker, limits pagination.Limits, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := listTransfersQuery{
			InventLocationID: validators.QueryString(r, "inventLocationId"),
			Type:             validators.QueryString(r, "type"),
			FromDate:         validators.QueryString(r, "fromDate"),
			ToDate:           validators.QueryString(r, "toDate"),
		}
		from, to, err := validateListQuery(r.Context(), refs, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		set, invalid := filters.FromQuery(r.URL.Query(), transferFilterRules)
		if err := validators.Failed(invalid); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.ParseParams(r.URL.Query().Get("page"), r.URL.Query().Get("perPage"), limits)

		ctx := logg.WithInventLocation(r.Context(), query.InventLocationID)
		records, err := svc.List(ctx, callerFrom(ctx), query.InventLocationID, enums.TransferType(query.Type), from, to)
		if err != nil {
			responses.WriteServiceFailure(ctx, logg, w, err, nil)
			return
		}

		items := make([]transferResource, 0, len(records))
		for _, rec := range records {
			items = append(items, toTransferResource(rec))
		}
		items = filters.Apply(items, set, transferFieldValue)
		sortByDateDesc(items)

		responses.WriteSuccess(w, pagination.Paginate(items, params))
	}
}

// GetTransfer returns one journal with its lines.
func GetTransfer(svc transfers.Service, refs ReferenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := journalScopeFromQuery(r, refs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "transferId")
		ctx := logg.WithTransferID(r.Context(), id)
		details, err := svc.Details(ctx, callerFrom(ctx), scope.InventLocationID, enums.TransferType(scope.Type), id)
		if err != nil {
			responses.WriteServiceFailure(ctx, logg, w, err, nil)
			return
		}

		responses.WriteSuccess(w, toTransferDetailsResource(details))
	}
}

// CreateTransfer opens a new journal in the ERP and returns its id.
func CreateTransfer(svc transfers.Service, refs ReferenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createTransferRequest
		err := validators.DecodeJSONBody(r, &payload)
		if err != nil && !isFieldValidation(err) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		extra, refErr := checkReferences(r.Context(), refs, payload.InventLocationID, payload.EmployeeID)
		if refErr != nil {
			responses.WriteError(r.Context(), logg, w, refErr)
			return
		}
		reasons := make([]string, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			reasons = append(reasons, line.Reason)
		}
		mergeMessages(extra, reasonChecks(payload.Type, reasons))
		if err := validators.Merge(err, extra); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := time.Parse(dateLayout, payload.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, validators.Failed(map[string]string{"date": "must be a date in YYYY-MM-DD format"}))
			return
		}

		req := transfers.CreateRequest{
			InventLocationID: payload.InventLocationID,
			Date:             date,
			EmployeeID:       payload.EmployeeID,
			Type:             enums.TransferType(payload.Type),
			Lines:            make([]transfers.CreateLine, 0, len(payload.Lines)),
		}
		for _, line := range payload.Lines {
			req.Lines = append(req.Lines, transfers.CreateLine{
				ItemID:    line.ItemID,
				Condition: enums.UniformCondition(line.Condition),
				Quantity:  *line.Quantity,
				Reason:    line.Reason,
			})
		}

		ctx := logg.WithInventLocation(r.Context(), payload.InventLocationID)
		id, err := svc.Create(ctx, callerFrom(ctx), req)
		if err != nil {
			responses.WriteServiceFailure(ctx, logg, w, err, nil)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Transfer journal created", map[string]string{"id": id})
	}
}

// UpdateTransfer applies line changes to an existing journal.
func UpdateTransfer(svc transfers.Service, refs ReferenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateTransferRequest
		err := validators.DecodeJSONBody(r, &payload)
		if err != nil && !isFieldValidation(err) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		extra, refErr := checkReferences(r.Context(), refs, payload.InventLocationID, payload.EmployeeID)
		if refErr != nil {
			responses.WriteError(r.Context(), logg, w, refErr)
			return
		}
		reasons := make([]string, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			reasons = append(reasons, line.Reason)
		}
		mergeMessages(extra, reasonChecks(payload.Type, reasons))
		if err := validators.Merge(err, extra); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := transfers.UpdateRequest{
			InventLocationID: payload.InventLocationID,
			EmployeeID:       payload.EmployeeID,
			Type:             enums.TransferType(payload.Type),
			Lines:            make([]transfers.UpdateLine, 0, len(payload.Lines)),
		}
		for i, line := range payload.Lines {
			lineNum, err := lineNumber(line.LineNum)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, validators.Failed(map[string]string{fmt.Sprintf("lines[%d].lineNum", i): "must be numeric"}))
				return
			}
			req.Lines = append(req.Lines, transfers.UpdateLine{
				Action:    enums.LineAction(line.Action),
				ItemID:    line.ItemID,
				LineNum:   lineNum,
				Condition: enums.UniformCondition(line.Condition),
				Quantity:  *line.Quantity,
				Reason:    line.Reason,
			})
		}

		id := chi.URLParam(r, "transferId")
		ctx := logg.WithTransferID(r.Context(), id)
		ok, err := svc.Update(ctx, callerFrom(ctx), req, id)
		if err != nil {
			responses.WriteServiceFailure(ctx, logg, w, err, nil)
			return
		}
		warnIfRejected(ctx, logg, ok, "update")

		responses.WriteSuccessStatus(w, http.StatusOK, "Transfer journal updated", map[string]string{"id": id})
	}
}

// PostTransfer posts a journal so its movements take effect in the ERP.
func PostTransfer(svc transfers.Service, refs ReferenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postTransferRequest
		err := validators.DecodeJSONBody(r, &payload)
		if err != nil && !isFieldValidation(err) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		extra, refErr := checkReferences(r.Context(), refs, payload.InventLocationID, "")
		if refErr != nil {
			responses.WriteError(r.Context(), logg, w, refErr)
			return
		}
		if err := validators.Merge(err, extra); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "transferId")
		ctx := logg.WithTransferID(r.Context(), id)
		ok, err := svc.Post(ctx, callerFrom(ctx), payload.InventLocationID, enums.TransferType(payload.Type), id)
		if err != nil {
			responses.WriteServiceFailure(ctx, logg, w, err, nil)
			return
		}
		warnIfRejected(ctx, logg, ok, "post")

		responses.WriteSuccessStatus(w, http.StatusOK, fmt.Sprintf("Transfer journal %s posted", id), map[string]string{"id": id})
	}
}

// DeleteTransfer removes a single journal.
func DeleteTransfer(svc transfers.Service, refs ReferenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := journalScopeFromQuery(r, refs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "transferId")
		ctx := logg.WithTransferID(r.Context(), id)
		ok, err := svc.Delete(ctx, callerFrom(ctx), scope.InventLocationID, enums.TransferType(scope.Type), id)
		if err != nil {
			responses.WriteServiceFailure(ctx, logg, w, err, nil)
			return
		}
		warnIfRejected(ctx, logg, ok, "delete")

		responses.WriteSuccessStatus(w, http.StatusOK, fmt.Sprintf("Transfer journal %s deleted", id), map[string]string{"id": id})
	}
}

// BulkDeleteTransfers deletes journals one by one. The first failure aborts the
// request and no partial results are returned.
func BulkDeleteTransfers(svc transfers.Service, refs ReferenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bulkDeleteTransfersRequest
		err := validators.DecodeJSONBody(r, &payload)
		if err != nil && !isFieldValidation(err) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		extra, refErr := checkReferences(r.Context(), refs, payload.InventLocationID, "")
		if refErr != nil {
			responses.WriteError(r.Context(), logg, w, refErr)
			return
		}
		if err := validators.Merge(err, extra); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithInventLocation(r.Context(), payload.InventLocationID)
		caller := callerFrom(ctx)
		results := make(map[string]bool, len(payload.IDs))
		for _, id := range payload.IDs {
			ok, err := svc.Delete(logg.WithTransferID(ctx, id), caller, payload.InventLocationID, enums.TransferType(payload.Type), id)
			if err != nil {
				responses.WriteServiceFailure(ctx, logg, w, err, map[string]any{"results": nil})
				return
			}
			results[id] = ok
		}

		responses.WriteSuccessStatus(w, http.StatusOK, "Transfer journals deleted", map[string]any{"results": results})
	}
}

func callerFrom(ctx context.Context) transfers.Caller {
	return transfers.Caller{
		UserID:     middleware.UserIDFromContext(ctx),
		EmployeeID: middleware.EmployeeIDFromContext(ctx),
	}
}

func validateListQuery(ctx context.Context, refs ReferenceChecker, query listTransfersQuery) (time.Time, time.Time, error) {
	var from, to time.Time
	err := validators.ValidateStruct(&query)

	extra, refErr := checkReferences(ctx, refs, query.InventLocationID, "")
	if refErr != nil {
		return from, to, refErr
	}

	from, fromErr := time.Parse(dateLayout, query.FromDate)
	to, toErr := time.Parse(dateLayout, query.ToDate)
	if fromErr == nil && toErr == nil && to.Before(from) {
		extra["toDate"] = "must be a date after or equal to fromDate"
	}

	if err := validators.Merge(err, extra); err != nil {
		return from, to, err
	}
	return from, to, nil
}

func journalScopeFromQuery(r *http.Request, refs ReferenceChecker) (journalScopeQuery, error) {
	scope := journalScopeQuery{
		InventLocationID: validators.QueryString(r, "inventLocationId"),
		Type:             validators.QueryString(r, "type"),
	}
	err := validators.ValidateStruct(&scope)
	extra, refErr := checkReferences(r.Context(), refs, scope.InventLocationID, "")
	if refErr != nil {
		return scope, refErr
	}
	return scope, validators.Merge(err, extra)
}

// checkReferences reports unknown location and employee ids. Empty ids are
// left to the required rules.
func checkReferences(ctx context.Context, refs ReferenceChecker, inventLocationID, employeeID string) (map[string]string, error) {
	out := map[string]string{}
	if refs == nil {
		return out, nil
	}
	if id := strings.TrimSpace(inventLocationID); id != "" {
		ok, err := refs.InventLocationExists(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check invent location")
		}
		if !ok {
			out["inventLocationId"] = "does not exist"
		}
	}
	if id := strings.TrimSpace(employeeID); id != "" {
		ok, err := refs.EmployeeExists(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check employee")
		}
		if !ok {
			out["employeeId"] = "does not exist"
		}
	}
	return out, nil
}

// reasonChecks requires a reason on every line of a Return journal.
func reasonChecks(transferType string, reasons []string) map[string]string {
	out := map[string]string{}
	if !enums.TransferType(transferType).RequiresReason() {
		return out
	}
	for i, reason := range reasons {
		if strings.TrimSpace(reason) == "" {
			out[fmt.Sprintf("lines[%d].reason", i)] = "is required"
		}
	}
	return out
}

func mergeMessages(dst, src map[string]string) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// isFieldValidation separates per-field tag failures, which are merged with
// the directory checks, from body decoding failures, which are returned as is.
func isFieldValidation(err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return false
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		return false
	}
	_, isBody := details["body"]
	return !isBody
}

// lineNumber accepts whole numbers only; fractions and out-of-range values fail.
func lineNumber(raw json.Number) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw.String()))
}

func warnIfRejected(ctx context.Context, logg *logger.Logger, ok bool, action string) {
	if ok || logg == nil {
		return
	}
	ctx = logg.WithField(ctx, "journal_action", action)
	logg.Warn(ctx, "erp flagged the journal operation as unsuccessful")
}
