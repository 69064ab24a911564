package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/uniforms-backend/api/responses"
	"github.com/angelmondragon/uniforms-backend/api/validators"
	"github.com/angelmondragon/uniforms-backend/internal/transfers"
	"github.com/angelmondragon/uniforms-backend/pkg/enums"
	"github.com/angelmondragon/uniforms-backend/pkg/logger"
)

type transferLineRequest struct {
	ItemID           string           `json:"itemId" validate:"required"`
	Condition        string           `json:"condition" validate:"required,uniform_condition"`
	Quantity         *decimal.Decimal `json:"quantity" validate:"required,nonnegative"`
	Reason           string           `json:"reason" validate:"required"`
	Type             string           `json:"type" validate:"required,transfer_type"`
	InventLocationID string           `json:"inventLocationId" validate:"required"`
}

func (p transferLineRequest) toLineRequest(transferID string) transfers.LineRequest {
	return transfers.LineRequest{
		TransferID:       transferID,
		ItemID:           p.ItemID,
		Condition:        enums.UniformCondition(p.Condition),
		Quantity:         *p.Quantity,
		Reason:           p.Reason,
		Type:             enums.TransferType(p.Type),
		InventLocationID: p.InventLocationID,
	}
}

func decodeLineRequest(r *http.Request, refs ReferenceChecker) (transferLineRequest, error) {
	var payload transferLineRequest
	err := validators.DecodeJSONBody(r, &payload)
	if err != nil && !isFieldValidation(err) {
		return payload, err
	}
	extra, refErr := checkReferences(r.Context(), refs, payload.InventLocationID, "")
	if refErr != nil {
		return payload, refErr
	}
	return payload, validators.Merge(err, extra)
}

// CreateTransferLine adds a line to an existing journal.
func CreateTransferLine(svc transfers.Service, refs ReferenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodeLineRequest(r, refs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "transferId")
		ctx := logg.WithTransferID(r.Context(), id)
		if _, err := svc.CreateLine(ctx, callerFrom(ctx), payload.toLineRequest(id)); err != nil {
			responses.WriteServiceFailure(ctx, logg, w, err, nil)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, fmt.Sprintf("Line added to transfer journal %s", id), map[string]string{"id": id})
	}
}

// UpdateTransferLine replaces one line of a journal.
func UpdateTransferLine(svc transfers.Service, refs ReferenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineNum, err := validators.ParsePathInt(chi.URLParam(r, "lineNum"), "lineNum")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload, err := decodeLineRequest(r, refs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "transferId")
		ctx := logg.WithTransferID(r.Context(), id)
		if _, err := svc.UpdateLine(ctx, callerFrom(ctx), payload.toLineRequest(id), lineNum); err != nil {
			responses.WriteServiceFailure(ctx, logg, w, err, nil)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, fmt.Sprintf("Line of transfer journal %s updated", id), map[string]string{"id": id})
	}
}

// DeleteTransferLine removes one line of a journal.
func DeleteTransferLine(svc transfers.Service, refs ReferenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineNum, err := validators.ParsePathInt(chi.URLParam(r, "lineNum"), "lineNum")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := journalScopeFromQuery(r, refs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "transferId")
		ctx := logg.WithTransferID(r.Context(), id)
		if _, err := svc.DeleteLine(ctx, callerFrom(ctx), id, lineNum); err != nil {
			responses.WriteServiceFailure(ctx, logg, w, err, nil)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, fmt.Sprintf("Line of transfer journal %s deleted", id), map[string]string{"id": id})
	}
}
