package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/uniforms-backend/pkg/errors"
	"github.com/angelmondragon/uniforms-backend/pkg/logger"
	"github.com/angelmondragon/uniforms-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, "", data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Message: message, Data: data})
}

// WriteError renders a failure with the status mapped from the error code.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeIdempotency:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.FailureEnvelope{
		Message: msg,
		Errors:  map[string]any{},
		Status:  meta.HTTPStatus,
	}
	if meta.DetailsAllowed {
		payload.Errors = detailsMap(typed.Details())
	}

	logFailure(ctx, logg, err)
	writeJSON(w, meta.HTTPStatus, payload)
}

// WriteServiceFailure renders any service error as a 500 carrying the error's
// own message. errs becomes the envelope's errors object.
func WriteServiceFailure(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error, errs map[string]any) {
	if err == nil {
		err = errors.New("unknown error")
	}
	msg := err.Error()
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		msg = typed.Message()
	}
	if errs == nil {
		errs = map[string]any{}
	}

	logFailure(ctx, logg, err)
	writeJSON(w, http.StatusInternalServerError, types.FailureEnvelope{
		Message: msg,
		Errors:  errs,
		Status:  http.StatusInternalServerError,
	})
}

func detailsMap(details any) map[string]any {
	out := map[string]any{}
	switch d := details.(type) {
	case map[string]string:
		for k, v := range d {
			out[k] = v
		}
	case map[string]any:
		for k, v := range d {
			out[k] = v
		}
	}
	return out
}

func logFailure(ctx context.Context, logg *logger.Logger, err error) {
	if logg == nil {
		return
	}
	dump := pkgerrors.Dump(err)

	fields := map[string]any{
		"error":         dump.TopMessage,
		"error_code":    dump.Code,
		"error_chain":   dump.Chain,
		"pg_code":       dump.PGCode,
		"pg_detail":     dump.PGDetail,
		"pg_message":    dump.PGMessage,
		"pg_table":      dump.PGTable,
		"pg_column":     dump.PGColumn,
		"pg_constraint": dump.PGConstraint,
	}
	if dump.Operation != "" {
		fields["erp_operation"] = dump.Operation
	}

	ctx = logg.WithFields(ctx, fields)
	logg.Error(ctx, "request.error", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
