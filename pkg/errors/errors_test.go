package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusUnprocessableEntity, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestUniformCodesAreServerErrors(t *testing.T) {
	codes := []Code{
		CodeUniformGetList,
		CodeUniformGetDetails,
		CodeUniformByFRP,
		CodeUniformCreateItem,
		CodeUniformUpdateItem,
		CodeUniformDeleteItem,
		CodeUniformPostItem,
	}
	for _, code := range codes {
		meta := MetadataFor(code)
		if meta.HTTPStatus != http.StatusInternalServerError {
			t.Fatalf("code %s expected 500 got %d", code, meta.HTTPStatus)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("code %s has no public message", code)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestWrapRemoteKeepsCauseAndMessage(t *testing.T) {
	cause := stdErrors.New("journal locked by another user")
	err := WrapRemote(CodeUniformPostItem, cause)

	if !stdErrors.Is(err, cause) {
		t.Fatalf("WrapRemote did not preserve cause")
	}
	if !strings.Contains(err.Message(), "journal locked by another user") {
		t.Fatalf("expected original message in %q", err.Message())
	}
	if !strings.HasPrefix(err.Message(), "failed to post uniform transfer") {
		t.Fatalf("expected public message prefix in %q", err.Message())
	}
	if !HasCode(err, CodeUniformPostItem) {
		t.Fatalf("HasCode failed to match")
	}
	if HasCode(cause, CodeUniformPostItem) {
		t.Fatalf("HasCode matched an untyped error")
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestHasCodeWalksWholeChain(t *testing.T) {
	inner := New(CodeUniformGetList, "erp down")
	outer := Wrap(CodeDependency, fmt.Errorf("list: %w", inner), "load journals")

	if !HasCode(outer, CodeDependency) {
		t.Fatalf("expected outer code")
	}
	if !HasCode(outer, CodeUniformGetList) {
		t.Fatalf("expected nested code to be found")
	}
	if HasCode(outer, CodeNotFound) {
		t.Fatalf("unexpected code match")
	}
	if !HasCode(stdErrors.Join(stdErrors.New("plain"), inner), CodeUniformGetList) {
		t.Fatalf("expected code inside joined errors")
	}
	if HasCode(nil, CodeInternal) {
		t.Fatalf("nil error has no code")
	}
}
