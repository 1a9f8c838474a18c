package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewStoreFailure("get", cause)

	if got := err.Error(); got != "store get failed: connection refused" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStoreFailure("set", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected the cause to stay reachable through Unwrap")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := NewStoreFailure("query", fmt.Errorf("boom"))

	if !stderrors.Is(err, ErrStore) {
		t.Error("expected a store failure to match the ErrStore sentinel")
	}
	if stderrors.Is(err, ErrValidation) {
		t.Error("expected different codes not to match")
	}
}

func TestWithInternalCopies(t *testing.T) {
	wrapped := ErrNotFound.WithInternal(fmt.Errorf("row missing"))

	if ErrNotFound.Internal != nil {
		t.Error("expected the sentinel to stay untouched")
	}
	if wrapped.Internal == nil {
		t.Error("expected the copy to carry the internal error")
	}
	if !stderrors.Is(wrapped, ErrNotFound) {
		t.Error("expected the copy to keep matching its sentinel")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("expected nil for nil input")
	}

	appErr := NewValidation("bad page")
	if got := FromError(fmt.Errorf("handler: %w", appErr)); got != appErr {
		t.Errorf("expected the wrapped AppError back, got %v", got)
	}

	plain := FromError(fmt.Errorf("something broke"))
	if plain.Code != ErrInternalServer.Code {
		t.Errorf("expected plain errors to normalize to internal server, got %s", plain.Code)
	}
	if plain.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected status: %d", plain.StatusCode)
	}
}

func TestNewValidationStatus(t *testing.T) {
	err := NewValidation("page must be positive")
	if err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.StatusCode)
	}
	if err.Message != "page must be positive" {
		t.Errorf("unexpected message: %s", err.Message)
	}
}
