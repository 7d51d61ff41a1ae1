package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/tosh-m12/courtmatch/internal/errors"
	"github.com/tosh-m12/courtmatch/internal/handlers"
)

func TestAPIError_Error(t *testing.T) {
	err := handlers.NewAPIError(http.StatusBadRequest, "BAD_REQUEST", "test message")

	if err.Error() != "test message" {
		t.Errorf("expected 'test message', got %q", err.Error())
	}
	if err.Code != "BAD_REQUEST" {
		t.Errorf("expected code 'BAD_REQUEST', got %q", err.Code)
	}
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errors.NotFound("event not found"), http.StatusNotFound, handlers.ErrCodeNotFound},
		{"validation", errors.Validation("bad"), http.StatusBadRequest, handlers.ErrCodeValidation},
		{"validation with code", &errors.Error{Kind: errors.ErrValidation, Code: errors.CodeInvalidParticipant, Message: "x"}, http.StatusBadRequest, errors.CodeInvalidParticipant},
		{"invalid input", errors.InvalidInput("bad feed"), http.StatusBadRequest, handlers.ErrCodeValidation},
		{"conflict", errors.Conflict("dup"), http.StatusConflict, handlers.ErrCodeConflict},
		{"score exists", errors.ConflictCode(errors.CodeScoreExists, "scores"), http.StatusConflict, errors.CodeScoreExists},
		{"busy", errors.ConflictCode(errors.CodeScheduleBusy, "busy"), http.StatusConflict, errors.CodeScheduleBusy},
		{"canceled wait", errors.WrapCode(context.Canceled, errors.ErrConflict, errors.CodeRequestCanceled, "canceled"), http.StatusConflict, errors.CodeRequestCanceled},
		{"no draft", errors.State(errors.CodeNoDraft, "no draft"), http.StatusUnprocessableEntity, errors.CodeNoDraft},
		{"not eligible", errors.State(errors.CodeNotEligible, "absent"), http.StatusUnprocessableEntity, errors.CodeNotEligible},
		{"wrapped", fmt.Errorf("outer: %w", errors.NotFound("x")), http.StatusNotFound, handlers.ErrCodeNotFound},
		{"internal", errors.Internal(fmt.Errorf("disk")), http.StatusInternalServerError, handlers.ErrCodeInternalServer},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, handlers.ErrCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := handlers.ToAPIError(tt.err)
			if apiErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.Status)
			}
			if apiErr.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, apiErr.Code)
			}
		})
	}
}

func TestInternalError_HidesDetails(t *testing.T) {
	apiErr := handlers.InternalError(fmt.Errorf("database is locked"))

	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", apiErr.Status)
	}
	if apiErr.Message == "database is locked" {
		t.Error("internal error message leaked to the client")
	}
}
