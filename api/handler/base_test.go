package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/cybertodo/backend/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"todo not found", domain.ErrTodoNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"title required", domain.ErrTitleRequired, http.StatusBadRequest, "INVALID"},
		{"invalid status", domain.ErrInvalidStatus, http.StatusBadRequest, "INVALID"},
		{"invalid due date", domain.ErrInvalidDueDate, http.StatusBadRequest, "INVALID"},
		{"duplicate user", domain.ErrDuplicateUser, http.StatusConflict, "CONFLICT"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrapped not found", domain.WrapError(domain.ErrCodeNotFound, "lookup failed", errors.New("inner")), http.StatusNotFound, "NOT_FOUND"},
		{"plain error", errors.New("pool exhausted"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := mapError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}
