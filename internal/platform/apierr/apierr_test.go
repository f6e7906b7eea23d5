package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/yungbote/meraki-backend/internal/pkg/errors"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"api error", BadRequest("identifier is required"), http.StatusBadRequest, "bad_request"},
		{"wrapped api error", fmt.Errorf("login: %w", Unauthorized("nope")), http.StatusUnauthorized, "unauthorized"},
		{"not found sentinel", fmt.Errorf("topic T9: %w", pkgerrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"invalid sentinel", pkgerrors.ErrInvalidArgument, http.StatusBadRequest, "bad_request"},
		{"conflict sentinel", pkgerrors.ErrConflict, http.StatusConflict, "conflict"},
		{"plain", errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Classify(tc.err)
			if status != tc.status || code != tc.code {
				t.Fatalf("got=(%d,%q) want=(%d,%q)", status, code, tc.status, tc.code)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	if got := NotFound("Rating").Error(); got != "Rating not found" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := New(http.StatusTeapot, "", nil).Error(); got != "api error (418)" {
		t.Fatalf("unexpected message: %q", got)
	}
}
