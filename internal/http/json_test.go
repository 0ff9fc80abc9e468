package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
)

func TestWriteAppError_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest, "validation"},
		{"unauthorized", apperrors.Unauthorized("nope"), http.StatusUnauthorized, "unauthorized"},
		{"not found", apperrors.NotFound("missing"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.Conflict("taken"), http.StatusConflict, "conflict"},
		{"upstream", apperrors.Upstream("ml down"), http.StatusBadGateway, "upstream"},
		{"timeout", apperrors.Timeout("too slow"), http.StatusGatewayTimeout, "timeout"},
		{"internal", apperrors.Internal("boom"), http.StatusInternalServerError, "internal"},
		{"plain error", errors.New("unclassified"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteAppError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error":"`+tc.wantCode+`"`)
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := BearerToken(req)
	assert.Error(t, err)

	req.Header.Set("Authorization", "Basic abc")
	_, err = BearerToken(req)
	assert.Error(t, err)

	req.Header.Set("Authorization", "Bearer my-token")
	token, err := BearerToken(req)
	assert.NoError(t, err)
	assert.Equal(t, "my-token", token)
}
