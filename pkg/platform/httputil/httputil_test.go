package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "agora/pkg/domain-errors"
	"agora/pkg/testutil"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := testutil.UnmarshalErrorResponse(t, w)
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body, "error_description")
	})

	t.Run("uncoded error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("connection reset"))

		testutil.AssertStatusAndError(t, w, http.StatusInternalServerError, "internal_error")
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := testutil.UnmarshalErrorResponse(t, w)
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "invalid input", body["error_description"])
	})

	t.Run("wrapped conflict keeps outer message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(errors.New("tx failed"), dErrors.CodeConflict, "registration already submitted"))

		assert.Equal(t, http.StatusConflict, w.Code)
		body := testutil.UnmarshalErrorResponse(t, w)
		assert.Equal(t, "registration already submitted", body["error_description"])
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeInvalidInput: http.StatusBadRequest,
		dErrors.CodeValidation:   http.StatusUnprocessableEntity,
		dErrors.CodeUnauthorized: http.StatusUnauthorized,
		dErrors.CodeNotFound:     http.StatusNotFound,
		dErrors.CodeInvalidState: http.StatusConflict,
		dErrors.CodeExternalCall: http.StatusBadGateway,
		dErrors.Code("whatever"): http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFor(code), string(code))
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Field string `json:"field"`
	}
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"field":"email"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "email", dst.Field)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"field":"email","extra":1}`))
	err := DecodeJSON(req, &dst)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
