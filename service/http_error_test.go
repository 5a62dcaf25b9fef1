package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorCodeToStatusCodeMaps(t *testing.T) {
	m := NewErrorCodeToStatusCodeMaps()
	require.NotNil(t, m)
	assert.Equal(t, http.StatusBadRequest, m[ErrBadParameter])
	assert.Equal(t, http.StatusBadRequest, m[ErrProtocolError])
	assert.Equal(t, http.StatusNotFound, m[ErrEntityNotFound])
	assert.Equal(t, http.StatusNotFound, m[ErrInvalidSession])
	assert.Equal(t, http.StatusNotFound, m[ErrInvalidPipeline])
	assert.Equal(t, http.StatusServiceUnavailable, m[ErrOverloaded])
	assert.Equal(t, http.StatusServiceUnavailable, m[ErrUnavailable])
	assert.Equal(t, http.StatusBadGateway, m[ErrWorkerError])
	assert.Equal(t, http.StatusBadGateway, m[ErrWorkerClosed])
	assert.Equal(t, http.StatusInternalServerError, m[ErrInternalServerError])
}

func serveError(t *testing.T, method string, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewNopLogger())
	handler.Handler(err, c)
	return rec
}

func decodeErrResponse(t *testing.T, rec *httptest.ResponseRecorder) *MyError {
	t.Helper()
	var body ErrResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	return body.Error
}

func TestHTTPErrorHandler_Handler_MyError_ReturnsMappedStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "bad_parameter", err: NewBadParameterError("invalid body", nil), wantStatus: http.StatusBadRequest, wantCode: ErrBadParameter},
		{name: "invalid_session_wrapped", err: fmt.Errorf("numPoints failed, err: %w", NewInvalidSessionError("unknown session", nil)), wantStatus: http.StatusNotFound, wantCode: ErrInvalidSession},
		{name: "worker_error", err: NewWorkerError("native failure", nil), wantStatus: http.StatusBadGateway, wantCode: ErrWorkerError},
		{name: "plain_error", err: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: ErrInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveError(t, http.MethodGet, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeErrResponse(t, rec).Code)
		})
	}
}

func TestHTTPErrorHandler_Handler_EchoHTTPError_WithRequestError_ReturnsBadParameter(t *testing.T) {
	reqErr := &openapi3filter.RequestError{Err: assert.AnError}
	he := echo.NewHTTPError(http.StatusBadRequest, "request body has an error")
	he.Internal = reqErr

	rec := serveError(t, http.MethodPost, he)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrResponse(t, rec)
	assert.Equal(t, ErrBadParameter, body.Code)
	assert.Equal(t, "request body has an error", body.Message)
}

func TestHTTPErrorHandler_Handler_EchoNotFound_ReturnsEntityNotFound(t *testing.T) {
	rec := serveError(t, http.MethodGet, echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrEntityNotFound, decodeErrResponse(t, rec).Code)
}

func TestHTTPErrorHandler_Handler_HeadRequest_NoBody(t *testing.T) {
	rec := serveError(t, http.MethodHead, echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestRegisterErrorHandler(t *testing.T) {
	e := echo.New()
	RegisterErrorHandler(e, log.NewNopLogger())
	require.NotNil(t, e.HTTPErrorHandler)
}
