package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/stretchr/testify/require"
)

// PerformRequest runs the given request against the server's echo instance and
// returns the response recorder. A non-nil body is JSON encoded.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body interface{}, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)

		reqBody = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if headers != nil {
		req.Header = headers
	}
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseBody unmarshals the recorded JSON response into v.
func ParseResponseBody(t *testing.T, res *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal(res.Body.Bytes(), v))
}

// RequireHTTPError asserts that the response matches the given HTTPError.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, httpError *httperrors.HTTPError) {
	t.Helper()

	var response httperrors.HTTPError
	ParseResponseBody(t, res, &response)

	require.Equal(t, int(*httpError.Code), res.Result().StatusCode)
	require.Equal(t, *httpError.Code, *response.Code)
	require.Equal(t, *httpError.Type, *response.Type)
	require.Equal(t, *httpError.Title, *response.Title)
}
