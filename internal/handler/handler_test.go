package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type body = map[string]any

func newRequest(method, target, payload string) *http.Request {
	var r io.Reader
	if payload != "" {
		r = strings.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, r)
	if payload != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req
}

// serve runs h on a fresh echo context.  A non-zero userID is set the way
// JWTAuth sets it; id, when non-empty, becomes the :id path parameter.
func serve(t *testing.T, h echo.HandlerFunc, req *http.Request, userID uint64, id string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
	}
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	require.NoError(t, h(c))
	return rec
}

func call(t *testing.T, h echo.HandlerFunc, method, target, payload string, userID uint64, id string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, h, newRequest(method, target, payload), userID, id)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
