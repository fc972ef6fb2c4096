package handlers

import (
	"encoding/json"
	"meetings_app_go/middleware"
	"meetings_app_go/services/datetime"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *echo.Echo {
	setupTestDB(t)
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(middleware.WithConfig(testConfig, datetime.New(time.UTC)))
	RegisterRoutes(e)
	return e
}

func serve(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["detail"]
}

func TestRoutesEndToEnd(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/api/meetings/", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication credentials were not provided.", detailOf(t, rec))

	rec = serve(e, http.MethodPost, "/api/auth/register/", "", `{"username":"route","password":"pass123456"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	token := registered.Token

	rec = serve(e, http.MethodGet, "/api/users/me/", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"route"`)

	rec = serve(e, http.MethodPost, "/api/meetings/", token,
		`{"agenda":"Planning","date":"2020-09-18","start_time":"07:10:00","meeting_url":"https://meet.example.com/abc"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(e, http.MethodPost, "/api/meetings/", token, `{"agenda":"","date":"tomorrow"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detailOf(t, rec), "agenda")

	path := "/api/meetings/" + strconv.FormatUint(uint64(created.ID), 10) + "/"
	rec = serve(e, http.MethodPatch, path, token, `{"status":"Cancelled"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/api/meetings/export.ics", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "STATUS:CANCELLED")

	rec = serve(e, http.MethodGet, path+"history/", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodDelete, path, token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(e, http.MethodGet, path, token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found.", detailOf(t, rec))

	rec = serve(e, http.MethodPost, "/api/auth/logout/", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(e, http.MethodGet, "/api/users/me/", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPErrorHandler(t *testing.T) {
	e := echo.New()

	t.Run("HTTPError", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		HTTPErrorHandler(echo.NewHTTPError(http.StatusTeapot, "short and stout"), c)
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "short and stout", detailOf(t, rec))
	})

	t.Run("Plain error hides internals", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		HTTPErrorHandler(assert.AnError, c)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", detailOf(t, rec))
	})

	t.Run("Head has no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)
		HTTPErrorHandler(echo.ErrNotFound, c)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
