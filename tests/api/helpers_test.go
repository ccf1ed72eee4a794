package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	_ "grocery.GO/custom"

	"grocery.GO/api/server"
	"grocery.GO/app"
	"grocery.GO/config"
	"grocery.GO/service/fixture"
)

const testAPIKey = "test-admin-key"

// newStorefront serves a freshly seeded in-memory storefront without simulated latency.
func newStorefront(t *testing.T) (*echo.Echo, *app.App) {
	t.Helper()
	db, err := fixture.OpenMemory(context.Background(), nil)
	require.NoError(t, err)
	cfg := config.Default()
	cfg.FakeLatencyScale = 0
	cfg.APIKey = testAPIKey
	a, err := app.NewWithDB(cfg, db, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return server.New(a), a
}

// client replays the session header the server hands out, like the storefront frontend does.
type client struct {
	t       *testing.T
	e       *echo.Echo
	session string
	header  http.Header
}

func newClient(t *testing.T, e *echo.Echo) *client {
	return &client{t: t, e: e, header: http.Header{}}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range c.header {
		req.Header[k] = v
	}
	if c.session != "" {
		req.Header.Set("X-Session-ID", c.session)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	if id := rec.Header().Get("X-Session-ID"); id != "" {
		c.session = id
	}
	return rec
}

func (c *client) login(email, password string) {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
