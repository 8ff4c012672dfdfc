package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	a, _, _, err := setupApp(t, paymentHCL, false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestHandler_ListExtensions(t *testing.T) {
	t.Parallel()

	a, _, _, err := setupApp(t, paymentHCL, false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/extensions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var views []extensionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "payment.gateway", views[0].Name)
	assert.Equal(t, "stripeBean", views[0].Ref)
	assert.False(t, views[0].Resolved)
}

func TestHandler_Invoke(t *testing.T) {
	t.Parallel()

	a, _, _, err := setupApp(t, paymentHCL, false)
	require.NoError(t, err)
	handler := a.Handler()

	testCases := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "success",
			path:     "/extensions/payment.gateway/invoke",
			body:     `{"amount": "10"}`,
			wantCode: http.StatusOK,
			wantBody: `"amount":"10"`,
		},
		{
			name:     "empty body",
			path:     "/extensions/payment.gateway/invoke",
			wantCode: http.StatusOK,
			wantBody: `"message":"stripe"`,
		},
		{
			name:     "unbound",
			path:     "/extensions/payment.refund/invoke",
			wantCode: http.StatusNotFound,
			wantBody: `not bound`,
		},
		{
			name:     "bad body",
			path:     "/extensions/payment.gateway/invoke",
			body:     `{"amount": 10}`,
			wantCode: http.StatusBadRequest,
			wantBody: `JSON object of strings`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body)))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/extensions/payment.gateway/invoke", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServe_RequiresPort(t *testing.T) {
	t.Parallel()

	a, _, _, err := setupApp(t, paymentHCL, false)
	require.NoError(t, err)

	err = a.Serve(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	a, _, _, err := setupApp(t, paymentHCL, false)
	require.NoError(t, err)
	a.config.Port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(a.config.Port) + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}
