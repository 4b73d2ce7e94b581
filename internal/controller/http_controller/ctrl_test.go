package http_controller_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/horockey/rxprefs"
	"github.com/horockey/rxprefs/internal/controller/http_controller"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiKey = "secret"

func newServer(t *testing.T) (*httptest.Server, *rxprefs.Registry) {
	t.Helper()

	reg := rxprefs.NewRegistry(rxprefs.WithInMemory(), rxprefs.WithLogger(zerolog.Nop()))
	t.Cleanup(func() { _ = reg.Close() })

	_, err := reg.Open("theme_preferences")
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	ctrl := http_controller.New("", apiKey, reg, promReg, zerolog.Nop())
	promReg.MustRegister(ctrl.Metrics()...)

	srv := httptest.NewServer(ctrl.Handler())
	t.Cleanup(srv.Close)

	return srv, reg
}

func do(t *testing.T, method, url, key, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("X-Api-Key", key)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func Test_Auth(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/prefs", "wrong", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/prefs", apiKey, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func Test_Metrics_NoAuth(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func Test_UnknownNamespace(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/prefs/nope/theme_mode", apiKey, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_Put_Validation(t *testing.T) {
	srv, reg := newServer(t)
	url := srv.URL + "/prefs/theme_preferences/theme_mode"

	resp := do(t, http.MethodPut, url, apiKey, `{"kind":"float","value":"1.5"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, url, apiKey, `{"kind":"int32","value":"many"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, url, apiKey, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, url, apiKey, `{"kind":"string","value":"dark"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ns, found := reg.Lookup("theme_preferences")
	require.True(t, found)
	e, found := ns.Get("theme_mode")
	require.True(t, found)
	assert.Equal(t, "dark", e.Raw)
}

func Test_Get_Absent(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/prefs/theme_preferences/theme_mode", apiKey, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
