package listener

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0xalexb/hjarta-config/config"
	xmlparser "github.com/0xalexb/hjarta-config/config/parser/xml"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `<configuration id="9a1f" group="billing" application="invoicer" name="production" version="3.0.1">
  <header>
    <createdBy user="alice" timestamp="2024-01-02T03:04:05Z"/>
    <updatedBy user="alice" timestamp="2024-01-02T03:04:05Z"/>
  </header>
  <root>
    <app>
      <listener>
        <address>127.0.0.1:9090</address>
        <prefix>/config/</prefix>
        <request_timeout>5s</request_timeout>
        <max_request_size>008192</max_request_size>
        <rate_limit>50</rate_limit>
        <burst>10</burst>
        <origins>
          <origin>dash.example.org</origin>
          <origin>ops.example.org</origin>
        </origins>
      </listener>
      <db region="eu">
        <host>db.example.org</host>
        <port>5432</port>
      </db>
      <queues>
        <queue>fast</queue>
        <queue>slow</queue>
      </queues>
    </app>
  </root>
</configuration>`

func newConfiguration(t *testing.T) *config.Configuration {
	t.Helper()

	cfg := config.New(nil)
	require.NoError(t, xmlparser.NewParser().Parse([]byte(document), cfg))
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.PostLoad())

	return cfg
}

func serve(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

	return recorder
}

func TestInspector_Query(t *testing.T) {
	t.Parallel()

	inspector, err := NewInspector(newConfiguration(t), Config{Prefix: "/"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantType    string
		wantContain string
	}{
		{name: "value as json", target: "/?path=/app/db/host", wantStatus: http.StatusOK, wantType: "application/json", wantContain: "db.example.org"},
		{name: "attribute", target: "/?path=/app/db@region", wantStatus: http.StatusOK, wantType: "application/json", wantContain: "eu"},
		{name: "subtree as yaml", target: "/?path=/app/db&format=yaml", wantStatus: http.StatusOK, wantType: "application/yaml", wantContain: "port"},
		{name: "subtree as xml", target: "/?path=/app/db&format=XML", wantStatus: http.StatusOK, wantType: "application/xml", wantContain: "<host>db.example.org</host>"},
		{name: "wildcard", target: "/?path=/app/queues/*", wantStatus: http.StatusOK, wantType: "application/json", wantContain: "slow"},
		{name: "root when path is empty", target: "/", wantStatus: http.StatusOK, wantType: "application/json", wantContain: "listener"},
		{name: "not found", target: "/?path=/app/missing", wantStatus: http.StatusNotFound, wantType: "application/json", wantContain: "not found"},
		{name: "unknown format", target: "/?path=/app&format=toml", wantStatus: http.StatusBadRequest, wantType: "application/json", wantContain: "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recorder := serve(t, inspector, tt.target)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantType, recorder.Header().Get("Content-Type"))
			assert.Contains(t, recorder.Body.String(), tt.wantContain)
		})
	}
}

func TestInspector_Health(t *testing.T) {
	t.Parallel()

	cfg := newConfiguration(t)

	inspector, err := NewInspector(cfg, Config{Prefix: "/config/"})
	require.NoError(t, err)

	recorder := serve(t, inspector, "/config/healthz")
	require.Equal(t, http.StatusOK, recorder.Code)

	var status map[string]string

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "synced", status["state"])
	assert.Equal(t, "production", status["name"])
	assert.Equal(t, "3.0.1", status["version"])

	assert.Equal(t, http.StatusNotFound, serve(t, inspector, "/healthz").Code)

	cfg.SetState(config.StateError)

	recorder = serve(t, inspector, "/config/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.True(t, strings.Contains(recorder.Body.String(), `"error"`))
}

func TestNewInspector_NilConfiguration(t *testing.T) {
	t.Parallel()

	inspector, err := NewInspector(nil, Config{})

	require.ErrorIs(t, err, ErrNilConfiguration)
	assert.Nil(t, inspector)
}
