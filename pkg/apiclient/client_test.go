// pkg/apiclient/client_test.go

package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/insight"
)

func testRC(t *testing.T) *aiops_io.RuntimeContext {
	t.Helper()
	return aiops_io.NewContext(context.Background(), "test")
}

func newTestClient(t *testing.T, srv *httptest.Server, token string, dryRun bool) *Client {
	t.Helper()
	cfg := TestConfig()
	cfg.Domain = srv.URL
	cfg.Token = token
	cfg.DryRun = dryRun
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClientValidation(t *testing.T) {
	t.Run("missing domain", func(t *testing.T) {
		_, err := NewClient(&Config{Timeout: DefaultConfig().Timeout})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Domain")
	})

	t.Run("bad timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Domain = "https://tenant.example.com"
		cfg.Timeout = -1
		_, err := NewClient(cfg)
		assert.Error(t, err)
	})

	t.Run("endpoint composition", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Domain = "https://tenant.example.com"
		client, err := NewClient(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://tenant.example.com/api/platform/ai-ops-insights/v1/insights", client.Endpoint())
	})
}

func TestTokenPreview(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Domain = "https://tenant.example.com"
	cfg.Token = "abcdefghijklmnop"
	client, err := NewClient(cfg)
	require.NoError(t, err)

	assert.True(t, client.HasToken())
	assert.Equal(t, "abcdefghij...", client.TokenPreview())

	cfg2 := DefaultConfig()
	cfg2.Domain = "https://tenant.example.com"
	anon, err := NewClient(cfg2)
	require.NoError(t, err)
	assert.False(t, anon.HasToken())
	assert.Equal(t, "None", anon.TokenPreview())
}

func TestPost(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotContentType string
	var gotBody insight.Record
	status := http.StatusCreated

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "tkn", false)
	rec := insight.Record{"uid": "u-1", "title": "capacity forecast"}

	assert.True(t, client.Post(testRC(t), rec, "FORECAST: Next 0-7 days"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/platform/ai-ops-insights/v1/insights", gotPath)
	assert.Equal(t, "Bearer tkn", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "u-1", gotBody.UID())

	status = http.StatusOK
	assert.True(t, client.Post(testRC(t), rec, "CURRENT: Active insights"))

	status = http.StatusBadRequest
	assert.False(t, client.Post(testRC(t), rec, "CURRENT: Active insights"))
}

func TestPostAnonymousOmitsAuthHeader(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "", false)
	assert.True(t, client.Post(testRC(t), insight.Record{"uid": "u"}, ""))
	assert.False(t, sawAuth)
}

func TestPostConnectionErrorIsNotFatal(t *testing.T) {
	cfg := TestConfig()
	cfg.Domain = "http://127.0.0.1:1"
	client, err := NewClient(cfg)
	require.NoError(t, err)

	assert.False(t, client.Post(testRC(t), insight.Record{"uid": "u"}, ""))
}

func TestPostDryRunMakesNoNetworkCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "tkn", true)
	assert.True(t, client.Post(testRC(t), insight.Record{"uid": "u", "title": "t"}, "CURRENT: Active insights"))
	assert.Zero(t, calls)
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "300", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"uid": "a"}, {"uid": "b"}]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "", false)
	records, err := client.List(testRC(t), 300)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].UID())
	assert.Equal(t, "b", records[1].UID())
}

func TestListItemsWrapper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"uid": "wrapped"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "", false)
	records, err := client.List(testRC(t), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "wrapped", records[0].UID())
}

func TestListErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "", false)
	_, err := client.List(testRC(t), 300)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestDeleteAll(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent, http.StatusNotFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(status)
		}))
		client := newTestClient(t, srv, "tkn", false)
		assert.True(t, client.DeleteAll(testRC(t)), "status %d should be success", status)
		srv.Close()
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	client := newTestClient(t, srv, "tkn", false)
	assert.False(t, client.DeleteAll(testRC(t)))
}

func TestDeleteAllDryRun(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := newTestClient(t, srv, "", true)
	assert.True(t, client.DeleteAll(testRC(t)))
	assert.Zero(t, calls)
}
