package catalog_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/internal/catalog"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newCatalogTS(t *testing.T, deps catalog.HTTPDeps) *httptest.Server {
	t.Helper()

	deps.Log = zap.NewNop()
	deps.Service = "catalog"

	s := &catalog.Server{Catalog: catalog.NewProductService(), Log: zap.NewNop()}
	ts := httptest.NewServer(catalog.NewHandler(s, deps))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeProducts(t *testing.T, raw []byte) []catalog.Product {
	t.Helper()

	var out []catalog.Product
	require.NoError(t, json.Unmarshal(raw, &out), "body=%s", raw)
	return out
}

func TestHTTP_AddAndSearch(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, raw := do(t, http.MethodPost, ts.URL+"/products", `{"name":"Milk","description":"Dairy drink"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body=%s", raw)
	assert.JSONEq(t, `{"added":true}`, string(raw))

	resp, raw = do(t, http.MethodPost, ts.URL+"/products", `{"name":"Milk","description":"Dairy drink"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"added":false}`, string(raw))

	resp, _ = do(t, http.MethodPost, ts.URL+"/products", `{"name":"Bread","description":"Bakery item"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw = do(t, http.MethodGet, ts.URL+"/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeProducts(t, raw), 2)

	resp, raw = do(t, http.MethodGet, ts.URL+"/products?q=rea", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []catalog.Product{bread}, decodeProducts(t, raw))

	resp, raw = do(t, http.MethodGet, ts.URL+"/products?q=xyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestHTTP_AddBadRequests(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"null product", `null`, "product required"},
		{"empty body", ``, "product required"},
		{"malformed", `{"name":`, "bad json"},
		{"unknown field", `{"name":"a","price":1}`, "bad json"},
		{"trailing data", `{"name":"a"}{"name":"b"}`, "bad json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := do(t, http.MethodPost, ts.URL+"/products", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, "body=%s", raw)

			var er struct {
				Error     string `json:"error"`
				RequestID string `json:"request_id"`
			}
			require.NoError(t, json.Unmarshal(raw, &er))
			assert.Equal(t, tt.wantErr, er.Error)
			assert.NotEmpty(t, er.RequestID)
		})
	}
}

func TestHTTP_WritesRequireEditorToken(t *testing.T) {
	tm := auth.NewTokenMaker(testSecret)
	ts := newCatalogTS(t, catalog.HTTPDeps{Tokens: tm})

	body := `{"name":"Milk","description":"Dairy drink"}`

	resp, _ := do(t, http.MethodPost, ts.URL+"/products", body, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/products", body, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	viewer, err := tm.New("u1", auth.RoleViewer, time.Minute)
	require.NoError(t, err)
	resp, _ = do(t, http.MethodPost, ts.URL+"/products", body, map[string]string{
		"Authorization": "Bearer " + viewer,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	editor, err := tm.New("u2", auth.RoleEditor, time.Minute)
	require.NoError(t, err)
	resp, _ = do(t, http.MethodPost, ts.URL+"/products", body, map[string]string{
		"Authorization": "Bearer " + editor,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := do(t, http.MethodGet, ts.URL+"/products?q=Milk", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []catalog.Product{milk}, decodeProducts(t, raw))
}

func TestHTTP_WriteRateLimit(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{WriteLimitPerMin: 2})

	for i, want := range []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests} {
		body := `{"name":"p` + string(rune('a'+i)) + `"}`
		resp, raw := do(t, http.MethodPost, ts.URL+"/products", body, nil)
		require.Equal(t, want, resp.StatusCode, "attempt %d body=%s", i, raw)
	}

	resp, _ := do(t, http.MethodGet, ts.URL+"/products", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_HealthAndReady(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	resp, _ := do(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/readyz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_MetricsEndpoint(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "scrape",
	})

	resp, _ := do(t, http.MethodGet, ts.URL+"/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/metrics", "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := do(t, http.MethodGet, ts.URL+"/metrics", "", map[string]string{
		"Authorization": "Bearer scrape",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "http_requests_total")
}

func TestHTTP_SearchSortedByPrice(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	for _, body := range []string{
		`{"name":"Laptop","description":"work","category":"laptop","price_cents":150000,"favorite_count":10}`,
		`{"name":"Phone","description":"calls","category":"phone","price_cents":80000,"favorite_count":30}`,
		`{"name":"Camera","description":"photos","category":"camera","price_cents":80000,"favorite_count":5}`,
	} {
		resp, raw := do(t, http.MethodPost, ts.URL+"/products", body, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "body=%s", raw)
	}

	resp, raw := do(t, http.MethodGet, ts.URL+"/products?sort=price", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var names []string
	for _, p := range decodeProducts(t, raw) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Phone", "Camera", "Laptop"}, names)

	resp, raw = do(t, http.MethodGet, ts.URL+"/products?q=o&sort=price", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeProducts(t, raw)
	require.Len(t, got, 3)
	assert.Equal(t, catalog.CategoryPhone, got[0].Category)

	resp, _ = do(t, http.MethodGet, ts.URL+"/products?sort=name", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_AddBodyTooLarge(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{})

	body := `{"name":"big","description":"` + strings.Repeat("x", 70_000) + `"}`
	resp, raw := do(t, http.MethodPost, ts.URL+"/products", body, nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode, "body=%s", raw)

	var er struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &er))
	assert.Equal(t, "body too large", er.Error)

	resp, raw = do(t, http.MethodGet, ts.URL+"/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeProducts(t, raw))
}

func TestHTTP_WriteRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	ts := newCatalogTS(t, catalog.HTTPDeps{WriteLimitPerMin: 2})

	allowed := 0
	for i := 0; i < 20; i++ {
		body := `{"name":"spoof` + strconv.Itoa(i) + `"}`
		resp, _ := do(t, http.MethodPost, ts.URL+"/products", body, map[string]string{
			"X-Forwarded-For": "203.0.113." + strconv.Itoa(i+1),
		})
		if resp.StatusCode == http.StatusCreated {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed)
}
