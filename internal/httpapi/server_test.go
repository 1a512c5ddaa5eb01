package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/uideck/internal/celx"
	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/mcpserver"
	"github.com/oakwood-commons/uideck/internal/metrics"
	"github.com/oakwood-commons/uideck/internal/mockdata"
)

type routeRecorder struct {
	metrics.Noop
	requests []string
	forms    []string
}

func (r *routeRecorder) HTTPRequest(method, route string, status int, _ time.Duration) {
	r.requests = append(r.requests, method+" "+route+" "+http.StatusText(status))
}

func (r *routeRecorder) FormSubmission(d domain.Domain, outcome string) {
	r.forms = append(r.forms, d.String()+"/"+outcome)
}

func newAPI(t *testing.T) (http.Handler, *routeRecorder) {
	t.Helper()
	src := mockdata.MustNewStore(mockdata.WithLatency(0))
	eval, err := celx.NewEvaluator()
	require.NoError(t, err)
	rec := &routeRecorder{}
	d := dispatch.New(src, nil, dispatch.Options{})
	api := New(Options{
		Source:      src,
		Dispatcher:  d,
		Evaluator:   eval,
		Snapshotter: func(disp dispatch.Display) string { return "rendered " + disp.Label() },
		MCP:         mcpserver.NewServer(d),
		Recorder:    rec,
		Metrics:     http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
	})
	return api.Handler(), rec
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealthzAndMetrics(t *testing.T) {
	h, rec := newAPI(t)
	rr := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode(t, rr)["status"])
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	rr = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, "# metrics", rr.Body.String())
	assert.Equal(t, []string{"GET /healthz OK", "GET /metrics OK"}, rec.requests)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "0b4f2a9e-7d3c-4f6e-9a51-2c8d7e6f5a4b")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "0b4f2a9e-7d3c-4f6e-9a51-2c8d7e6f5a4b", rr.Header().Get(RequestIDHeader))
}

func TestDomains(t *testing.T) {
	h, _ := newAPI(t)
	rr := do(t, h, http.MethodGet, "/api/v1/domains", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var info mcpserver.DomainsInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Len(t, info.Domains, 4)
}

func TestListAndGetRecords(t *testing.T) {
	h, rec := newAPI(t)
	rr := do(t, h, http.MethodGet, "/api/v1/data/products", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 5)

	rr = do(t, h, http.MethodGet, "/api/v1/data/products?filter="+`_.price%20%3C%2050.0`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode(t, rr)["data"], 2)

	rr = do(t, h, http.MethodGet, "/api/v1/data/users?offset=1&limit=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	users := decode(t, rr)["data"].([]any)
	require.Len(t, users, 2)
	assert.Equal(t, "Jane", users[0].(map[string]any)["firstName"])

	rr = do(t, h, http.MethodGet, "/api/v1/data/users?limit=1&tail=1", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/data/orders/1001", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Acme Corp", decode(t, rr)["data"].(map[string]any)["customer"])

	rr = do(t, h, http.MethodGet, "/api/v1/data/orders/42", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	body = decode(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, mockdata.NotFoundMessage, body["error"])

	rr = do(t, h, http.MethodGet, "/api/v1/data/pets", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Invalid data type: pets", decode(t, rr)["error"])

	assert.Contains(t, rec.requests, "GET /api/v1/data/{domain}/{id} Not Found")
}

func TestDisplayComponentEndpoint(t *testing.T) {
	h, _ := newAPI(t)
	rr := do(t, h, http.MethodPost, "/api/v1/tools/display-component", `{"componentType":"item","dataType":"orders","itemId":"1001"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "panel", body["layout"])
	assert.Equal(t, "rendered item - orders", body["snapshot"])

	rr = do(t, h, http.MethodPost, "/api/v1/tools/display-component", `{"componentType":"item","dataType":"orders"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, dispatch.ErrItemIDRequired, decode(t, rr)["error"])

	rr = do(t, h, http.MethodPost, "/api/v1/tools/display-component", `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitForm(t *testing.T) {
	h, rec := newAPI(t)
	rr := do(t, h, http.MethodPost, "/api/v1/forms/products", `{"name":"","price":"abc"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].([]any)
	require.NotEmpty(t, errs)
	assert.Equal(t, "name", errs[0].(map[string]any)["field"])
	assert.Empty(t, rec.forms)

	rr = do(t, h, http.MethodPost, "/api/v1/forms/products", `{"name":"Desk Lamp","category":"accessories","price":19.99,"stock":4}`)
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	body = decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 19.99, body["data"].(map[string]any)["price"])
	assert.Equal(t, []string{"products/ok"}, rec.forms)

	rr = do(t, h, http.MethodPost, "/api/v1/forms/products", `{"colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
