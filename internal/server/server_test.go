package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-parser/internal/cache"
	"github.com/jonathan/job-parser/internal/parsing"
	"github.com/jonathan/job-parser/internal/server/ratelimit"
	"github.com/jonathan/job-parser/internal/types"
)

const samplePosting = `<html><head><title>Platform Engineer - Acme</title></head><body>
<h1>Platform Engineer</h1>
<p>Company: Acme Robotics</p>
<p>Location: Austin, TX</p>
<div class="job-description">
<h2>Requirements</h2>
<ul><li>Experience operating Kubernetes</li><li>Strong Go fundamentals</li></ul>
<h2>Responsibilities</h2>
<ul><li>Own the deployment pipeline</li></ul>
</div>
</body></html>`

type testServer struct {
	*Server
	store *cache.MemoryStore
	logs  *bytes.Buffer
}

func newTestServer(t *testing.T, fetcher parsing.Fetcher, rl *ratelimit.Config) *testServer {
	t.Helper()
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}

	store := cache.NewMemoryStore()
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	s, err := New(Config{
		Engine:    parsing.NewEngine(store, parsing.WithLogger(logger)),
		Store:     store,
		Fetcher:   fetcher,
		RateLimit: rl,
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.rateLimiter.Stop() })
	return &testServer{Server: s, store: store, logs: &logs}
}

func (s *testServer) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestNew_RequiresEngine(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeError(t, w)["status"])
}

func TestSchemaEndpoint(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodGet, "/schema", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "schema+json")
	assert.Contains(t, w.Body.String(), `"experience_level"`)
}

func TestParseEndpoint(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodPost, "/parse", ParseRequest{HTML: samplePosting, Identity: "https://acme.example/jobs/1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	posting, err := types.FromJSON(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics", posting.Company)
	assert.Equal(t, "Platform Engineer", posting.Position)
	assert.Equal(t, []string{"Experience operating Kubernetes", "Strong Go fundamentals"}, posting.Requirements)
	require.NotNil(t, posting.URL)
	assert.Equal(t, "https://acme.example/jobs/1", *posting.URL)

	// Cached: identity alone now resolves.
	w = s.do(http.MethodPost, "/parse", ParseRequest{Identity: "https://acme.example/jobs/1"})
	require.Equal(t, http.StatusOK, w.Code)
	cached, err := types.FromJSON(w.Body.Bytes())
	require.NoError(t, err)
	assert.True(t, posting.Equal(cached))
}

func TestParseEndpoint_Errors(t *testing.T) {
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"invalid json", "{not json", http.StatusBadRequest, "invalid_request"},
		{"empty body", ParseRequest{}, http.StatusBadRequest, "invalid_request"},
		{"identity without fetcher", ParseRequest{Identity: "https://example.com/jobs/404"}, http.StatusBadRequest, "unsupported_input"},
		{"whitespace html", ParseRequest{HTML: "   "}, http.StatusBadRequest, "unsupported_input"},
		{"identity too long", ParseRequest{HTML: "<p>x</p>", Identity: strings.Repeat("a", 3000)}, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/parse", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w)["error"])
		})
	}
}

func TestParseEndpoint_Fetcher(t *testing.T) {
	fetcher := parsing.FetcherFunc(func(_ context.Context, identity string) (string, error) {
		if strings.HasSuffix(identity, "/gone") {
			return "", errors.New("HTTP status 404")
		}
		return samplePosting, nil
	})
	s := newTestServer(t, fetcher, nil)

	w := s.do(http.MethodPost, "/parse", ParseRequest{Identity: "https://acme.example/jobs/2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acme Robotics")

	w = s.do(http.MethodPost, "/parse", ParseRequest{Identity: "https://acme.example/gone"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "fetch_failed", decodeError(t, w)["error"])
}

func TestDetectEndpoint(t *testing.T) {
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name    string
		req     DetectRequest
		want    string
		wantURL string
	}{
		{"linkedin", DetectRequest{HTML: `<div class="topcard__title">x</div>`}, "linkedin", ""},
		{"indeed", DetectRequest{HTML: `<div id="jobsearch">x</div>`}, "indeed", ""},
		{"generic", DetectRequest{HTML: samplePosting}, "generic", ""},
		{"identity does not change source", DetectRequest{HTML: samplePosting, Identity: "https://www.linkedin.com/jobs/view/1"}, "generic", "linkedin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/detect", tt.req)
			require.Equal(t, http.StatusOK, w.Code)

			var resp DetectResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Source)
			assert.Equal(t, tt.wantURL, resp.URLSource)
		})
	}

	w := s.do(http.MethodPost, "/detect", DetectRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCacheEndpoints(t *testing.T) {
	s := newTestServer(t, nil, nil)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		posting := types.NewJobPosting()
		posting.Company = "Acme"
		posting.Position = "Role " + id
		require.NoError(t, s.store.Put(ctx, id, posting))
	}

	w := s.do(http.MethodGet, "/cache?identity=a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Role a")

	w = s.do(http.MethodGet, "/cache?identity=zzz", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/cache", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp CacheDeleteResponse
	w = s.do(http.MethodDelete, "/cache?identity=a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Removed)

	w = s.do(http.MethodDelete, "/cache?identity=a", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Removed)

	w = s.do(http.MethodDelete, "/cache", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Removed)
	assert.Contains(t, s.logs.String(), "[cache] cleared 2 entries")
}

func TestCacheEndpoints_NoStore(t *testing.T) {
	s, err := New(Config{Engine: parsing.NewEngine(nil), RateLimit: &ratelimit.Config{Enabled: false}})
	require.NoError(t, err)
	defer s.rateLimiter.Stop()

	req := httptest.NewRequest(http.MethodDelete, "/cache", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":0}`, w.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t, nil, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/detect", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
		},
	})

	body := DetectRequest{HTML: "<p>x</p>"}
	for i := 0; i < 2; i++ {
		w := s.do(http.MethodPost, "/detect", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := s.do(http.MethodPost, "/detect", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeError(t, w)["error"])
	assert.Contains(t, s.logs.String(), "[rate-limit]")

	// Health stays reachable.
	w = s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.do(http.MethodGet, "/health", nil)
	assert.Contains(t, s.logs.String(), "[GET] /health 200")
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := s.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/parse", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
