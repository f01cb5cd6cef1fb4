package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/recast/models"
)

type stubCloner struct {
	calls int
	fn    func(ctx context.Context, req *models.CloneRequest) (*models.CloneResponse, error)
}

func (s *stubCloner) Clone(ctx context.Context, req *models.CloneRequest) (*models.CloneResponse, error) {
	s.calls++
	return s.fn(ctx, req)
}

func newCloneRouter(p Cloner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/clone_website", Clone(p))
	return r
}

func postClone(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/clone_website", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestClone_Success(t *testing.T) {
	stub := &stubCloner{fn: func(_ context.Context, req *models.CloneRequest) (*models.CloneResponse, error) {
		assert.Equal(t, "https://example.com/", req.TargetURL)
		return &models.CloneResponse{
			Success:    true,
			ClonedHTML: "<html><body>Clone</body></html>",
			Message:    "Successfully generated aesthetic clone for https://example.com/",
			Metadata: models.CloneMetadata{
				SourceURL: "https://example.com/",
				Title:     "Example Domain",
			},
		}, nil
	}}

	w := postClone(t, newCloneRouter(stub), `{"target_url": "https://example.com/"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CloneResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "<html><body>Clone</body></html>", resp.ClonedHTML)
	assert.Equal(t, "Example Domain", resp.Metadata.Title)
	assert.Equal(t, 1, stub.calls)
}

func TestClone_MissingTargetURL(t *testing.T) {
	stub := &stubCloner{fn: func(context.Context, *models.CloneRequest) (*models.CloneResponse, error) {
		t.Fatal("pipeline must not run when binding fails")
		return nil, nil
	}}

	w := postClone(t, newCloneRouter(stub), `{}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.CloneResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Detail)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
	assert.Equal(t, 0, stub.calls)
}

func TestClone_MalformedJSON(t *testing.T) {
	stub := &stubCloner{fn: func(context.Context, *models.CloneRequest) (*models.CloneResponse, error) {
		t.Fatal("pipeline must not run for malformed JSON")
		return nil, nil
	}}

	w := postClone(t, newCloneRouter(stub), `{"target_url": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, stub.calls)
}

func TestClone_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code       string
		wantStatus int
	}{
		{models.ErrCodeInvalidInput, http.StatusBadRequest},
		{models.ErrCodeScrape, http.StatusBadGateway},
		{models.ErrCodeScrapeTimeout, http.StatusGatewayTimeout},
		{models.ErrCodeGeneration, http.StatusBadGateway},
		{models.ErrCodeGenerationAuth, http.StatusBadGateway},
		{models.ErrCodeGenerationRate, http.StatusTooManyRequests},
		{models.ErrCodeBrowserCrash, http.StatusInternalServerError},
		{models.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			stub := &stubCloner{fn: func(context.Context, *models.CloneRequest) (*models.CloneResponse, error) {
				return nil, models.NewCloneError(tt.code, "it broke", nil)
			}}

			w := postClone(t, newCloneRouter(stub), `{"target_url": "https://example.com/"}`)

			require.Equal(t, tt.wantStatus, w.Code)

			var resp models.CloneResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, "it broke", resp.Detail)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Empty(t, resp.ClonedHTML)
		})
	}
}

func TestClone_UntypedErrorBecomesInternal(t *testing.T) {
	stub := &stubCloner{fn: func(context.Context, *models.CloneRequest) (*models.CloneResponse, error) {
		return nil, context.DeadlineExceeded
	}}

	w := postClone(t, newCloneRouter(stub), `{"target_url": "https://example.com/"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.CloneResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInternal, resp.Error.Code)
}

type stubStats struct {
	stats models.BrowserStats
}

func (s stubStats) Stats() models.BrowserStats { return s.stats }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		stats      models.BrowserStats
		wantStatus string
	}{
		{"idle", models.BrowserStats{ActivePages: 0, MaxPages: 10}, "healthy"},
		{"busy but under threshold", models.BrowserStats{ActivePages: 8, MaxPages: 10}, "healthy"},
		{"saturated", models.BrowserStats{ActivePages: 9, MaxPages: 10}, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.GET("/health", Health(stubStats{tt.stats}, time.Now().Add(-time.Minute)))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, http.StatusOK, w.Code)

			var resp models.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.stats.MaxPages, resp.Browser.MaxPages)
			assert.NotEmpty(t, resp.Uptime)
		})
	}
}

func TestWelcome(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", Welcome())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome")
}
