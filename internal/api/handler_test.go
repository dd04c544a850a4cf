package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikedutoitzs/floogleads/internal/campaign"
	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/mikedutoitzs/floogleads/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type stubGenerator struct {
	analyzeErr error
}

func (g *stubGenerator) AnalyzeSite(ctx context.Context, url, location, currency string) (*models.SiteAnalysis, error) {
	if g.analyzeErr != nil {
		return nil, g.analyzeErr
	}
	if currency == "" {
		currency = "GBP"
	}
	return &models.SiteAnalysis{
		Title:          "Acme Shoes",
		Summary:        "Running shoes.",
		Currency:       currency,
		CurrencySymbol: "£",
		Keywords: []models.Keyword{
			{Term: "running shoes", Type: models.KeywordGeneric, Volume: 1000, Competition: 60, Relevance: 90, CPC: 1.2},
			{Term: "acme", Type: models.KeywordBrand, Volume: 50, Competition: 5, Relevance: 100, CPC: 0.3},
		},
	}, nil
}

func (g *stubGenerator) StructureAdGroups(ctx context.Context, keywords []models.Keyword, summary string) ([]models.AdGroup, error) {
	var terms []string
	for _, k := range keywords {
		terms = append(terms, k.Term)
	}
	return []models.AdGroup{{
		ID:           "group-1",
		Name:         "Running Shoes",
		Keywords:     terms,
		Headlines:    []string{"Fast Running Shoes", "Light Trainers"},
		Descriptions: []string{"Shop the range today."},
	}}, nil
}

func (g *stubGenerator) GenerateImage(ctx context.Context, group models.AdGroup, summary string) (*models.Image, error) {
	return &models.Image{MIMEType: "image/png", Data: []byte("png")}, nil
}

type testServer struct {
	router *gin.Engine
	store  *store.Store
}

func newTestServer(t *testing.T, gen campaign.Generator) *testServer {
	t.Helper()
	backend, err := store.NewFileBackend(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	st := store.New(backend, zap.NewNop())

	svc, err := campaign.NewService(context.Background(), st, gen, zap.NewNop())
	require.NoError(t, err)

	return &testServer{
		router: NewRouter(NewHandler(svc, zap.NewNop()), zap.NewNop()),
		store:  st,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, strings.NewReader(string(data)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type stateResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    models.CampaignState `json:"data"`
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateResponse {
	t.Helper()
	var resp stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	assert.False(t, resp.Success)
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGetDefaultState(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	rec := s.do(t, http.MethodGet, "/api/campaign", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeState(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, models.StepSetup, resp.Data.Step)
	assert.Empty(t, resp.Data.Keywords)
}

func TestWizardFlow(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	rec := s.do(t, http.MethodPut, "/api/campaign/input", InputRequest{URL: "https://acme.test", Location: "London, UK"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/campaign/analyze", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decodeState(t, rec).Data
	assert.Equal(t, models.StepKeywords, st.Step)
	assert.Equal(t, "Acme Shoes", st.ExtractedInfo.Title)
	require.Len(t, st.Keywords, 2)

	rec = s.do(t, http.MethodPost, "/api/campaign/keywords", KeywordRequest{Term: "trail shoes", Type: "generic"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeState(t, rec)
	assert.Equal(t, "Keyword added", resp.Message)
	assert.Equal(t, "trail shoes", resp.Data.Keywords[0].Term)

	rec = s.do(t, http.MethodPost, "/api/campaign/keywords/toggle", KeywordRequest{Term: "acme"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/campaign/keywords?term=trail+shoes", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeState(t, rec).Data.Keywords, 2)

	rec = s.do(t, http.MethodPost, "/api/campaign/adgroups", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st = decodeState(t, rec).Data
	assert.Equal(t, models.StepAdGroups, st.Step)
	require.Len(t, st.AdGroups, 1)
	assert.Equal(t, []string{"running shoes"}, st.AdGroups[0].Keywords, "deselected keywords are not sent")

	rec = s.do(t, http.MethodPatch, "/api/campaign/adgroups/group-1", RenameRequest{Name: "Trainers"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	long := strings.Repeat("x", models.HeadlineLimit+2)
	rec = s.do(t, http.MethodPut, "/api/campaign/adgroups/group-1/assets/headlines/3", AssetRequest{Value: long})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st = decodeState(t, rec).Data
	assert.Equal(t, []string{"Fast Running Shoes", "Light Trainers", "", long}, st.AdGroups[0].Headlines)

	rec = s.do(t, http.MethodGet, "/api/campaign/limits", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var limits struct {
		Data []campaign.LimitViolation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &limits))
	require.Len(t, limits.Data, 1)
	assert.Equal(t, 3, limits.Data[0].Index)

	rec = s.do(t, http.MethodPost, "/api/campaign/adgroups/group-1/image", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var image struct {
		Data ImageResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &image))
	assert.True(t, image.Data.Generated)
	assert.Equal(t, "data:image/png;base64,cG5n", image.Data.State.AdGroups[0].GeneratedImage)

	rec = s.do(t, http.MethodPut, "/api/campaign/step", StepRequest{Step: models.StepExport})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/campaign/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="campaign_export.csv"`, rec.Header().Get("Content-Disposition"))
	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Campaign,Ad Group,Keyword,Type,Headline 1"))
	assert.Contains(t, lines[1], `"Trainers","running shoes","Keyword"`)

	saved, err := s.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StepExport, saved.Step)
	assert.Equal(t, "Trainers", saved.AdGroups[0].Name)

	rec = s.do(t, http.MethodPost, "/api/campaign/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Started new campaign", decodeState(t, rec).Message)

	saved, err = s.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StepSetup, saved.Step)
	assert.Empty(t, saved.AdGroups)
}

func TestRefine(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	s.do(t, http.MethodPut, "/api/campaign/input", InputRequest{URL: "https://acme.test", Location: "London"})
	s.do(t, http.MethodPost, "/api/campaign/analyze", nil)

	rec := s.do(t, http.MethodPost, "/api/campaign/refine", RefineRequest{Location: "Boston, USA", Currency: "USD"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeState(t, rec)
	assert.Equal(t, "Targeting updated successfully", resp.Message)
	assert.Equal(t, "Boston, USA", resp.Data.Location)
	assert.Equal(t, "USD", resp.Data.ExtractedInfo.Currency)
}

func TestErrorResponses(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"analyze without input", http.MethodPost, "/api/campaign/analyze", nil, http.StatusBadRequest},
		{"invalid step", http.MethodPut, "/api/campaign/step", StepRequest{Step: 9}, http.StatusBadRequest},
		{"empty keyword", http.MethodPost, "/api/campaign/keywords", KeywordRequest{Term: " "}, http.StatusBadRequest},
		{"bad keyword type", http.MethodPost, "/api/campaign/keywords", KeywordRequest{Term: "x", Type: "Other"}, http.StatusBadRequest},
		{"toggle unknown keyword", http.MethodPost, "/api/campaign/keywords/toggle", KeywordRequest{Term: "nope"}, http.StatusNotFound},
		{"remove without term", http.MethodDelete, "/api/campaign/keywords", nil, http.StatusBadRequest},
		{"generate without keywords", http.MethodPost, "/api/campaign/adgroups", nil, http.StatusBadRequest},
		{"rename unknown group", http.MethodPatch, "/api/campaign/adgroups/nope", RenameRequest{Name: "x"}, http.StatusNotFound},
		{"remove unknown group", http.MethodDelete, "/api/campaign/adgroups/nope", nil, http.StatusNotFound},
		{"asset index not a number", http.MethodPut, "/api/campaign/adgroups/nope/assets/headlines/x", AssetRequest{Value: "v"}, http.StatusBadRequest},
		{"asset unknown kind", http.MethodPut, "/api/campaign/adgroups/nope/assets/images/0", AssetRequest{Value: "v"}, http.StatusBadRequest},
		{"image unknown group", http.MethodPost, "/api/campaign/adgroups/nope/image", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			decodeError(t, rec)
		})
	}
}

func TestInvalidJSONBody(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	req := httptest.NewRequest(http.MethodPut, "/api/campaign/input", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeError(t, rec).Message)
}

func TestGenerationFailureIsGeneric(t *testing.T) {
	s := newTestServer(t, &stubGenerator{analyzeErr: errors.New("API key not valid: secret-detail")})
	s.do(t, http.MethodPut, "/api/campaign/input", InputRequest{URL: "https://acme.test", Location: "London"})

	rec := s.do(t, http.MethodPost, "/api/campaign/analyze", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, "Failed to analyze website. Please check URL or API key.", resp.Message)
	assert.NotContains(t, rec.Body.String(), "secret-detail")

	rec = s.do(t, http.MethodGet, "/api/campaign", nil)
	assert.False(t, decodeState(t, rec).Data.IsProcessing)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{campaign.ErrBusy, http.StatusConflict},
		{fmt.Errorf("%w: x", campaign.ErrAdGroupNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: x", campaign.ErrKeywordNotFound), http.StatusNotFound},
		{campaign.ErrMissingInput, http.StatusBadRequest},
		{campaign.ErrDuplicateKeyword, http.StatusBadRequest},
		{campaign.ErrNoSelectedKeywords, http.StatusBadRequest},
		{fmt.Errorf("%w: analyze: %w", campaign.ErrGeneration, errors.New("boom")), http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	s.do(t, http.MethodGet, "/api/campaign", nil)

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `adcraft_http_requests_total{method="GET",path="/api/campaign",status="200"}`)
}
