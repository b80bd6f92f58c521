package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/trendmeme/internal/domain"
	"github.com/timmy/trendmeme/internal/llm"
	"github.com/timmy/trendmeme/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	meme *domain.ResolvedMeme
	err  error
	got  *domain.CaptionRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req *domain.CaptionRequest) (*domain.ResolvedMeme, error) {
	f.got = req
	return f.meme, f.err
}

type fakeTrends struct {
	raw json.RawMessage
	err error
}

func (f *fakeTrends) Trending(context.Context) (json.RawMessage, error) {
	return f.raw, f.err
}

func serve(h gin.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Any("/t", h)
	req := httptest.NewRequest(method, "/t", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGenerateMemeSuccess(t *testing.T) {
	gen := &fakeGenerator{meme: &domain.ResolvedMeme{
		Caption:   "To the stars, literally!",
		Template:  "gru",
		ImageURL:  "https://api.memegen.link/images/gru/_/To_the_stars,_literally!.png",
		Templates: []string{"drake", "gru"},
		Provider:  domain.ProviderGemini,
	}}
	h := NewMemeHandler(gen)

	w := serve(h.GenerateMeme, http.MethodPost,
		`{"topic":"space exploration","template":"gru-plan","provider":"gemini"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "To the stars, literally!", body["caption"])
	assert.Equal(t, "https://api.memegen.link/images/gru/_/To_the_stars,_literally!.png", body["memeUrl"])
	assert.Equal(t, "gru", body["template"])
	assert.Equal(t, "gru-plan", body["requestedTemplate"])
	assert.Equal(t, "gru", body["resolvedTemplate"])
	assert.Equal(t, []interface{}{"drake", "gru"}, body["templates"])
	assert.Equal(t, "gemini", body["provider"])

	require.NotNil(t, gen.got)
	assert.Equal(t, domain.ProviderGemini, gen.got.Provider)
	assert.Equal(t, domain.ModeFull, gen.got.Mode)
}

func TestGenerateMemeCaptionModeOmitsURL(t *testing.T) {
	gen := &fakeGenerator{meme: &domain.ResolvedMeme{
		Caption: "hi", Template: "drake", Templates: []string{"drake"}, Provider: domain.ProviderGroq,
	}}
	w := serve(NewMemeHandler(gen).GenerateMeme, http.MethodPost, `{"topic":"x","mode":"caption","provider":"openai"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.NotContains(t, body, "memeUrl")
	assert.NotContains(t, body, "requestedTemplate")
	assert.Equal(t, "groq", body["provider"])
	assert.Equal(t, domain.ModeCaption, gen.got.Mode)
	assert.Equal(t, domain.ProviderGroq, gen.got.Provider)
}

func TestGenerateMemeMethodNotAllowed(t *testing.T) {
	gen := &fakeGenerator{}
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		w := serve(NewMemeHandler(gen).GenerateMeme, method, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.JSONEq(t, `{"error":"Only POST requests are allowed"}`, w.Body.String())
	}
	assert.Nil(t, gen.got)
}

func TestGenerateMemeBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"malformed json", `{"topic":`},
		{"topic not a string", `{"topic":42}`},
		{"topic null", `{"topic":null,"template":"drake"}`},
		{"body not an object", `["space"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			w := serve(NewMemeHandler(gen).GenerateMeme, http.MethodPost, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Topic is required"}`, w.Body.String())
			assert.Nil(t, gen.got)
		})
	}
}

func TestGenerateMemeIgnoresNonStringOptionalFields(t *testing.T) {
	gen := &fakeGenerator{meme: &domain.ResolvedMeme{
		Caption: "hi", Template: "drake", ImageURL: "https://x/y.png", Templates: []string{"drake"}, Provider: domain.ProviderGroq,
	}}

	w := serve(NewMemeHandler(gen).GenerateMeme, http.MethodPost,
		`{"topic":"space exploration","template":5,"mode":true,"provider":{"name":"gemini"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NotNil(t, gen.got)
	assert.Equal(t, "space exploration", gen.got.Topic)
	assert.Empty(t, gen.got.Template)
	assert.Equal(t, domain.ModeFull, gen.got.Mode)
	assert.Equal(t, domain.ProviderGroq, gen.got.Provider)

	body := decode(t, w)
	assert.NotContains(t, body, "requestedTemplate")
	assert.Equal(t, "drake", body["template"])
}

func TestGenerateMemeErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"topic required", service.ErrTopicRequired, http.StatusBadRequest, `{"error":"Topic is required"}`},
		{
			"config error",
			&llm.ConfigError{Provider: domain.ProviderGemini, Message: "Missing GEMINI_API_KEY / GOOGLE_API_KEY"},
			http.StatusInternalServerError,
			`{"error":"Missing GEMINI_API_KEY / GOOGLE_API_KEY"}`,
		},
		{
			"upstream error",
			&service.UpstreamError{Provider: domain.ProviderGroq, Err: errors.New("timeout")},
			http.StatusInternalServerError,
			`{"error":"Failed to generate meme"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(NewMemeHandler(&fakeGenerator{err: tt.err}).GenerateMeme, http.MethodPost, `{"topic":"x"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestTrends(t *testing.T) {
	raw := json.RawMessage(`[{"query":"eclipse"}]`)
	w := serve(NewTrendsHandler(&fakeTrends{raw: raw}).Trends, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `[{"query":"eclipse"}]`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestTrendsFailure(t *testing.T) {
	w := serve(NewTrendsHandler(&fakeTrends{err: service.ErrTrendsKeyMissing}).Trends, http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch trends"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	w := serve(NewHealthHandler().Health, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
