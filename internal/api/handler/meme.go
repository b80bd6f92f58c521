package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/trendmeme/internal/api/middleware"
	"github.com/timmy/trendmeme/internal/domain"
	"github.com/timmy/trendmeme/internal/llm"
	"github.com/timmy/trendmeme/internal/service"
)

// MemeGenerator produces a meme for a caption request.
type MemeGenerator interface {
	Generate(ctx context.Context, req *domain.CaptionRequest) (*domain.ResolvedMeme, error)
}

// MemeHandler handles meme generation endpoints.
type MemeHandler struct {
	memes MemeGenerator
}

// NewMemeHandler creates a new meme handler.
// Parameters:
//   - memes: meme generation service.
// Returns:
//   - *MemeHandler: initialized handler.
func NewMemeHandler(memes MemeGenerator) *MemeHandler {
	return &MemeHandler{memes: memes}
}

// GenerateMemeRequest is the request body for meme generation. Fields are
// decoded leniently: topic must be a JSON string, while a non-string
// template, mode or provider is treated as absent.
type GenerateMemeRequest struct {
	Topic    json.RawMessage `json:"topic"`
	Template json.RawMessage `json:"template"`
	Mode     json.RawMessage `json:"mode"`
	Provider json.RawMessage `json:"provider"`
}

// stringField returns raw as a string when it holds a JSON string.
func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// GenerateMemeResponse is the success body for meme generation.
type GenerateMemeResponse struct {
	Caption           string   `json:"caption"`
	MemeURL           string   `json:"memeUrl,omitempty"`
	Template          string   `json:"template"`
	RequestedTemplate string   `json:"requestedTemplate,omitempty"`
	ResolvedTemplate  string   `json:"resolvedTemplate"`
	Templates         []string `json:"templates"`
	Provider          string   `json:"provider"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerateMeme handles /api/generate-meme. Only POST is accepted.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MemeHandler) GenerateMeme(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Only POST requests are allowed"})
		return
	}

	var body GenerateMemeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.GetLogger(c).WithError(err).Debug("Invalid generate-meme body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Topic is required"})
		return
	}

	topic, ok := stringField(body.Topic)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Topic is required"})
		return
	}
	tmpl, _ := stringField(body.Template)
	mode, _ := stringField(body.Mode)
	provider, _ := stringField(body.Provider)

	req := &domain.CaptionRequest{
		Topic:    topic,
		Template: tmpl,
		Mode:     domain.ParseMode(mode),
		Provider: domain.ParseProvider(provider),
	}

	meme, err := h.memes.Generate(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenerateMemeResponse{
		Caption:           meme.Caption,
		MemeURL:           meme.ImageURL,
		Template:          meme.Template,
		RequestedTemplate: tmpl,
		ResolvedTemplate:  meme.Template,
		Templates:         meme.Templates,
		Provider:          string(meme.Provider),
	})
}

func (h *MemeHandler) writeError(c *gin.Context, err error) {
	var cfgErr *llm.ConfigError
	switch {
	case errors.Is(err, service.ErrTopicRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Topic is required"})
	case errors.As(err, &cfgErr):
		middleware.GetLogger(c).WithError(err).Warn("Caption provider not configured")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: cfgErr.Message})
	default:
		middleware.GetLogger(c).WithError(err).Error("Error generating meme")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate meme"})
	}
}
