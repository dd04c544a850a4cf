package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikedutoitzs/floogleads/internal/campaign"
	"github.com/mikedutoitzs/floogleads/internal/export"
	"github.com/mikedutoitzs/floogleads/internal/models"
	"go.uber.org/zap"
)

// Wizard is the campaign service as seen by the HTTP layer.
type Wizard interface {
	State() models.CampaignState
	SetInput(ctx context.Context, url, location string) (models.CampaignState, error)
	SetStep(ctx context.Context, step int) (models.CampaignState, error)
	Analyze(ctx context.Context) (models.CampaignState, error)
	Refine(ctx context.Context, location, currency string) (models.CampaignState, error)
	AddKeyword(ctx context.Context, term string, kt models.KeywordType) (models.CampaignState, error)
	ToggleKeyword(ctx context.Context, term string) (models.CampaignState, error)
	RemoveKeyword(ctx context.Context, term string) (models.CampaignState, error)
	GenerateAdGroups(ctx context.Context) (models.CampaignState, error)
	RenameAdGroup(ctx context.Context, id, name string) (models.CampaignState, error)
	RemoveAdGroup(ctx context.Context, id string) (models.CampaignState, error)
	UpdateAsset(ctx context.Context, id string, kind campaign.AssetKind, index int, value string) (models.CampaignState, error)
	GenerateImage(ctx context.Context, id string) (models.CampaignState, bool, error)
	LimitViolations() []campaign.LimitViolation
	Export(w io.Writer, now time.Time) error
	Reset(ctx context.Context) (models.CampaignState, error)
}

type Handler struct {
	wizard Wizard
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(wizard Wizard, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		wizard: wizard,
		logger: logger,
		now:    time.Now,
	}
}

func (h *Handler) GetState(c *gin.Context) {
	h.sendSuccess(c, "", h.wizard.State())
}

func (h *Handler) SetInput(c *gin.Context) {
	var req InputRequest
	if !h.bind(c, &req) {
		return
	}
	st, err := h.wizard.SetInput(c.Request.Context(), req.URL, req.Location)
	h.respond(c, st, err, "", "")
}

func (h *Handler) SetStep(c *gin.Context) {
	var req StepRequest
	if !h.bind(c, &req) {
		return
	}
	st, err := h.wizard.SetStep(c.Request.Context(), req.Step)
	h.respond(c, st, err, "", "")
}

func (h *Handler) Analyze(c *gin.Context) {
	st, err := h.wizard.Analyze(c.Request.Context())
	h.respond(c, st, err, "Website analyzed", "Failed to analyze website. Please check URL or API key.")
}

func (h *Handler) Refine(c *gin.Context) {
	var req RefineRequest
	if !h.bind(c, &req) {
		return
	}
	st, err := h.wizard.Refine(c.Request.Context(), req.Location, req.Currency)
	h.respond(c, st, err, "Targeting updated successfully", "Failed to update targeting")
}

func (h *Handler) AddKeyword(c *gin.Context) {
	var req KeywordRequest
	if !h.bind(c, &req) {
		return
	}

	kt := models.KeywordGeneric
	if req.Type != "" {
		parsed, ok := models.ParseKeywordType(req.Type)
		if !ok {
			h.sendError(c, campaign.ErrInvalidKeywordType.Error(), http.StatusBadRequest)
			return
		}
		kt = parsed
	}

	st, err := h.wizard.AddKeyword(c.Request.Context(), req.Term, kt)
	h.respond(c, st, err, "Keyword added", "")
}

func (h *Handler) ToggleKeyword(c *gin.Context) {
	var req KeywordRequest
	if !h.bind(c, &req) {
		return
	}
	st, err := h.wizard.ToggleKeyword(c.Request.Context(), req.Term)
	h.respond(c, st, err, "", "")
}

func (h *Handler) RemoveKeyword(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		h.sendError(c, "term query parameter is required", http.StatusBadRequest)
		return
	}
	st, err := h.wizard.RemoveKeyword(c.Request.Context(), term)
	h.respond(c, st, err, "Keyword removed", "")
}

func (h *Handler) GenerateAdGroups(c *gin.Context) {
	st, err := h.wizard.GenerateAdGroups(c.Request.Context())
	h.respond(c, st, err, "Ad groups generated", "Failed to generate groups. Please try again.")
}

func (h *Handler) RenameAdGroup(c *gin.Context) {
	var req RenameRequest
	if !h.bind(c, &req) {
		return
	}
	st, err := h.wizard.RenameAdGroup(c.Request.Context(), c.Param("id"), req.Name)
	h.respond(c, st, err, "", "")
}

func (h *Handler) RemoveAdGroup(c *gin.Context) {
	st, err := h.wizard.RemoveAdGroup(c.Request.Context(), c.Param("id"))
	h.respond(c, st, err, "Ad group removed", "")
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.sendError(c, "asset index must be a number", http.StatusBadRequest)
		return
	}
	var req AssetRequest
	if !h.bind(c, &req) {
		return
	}

	kind := campaign.AssetKind(c.Param("kind"))
	st, err := h.wizard.UpdateAsset(c.Request.Context(), c.Param("id"), kind, index, req.Value)
	h.respond(c, st, err, "", "")
}

func (h *Handler) GenerateImage(c *gin.Context) {
	st, generated, err := h.wizard.GenerateImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to generate image.")
		return
	}

	message := "Image generated"
	if !generated {
		message = "No image was generated"
	}
	h.sendSuccess(c, message, ImageResult{Generated: generated, State: st})
}

func (h *Handler) Limits(c *gin.Context) {
	violations := h.wizard.LimitViolations()
	if violations == nil {
		violations = []campaign.LimitViolation{}
	}
	h.sendSuccess(c, "", violations)
}

// Export serves the CSV document as a download.
func (h *Handler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.wizard.Export(&buf, h.now()); err != nil {
		h.logger.Error("Export failed", zap.Error(err))
		h.sendError(c, "Failed to export campaign", http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Data(http.StatusOK, "text/csv;charset=utf-8", buf.Bytes())
}

func (h *Handler) Reset(c *gin.Context) {
	st, err := h.wizard.Reset(c.Request.Context())
	h.respond(c, st, err, "Started new campaign", "")
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Debug("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		h.sendError(c, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// respond sends the new state, or maps err to a status code. genericMsg
// replaces the error text for generation failures.
func (h *Handler) respond(c *gin.Context, st models.CampaignState, err error, okMsg, genericMsg string) {
	if err != nil {
		h.fail(c, err, genericMsg)
		return
	}
	h.sendSuccess(c, okMsg, st)
}

func (h *Handler) fail(c *gin.Context, err error, genericMsg string) {
	status := statusFor(err)

	switch {
	case status == http.StatusBadGateway:
		if genericMsg == "" {
			genericMsg = "Generation failed. Please try again."
		}
		h.sendError(c, genericMsg, status)
	case status >= http.StatusInternalServerError:
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		h.sendError(c, "Failed to save campaign state", status)
	default:
		h.sendError(c, err.Error(), status)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, campaign.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, campaign.ErrKeywordNotFound),
		errors.Is(err, campaign.ErrAdGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, campaign.ErrInvalidStep),
		errors.Is(err, campaign.ErrMissingInput),
		errors.Is(err, campaign.ErrEmptyKeyword),
		errors.Is(err, campaign.ErrDuplicateKeyword),
		errors.Is(err, campaign.ErrInvalidKeywordType),
		errors.Is(err, campaign.ErrNoSelectedKeywords),
		errors.Is(err, campaign.ErrInvalidAsset):
		return http.StatusBadRequest
	case errors.Is(err, campaign.ErrGeneration):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) sendSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *Handler) sendError(c *gin.Context, message string, status int) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}
