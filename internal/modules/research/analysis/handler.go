package analysis

import (
	"errors"
	"time"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/simulation"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/runs", authMW)
	g.POST("/:id/analyze", h.analyze)
	g.GET("/:id/analysis", h.get)
	g.GET("/:id/tabulation", h.tabulation)
}

type analysisResponse struct {
	ID          string           `json:"id"`
	RunID       string           `json:"run_id"`
	Sentiment   models.Sentiment `json:"sentiment"`
	Summary     string           `json:"summary"`
	KeyInsights []string         `json:"key_insights"`
	Suggestions []string         `json:"suggestions"`
	Created     time.Time        `json:"created"`
}

func toResponse(m *models.AnalysisModel) analysisResponse {
	insights := m.KeyInsights
	if insights == nil {
		insights = models.StringArray{}
	}
	suggestions := m.Suggestions
	if suggestions == nil {
		suggestions = models.StringArray{}
	}
	return analysisResponse{
		ID:          m.ID,
		RunID:       m.RunID,
		Sentiment:   m.Sentiment,
		Summary:     m.Summary,
		KeyInsights: insights,
		Suggestions: suggestions,
		Created:     m.CreatedAt,
	}
}

// POST /runs/:id/analyze  [auth]
func (h *Handler) analyze(c *gin.Context) {
	report, err := h.svc.Aggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		var analysisErr *AnalysisError
		switch {
		case errors.Is(err, simulation.ErrRunNotReady):
			response.Conflict(c, err.Error())
		case errors.Is(err, ErrNoResponses):
			response.UnprocessableEntity(c, err.Error())
		case errors.As(err, &analysisErr):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	if report == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	response.OK(c, toResponse(report))
}

// GET /runs/:id/analysis  [auth]
func (h *Handler) get(c *gin.Context) {
	report, err := h.svc.GetByRunID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if report == nil {
		response.NotFoundMsg(c, "no analysis for this run yet")
		return
	}
	response.OK(c, toResponse(report))
}

// GET /runs/:id/tabulation  [auth]
func (h *Handler) tabulation(c *gin.Context) {
	tables, err := h.svc.Tabulation(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if tables == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	response.OK(c, tables)
}
