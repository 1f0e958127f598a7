package export

import (
	"errors"
	"fmt"
	"net/http"

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
	g.GET("/:id/export/csv", h.csv)
	g.GET("/:id/export/report", h.report)
}

// GET /runs/:id/export/csv  [auth]
func (h *Handler) csv(c *gin.Context) {
	runID := c.Param("id")
	data, err := h.svc.CSV(runID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if data == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "survey-results-"+runID+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// GET /runs/:id/export/report  [auth]
func (h *Handler) report(c *gin.Context) {
	runID := c.Param("id")
	data, err := h.svc.Report(runID)
	if err != nil {
		if errors.Is(err, ErrNoAnalysis) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if data == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "survey-report-"+runID+".txt"))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}
