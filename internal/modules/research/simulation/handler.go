package simulation

import (
	"errors"
	"io"

	"github.com/HenryKang1/AI-market-researcher/internal/modules/genai"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/pagination"
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
	s := rg.Group("/surveys", authMW)
	s.POST("/:id/runs", h.createRun)
	s.GET("/:id/runs", h.listRuns)

	g := rg.Group("/runs", authMW)
	g.GET("/:id", h.getRun)
	g.POST("/:id/panel/generate", h.generatePanel)
	g.PUT("/:id/panel", h.setPanel)
	g.POST("/:id/panel/:personaId/save", h.savePanelPersona)
	g.POST("/:id/simulate", h.simulate)
	g.POST("/:id/cancel", h.cancel)
	g.GET("/:id/responses", h.listResponses)
	g.GET("/:id/progress", h.progress)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var genErr *genai.GenerationError
	switch {
	case errors.Is(err, ErrRunNotReady):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrPanelEmpty), errors.Is(err, ErrPersonasMissing):
		response.UnprocessableEntity(c, err.Error())
	case errors.As(err, &genErr):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// POST /surveys/:id/runs  [auth]
func (h *Handler) createRun(c *gin.Context) {
	// Body is optional; an absent audience can be supplied later.
	var dto CreateRunDTO
	if err := c.ShouldBindJSON(&dto); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}
	run, err := h.svc.CreateRun(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if run == nil {
		response.NotFoundMsg(c, "survey not found")
		return
	}
	response.Created(c, toRunResponse(run))
}

// GET /surveys/:id/runs  [auth]
func (h *Handler) listRuns(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.ListRuns(c.Param("id"), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]runResponse, len(items))
	for i := range items {
		out[i] = toRunResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

// GET /runs/:id  [auth]
func (h *Handler) getRun(c *gin.Context) {
	run, err := h.svc.GetRun(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if run == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	response.OK(c, toRunResponse(run))
}

// POST /runs/:id/panel/generate  [auth]
func (h *Handler) generatePanel(c *gin.Context) {
	var dto GeneratePanelDTO
	if err := c.ShouldBindJSON(&dto); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}
	run, err := h.svc.GeneratePanel(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	if run == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	response.OK(c, toRunResponse(run))
}

// PUT /runs/:id/panel  [auth]
func (h *Handler) setPanel(c *gin.Context) {
	var dto SetPanelDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	run, err := h.svc.SetPanel(c.Param("id"), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	if run == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	response.OK(c, toRunResponse(run))
}

// POST /runs/:id/panel/:personaId/save  [auth]
func (h *Handler) savePanelPersona(c *gin.Context) {
	m, err := h.svc.SavePanelPersona(c.Param("id"), c.Param("personaId"))
	if err != nil {
		if errors.Is(err, ErrPersonasMissing) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	response.Created(c, m.AsPersona())
}

// POST /runs/:id/simulate  [auth]
func (h *Handler) simulate(c *gin.Context) {
	task, err := h.svc.Simulate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if task == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	response.OK(c, task)
}

// POST /runs/:id/cancel  [auth]
func (h *Handler) cancel(c *gin.Context) {
	if err := h.svc.CancelRun(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// GET /runs/:id/responses  [auth]
func (h *Handler) listResponses(c *gin.Context) {
	rows, err := h.svc.ListResponses(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if rows == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	out := make([]responseItem, len(rows))
	for i := range rows {
		out[i] = toResponseItem(&rows[i])
	}
	response.OK(c, out)
}

// GET /runs/:id/progress  [auth]
func (h *Handler) progress(c *gin.Context) {
	p, err := h.svc.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "run not found")
		return
	}
	response.OK(c, p)
}
