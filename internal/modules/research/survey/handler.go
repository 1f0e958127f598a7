package survey

import (
	"errors"

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
	g := rg.Group("/surveys", authMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/template", h.saveTemplate)

	t := rg.Group("/templates", authMW)
	t.GET("", h.listTemplates)
	t.GET("/:id", h.getTemplate)
	t.POST("/:id/apply", h.applyTemplate)
	t.DELETE("/:id", h.deleteTemplate)
}

// GET /surveys  [auth]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]surveyResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

// POST /surveys  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CreateSurveyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrInvalidQuestions) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(m))
}

// GET /surveys/:id  [auth]
func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "survey not found")
		return
	}
	response.OK(c, toResponse(m))
}

// PUT /surveys/:id  [auth]
func (h *Handler) update(c *gin.Context) {
	var dto UpdateSurveyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrInvalidQuestions) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "survey not found")
		return
	}
	response.OK(c, toResponse(m))
}

// DELETE /surveys/:id  [auth]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// POST /surveys/:id/template  [auth]
func (h *Handler) saveTemplate(c *gin.Context) {
	var dto SaveTemplateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tpl, err := h.svc.SaveTemplate(c.Param("id"), dto.Name)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if tpl == nil {
		response.NotFoundMsg(c, "survey not found")
		return
	}
	response.Created(c, toTemplateResponse(tpl))
}

// GET /templates  [auth]
func (h *Handler) listTemplates(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.ListTemplates(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]templateResponse, len(items))
	for i := range items {
		out[i] = toTemplateResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

// GET /templates/:id  [auth]
func (h *Handler) getTemplate(c *gin.Context) {
	tpl, err := h.svc.GetTemplateByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if tpl == nil {
		response.NotFoundMsg(c, "template not found")
		return
	}
	response.OK(c, toTemplateResponse(tpl))
}

// POST /templates/:id/apply  [auth]
func (h *Handler) applyTemplate(c *gin.Context) {
	m, err := h.svc.ApplyTemplate(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "template not found")
		return
	}
	response.Created(c, toResponse(m))
}

// DELETE /templates/:id  [auth]
func (h *Handler) deleteTemplate(c *gin.Context) {
	if err := h.svc.DeleteTemplate(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
