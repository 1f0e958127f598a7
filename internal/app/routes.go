package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HenryKang1/AI-market-researcher/internal/middleware"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/genai"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/analysis"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/export"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/persona"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/simulation"
	"github.com/HenryKang1/AI-market-researcher/internal/modules/research/survey"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/jwt"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/pagination"
	pkgredis "github.com/HenryKang1/AI-market-researcher/internal/pkg/redis"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/response"
	"github.com/HenryKang1/AI-market-researcher/internal/pkg/taskqueue"
)

const operatorTokenTTL = 24 * time.Hour

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "ai-market-researcher",
		"version":  "1.0.0",
		"homepage": "https://github.com/HenryKang1/AI-market-researcher",
	}

	api := r.Group("/api/v1")
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	// POST /auth/token — exchange the operator key for a JWT
	api.POST("/auth/token", func(c *gin.Context) {
		var dto struct {
			Key string `json:"key" binding:"required"`
		}
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if a.cfg.OperatorKey == "" || dto.Key != a.cfg.OperatorKey {
			response.Unauthorized(c)
			return
		}
		token, err := jwt.Sign(operatorTokenTTL)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_in": int(operatorTokenTTL.Seconds()),
		})
	})

	// Shared services
	taskSvc := taskqueue.NewService(rc)
	genClient := genai.NewClient(a.cfg.AI)

	surveySvc := survey.NewService(db)
	personaSvc := persona.NewService(db)
	simulationSvc := simulation.NewService(db, taskSvc, personaSvc, genClient, a.cfg, a.logger)
	analysisSvc := analysis.NewService(db, genClient, a.cfg, a.logger)
	exportSvc := export.NewService(db)

	survey.NewHandler(surveySvc).RegisterRoutes(api, authMW)
	persona.NewHandler(personaSvc).RegisterRoutes(api, authMW)
	simulation.NewHandler(simulationSvc).RegisterRoutes(api, authMW)
	analysis.NewHandler(analysisSvc).RegisterRoutes(api, authMW)
	export.NewHandler(exportSvc).RegisterRoutes(api, authMW)

	// Task inspection
	tasks := api.Group("/tasks", authMW)

	// GET /tasks?type=&status=  [auth]
	tasks.GET("", func(c *gin.Context) {
		q := pagination.FromContext(c)

		var typeFilter *string
		if v := c.Query("type"); v != "" {
			typeFilter = &v
		}
		var statusFilter *taskqueue.TaskStatus
		if v := c.Query("status"); v != "" {
			status := taskqueue.TaskStatus(v)
			statusFilter = &status
		}

		items, total, err := taskSvc.List(c.Request.Context(), q.Page, q.Size, typeFilter, statusFilter)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.Paged(c, items, pagination.Meta(total, q))
	})

	// GET /tasks/:id  [auth]
	tasks.GET("/:id", func(c *gin.Context) {
		task, err := taskSvc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if task == nil {
			response.NotFoundMsg(c, "task not found")
			return
		}
		response.OK(c, task)
	})

	// DELETE /tasks/:id  [auth]
	tasks.DELETE("/:id", func(c *gin.Context) {
		if err := taskSvc.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.NoContent(c)
	})
}
