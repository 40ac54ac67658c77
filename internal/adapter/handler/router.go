package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetingdash/meeting-reconciler/internal/metrics"
	"github.com/meetingdash/meeting-reconciler/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	meetingHandler    *Meeting
	actionItemHandler *ActionItem
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting, actionItemHandler *ActionItem) *Router {
	return &Router{
		cfg:               cfg,
		meetingHandler:    meetingHandler,
		actionItemHandler: actionItemHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	v1 := e.Group("/v1")

	rt.setupMeetingRoutes(v1)
	rt.setupActionItemRoutes(v1)
	rt.setupReconcileRoutes(v1)
}

// setupMeetingRoutes configures meeting collection routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")

	meetingGroup.GET("", rt.meetingHandler.List)
	meetingGroup.GET("/partitions", rt.meetingHandler.Partitions)
	meetingGroup.GET("/:id", rt.meetingHandler.Get)
	meetingGroup.DELETE("/:id", rt.meetingHandler.Delete)
}

// setupActionItemRoutes configures action item routes
func (rt *Router) setupActionItemRoutes(g *echo.Group) {
	if rt.actionItemHandler == nil {
		g.GET("/meetings/:id/action-items", rt.notImplemented)
		g.POST("/meetings/:id/action-items", rt.notImplemented)
		g.PATCH("/action-items/:id", rt.notImplemented)
		g.DELETE("/action-items/:id", rt.notImplemented)
		return
	}

	g.GET("/meetings/:id/action-items", rt.actionItemHandler.ListByMeeting)
	g.POST("/meetings/:id/action-items", rt.actionItemHandler.Create)
	g.PATCH("/action-items/:id", rt.actionItemHandler.Update)
	g.DELETE("/action-items/:id", rt.actionItemHandler.Delete)
}

// setupReconcileRoutes configures reconciliation control routes
func (rt *Router) setupReconcileRoutes(g *echo.Group) {
	g.POST("/reconcile/run", rt.meetingHandler.RunReconcile)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint requires database persistence",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Env,
	})
}
