package routes

import (
	"towdash/internal/handlers"
	"towdash/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// SetupDashboardRoutes sets up routes for the tow dashboard surface
func SetupDashboardRoutes(r *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler, wsHandler *websocket.Handler) {
	tows := r.Group("/tows")
	{
		tows.POST("/", dashboardHandler.CreateTow)
		tows.GET("/", dashboardHandler.ListTows)
		tows.GET("/:id/dashboard", dashboardHandler.GetDashboard)
		tows.PUT("/:id/status", dashboardHandler.UpdateStatus)
		tows.POST("/:id/notes", dashboardHandler.AddNote)
		tows.POST("/:id/photos", dashboardHandler.CapturePhoto)
		tows.PUT("/:id/addresses", dashboardHandler.UpdateAddresses)
		tows.PUT("/:id/checklist/:item_id", dashboardHandler.UpdateChecklistItem)
		tows.PUT("/:id", dashboardHandler.UpdateTow)
	}

	// Live dashboard refresh
	r.GET("/ws/tows/:id", wsHandler.HandleWebSocket)
}
