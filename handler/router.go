package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires every route onto a new gin engine
func SetupRouter(dashboard *DashboardHandler, chat *ChatHandler, report *ReportHandler) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = dashboard.maxUpload

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "TaxWise Dashboard",
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/statements/upload", dashboard.UploadStatements)
		api.GET("/dashboard", dashboard.GetDashboard)
		api.GET("/cibil/simulate", dashboard.SimulateScore)
		api.POST("/spending/consolidate", dashboard.ConsolidateSpending)
		api.POST("/chat", chat.Chat)

		reports := api.Group("/reports")
		{
			reports.GET("/summary.pdf", report.SummaryPDF)
			reports.GET("/summary.xlsx", report.SummaryExcel)
		}
	}

	return router
}
