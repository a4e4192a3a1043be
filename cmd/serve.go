package cmd

import (
	"context"
	"log"

	"github.com/Aashish23092/taxwise-dashboard/client"
	"github.com/Aashish23092/taxwise-dashboard/config"
	"github.com/Aashish23092/taxwise-dashboard/handler"
	"github.com/Aashish23092/taxwise-dashboard/service"
	"github.com/Aashish23092/taxwise-dashboard/utils/spending"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	// Initialize clients
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	analysisClient := client.NewAnalysisClient(cfg.AnalysisAPIURL, cfg.AnalysisTimeout, cfg.AnalysisMaxRetries)

	var assistant service.Assistant
	if cfg.AssistantEnabled() {
		geminiClient, err := client.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("Gemini unavailable, chat will use canned replies: %v", err)
		} else {
			defer geminiClient.Close()
			assistant = geminiClient
		}
	}

	// Initialize service layer
	dashboardService := newDashboardService(cfg, analysisClient, tesseractClient)
	chatService := service.NewChatService(assistant, dashboardService)
	reportService := service.NewReportService(cfg.ReportTitle)

	// Initialize handler layer
	router := handler.SetupRouter(
		handler.NewDashboardHandler(dashboardService, cfg.MaxFileSize),
		handler.NewChatHandler(chatService),
		handler.NewReportHandler(dashboardService, reportService),
	)

	log.Printf("Starting TaxWise Dashboard on port %s (analysis API %s)", cfg.ServerPort, cfg.AnalysisAPIURL)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Printf("Failed to start server: %v", err)
		return err
	}
	return nil
}

func newDashboardService(cfg *config.Config, api service.AnalysisAPI, ocr service.OCR) *service.DashboardService {
	preprocessor := service.NewStatementPreprocessor(service.NewPDFProcessor(), ocr)
	consolidator := spending.NewConsolidator(cfg.OtherThreshold, cfg.IncomeMarker)
	return service.NewDashboardService(api, preprocessor, consolidator)
}
