package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"property-ai-service/models"
	"property-ai-service/service"
)

// AIHandler exposes the capability orchestrator over HTTP.
type AIHandler struct {
	service *service.Service
}

func NewAIHandler(svc *service.Service) *AIHandler {
	return &AIHandler{service: svc}
}

// RegisterRoutes attaches all capability endpoints to the router.
func (h *AIHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api/v1/ai")
	api.POST("/chatbot", h.Chatbot)
	api.POST("/recommendations", h.Recommendations)
	api.POST("/price-prediction", h.PricePrediction)
	api.POST("/market-analysis", h.MarketAnalysis)
	api.POST("/translate", h.Translate)
	api.POST("/image-analysis", h.ImageAnalysis)
}

// HealthCheck returns service health status
func (h *AIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "property-ai-service",
	})
}

type chatbotRequest struct {
	Query     string `json:"query"`
	UserID    string `json:"user_id"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
}

func (h *AIHandler) Chatbot(c *gin.Context) {
	var req chatbotRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind chatbot request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	result := h.service.Chatbot(c.Request.Context(), req.Query, req.UserID, defaultLanguage(req.Language), req.SessionID)
	c.JSON(statusFor(result.Success), result)
}

type recommendationsRequest struct {
	UserID      string             `json:"user_id"`
	Preferences models.Preferences `json:"preferences"`
	Language    string             `json:"language"`
}

func (h *AIHandler) Recommendations(c *gin.Context) {
	var req recommendationsRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind recommendations request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	result := h.service.GeneratePropertyRecommendations(c.Request.Context(), req.UserID, req.Preferences, defaultLanguage(req.Language))
	c.JSON(statusFor(result.Success), result)
}

type pricePredictionRequest struct {
	PropertyData models.PropertyData `json:"property_data"`
	MarketData   models.MarketStats  `json:"market_data"`
	Language     string              `json:"language"`
}

func (h *AIHandler) PricePrediction(c *gin.Context) {
	var req pricePredictionRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind price prediction request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.PropertyData.PropertyType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property type is required"})
		return
	}

	result := h.service.PredictPropertyPrice(c.Request.Context(), req.PropertyData, req.MarketData, defaultLanguage(req.Language))
	c.JSON(statusFor(result.Success), result)
}

type marketAnalysisRequest struct {
	Location     string `json:"location"`
	PropertyType string `json:"property_type"`
	Timeframe    string `json:"timeframe"`
	Language     string `json:"language"`
}

func (h *AIHandler) MarketAnalysis(c *gin.Context) {
	var req marketAnalysisRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind market analysis request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location is required"})
		return
	}
	if req.PropertyType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property type is required"})
		return
	}

	result := h.service.GenerateMarketAnalysis(c.Request.Context(), req.Location, req.PropertyType, req.Timeframe, defaultLanguage(req.Language))
	c.JSON(statusFor(result.Success), result)
}

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	SourceLanguage string `json:"source_language"`
}

func (h *AIHandler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind translate request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}
	if req.TargetLanguage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target language is required"})
		return
	}

	result := h.service.TranslateText(c.Request.Context(), req.Text, req.TargetLanguage, req.SourceLanguage)
	c.JSON(statusFor(result.Success), result)
}

type imageAnalysisRequest struct {
	ImageURL     string `json:"image_url"`
	AnalysisType string `json:"analysis_type"`
	Language     string `json:"language"`
}

func (h *AIHandler) ImageAnalysis(c *gin.Context) {
	var req imageAnalysisRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind image analysis request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image URL is required"})
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = "general"
	}

	result := h.service.AnalyzePropertyImage(c.Request.Context(), req.ImageURL, req.AnalysisType, defaultLanguage(req.Language))
	c.JSON(statusFor(result.Success), result)
}

func defaultLanguage(language string) string {
	if language == "" {
		return "en"
	}
	return language
}

// statusFor keeps the envelope in the body either way; only the HTTP
// status reflects the outcome.
func statusFor(success bool) int {
	if success {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
