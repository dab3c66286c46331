package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"property-ai-service/config"
	"property-ai-service/database"
	"property-ai-service/handlers"
	"property-ai-service/llm"
	"property-ai-service/metrics"
	"property-ai-service/openai"
	"property-ai-service/rabbitmq"
	"property-ai-service/service"
	"property-ai-service/stubllm"
	"property-ai-service/translate"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	log.Info("Starting the property AI service...")

	// Select AI providers
	var chatClient llm.ChatClient
	var translator llm.Translator
	switch cfg.AIProvider {
	case "stub":
		log.Warn("AI_PROVIDER=stub: using deterministic stub providers")
		chatClient = stubllm.NewClient()
		translator = stubllm.NewTranslator()
	default:
		if cfg.OpenAIAPIKey == "" {
			log.Fatal("OPENAI_API_KEY environment variable is required")
		}
		if cfg.TranslateAPIKey == "" {
			log.Fatal("GOOGLE_TRANSLATE_API_KEY environment variable is required")
		}
		chatClient = openai.NewClient(cfg.OpenAIAPIKey, cfg.RequestTimeout)
		translator = translate.NewClient(cfg.TranslateAPIKey, cfg.RequestTimeout)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.CreateAuditTables(); err != nil {
		log.Fatalf("Failed to create audit tables: %v", err)
	}

	// Optional interaction event publisher
	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.InteractionRoutingKey)
		if err != nil {
			log.Warnf("RabbitMQ unavailable, interaction events disabled: %v", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	metrics.Register()

	// Initialize service
	aiService := service.NewService(service.Deps{
		Chat:         chatClient,
		Translator:   translator,
		Users:        db,
		Properties:   db,
		Interactions: db,
		Integrations: db,
		Publisher:    publisher,
		Models: service.Models{
			Chatbot:         cfg.ChatbotModel,
			Recommendation:  cfg.RecommendationModel,
			PricePrediction: cfg.PredictionModel,
			MarketAnalysis:  cfg.AnalysisModel,
			Vision:          cfg.VisionModel,
		},
	})

	// Setup HTTP server
	router := gin.Default()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.NewAIHandler(aiService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
