package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"property-ai-service/database"
	"property-ai-service/llm"
	"property-ai-service/metrics"
	"property-ai-service/models"
	"property-ai-service/parser"
	"property-ai-service/prompts"
)

// Sampling parameters per capability. They are fixed by capability, not
// caller-tunable.
var (
	chatbotParams        = llm.SamplingParams{Temperature: 0.7, MaxTokens: 1500, PresencePenalty: 0.6, FrequencyPenalty: 0.3}
	recommendationParams = llm.SamplingParams{Temperature: 0.5, MaxTokens: 2000}
	priceParams          = llm.SamplingParams{Temperature: 0.3, MaxTokens: 1000}
	marketParams         = llm.SamplingParams{Temperature: 0.4, MaxTokens: 2500}
	imageParams          = llm.SamplingParams{Temperature: 0.3, MaxTokens: 1000}
)

const (
	candidateLimit  = 20
	comparableLimit = 10
)

// UserStore looks up platform users.
type UserStore interface {
	GetUserByID(id string) (*models.User, error)
}

// PropertyStore queries the listing inventory.
type PropertyStore interface {
	FindProperties(filter database.PropertyFilter, limit int) ([]models.Property, error)
	FindComparableSales(subject models.PropertyData, limit int) ([]models.Property, error)
	GetMarketStats(propertyType string, since time.Time) (models.MarketStats, error)
}

// InteractionStore persists AI interaction audit records.
type InteractionStore interface {
	SaveInteraction(rec *models.AiInteraction) error
}

// IntegrationLogStore persists third-party integration audit records.
type IntegrationLogStore interface {
	SaveIntegrationLog(rec *models.IntegrationLog) error
}

// EventPublisher forwards completed audit records to a broker. Optional.
type EventPublisher interface {
	Publish(message interface{}) error
}

// Models names the provider model used by each capability.
type Models struct {
	Chatbot         string
	Recommendation  string
	PricePrediction string
	MarketAnalysis  string
	Vision          string
}

// Deps are the collaborators injected into the service. Everything is an
// interface so tests can substitute fakes without process-wide state.
type Deps struct {
	Chat         llm.ChatClient
	Translator   llm.Translator
	Users        UserStore
	Properties   PropertyStore
	Interactions InteractionStore
	Integrations IntegrationLogStore
	Publisher    EventPublisher // may be nil
	Models       Models
}

// Service orchestrates the six AI capabilities. Each invocation is
// independent and sequential; no state is shared across calls.
type Service struct {
	deps Deps
}

// NewService creates the capability orchestrator with injected dependencies.
func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// TimeframeToMonths maps a timeframe token to a month count. Unrecognized
// tokens default to 6.
func TimeframeToMonths(timeframe string) int {
	switch timeframe {
	case "3months":
		return 3
	case "6months":
		return 6
	case "12months":
		return 12
	case "24months":
		return 24
	default:
		return 6
	}
}

// jsonSnapshot serializes an input snapshot for the audit trail.
func jsonSnapshot(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func elapsedMillis(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func toTokenUsage(usage llm.TokenUsage) *models.TokenUsage {
	return &models.TokenUsage{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}
}

// logInteraction writes the audit record for one invocation attempt.
// Persistence failures are reported locally and never reach the caller.
func (s *Service) logInteraction(rec *models.AiInteraction) {
	rec.CreatedAt = time.Now()

	if err := s.deps.Interactions.SaveInteraction(rec); err != nil {
		metrics.AuditWriteErrorsTotal.WithLabelValues("ai_interactions").Inc()
		log.WithFields(log.Fields{
			"interaction_type": rec.InteractionType,
			"session_id":       rec.SessionID,
		}).Errorf("failed to log AI interaction: %v", err)
		return
	}

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.Publish(rec); err != nil {
			log.Warnf("failed to publish interaction event: %v", err)
		}
	}
}

// logIntegration writes the audit record for one third-party call, under
// the same best-effort rule as logInteraction.
func (s *Service) logIntegration(rec *models.IntegrationLog) {
	rec.CreatedAt = time.Now()

	if err := s.deps.Integrations.SaveIntegrationLog(rec); err != nil {
		metrics.AuditWriteErrorsTotal.WithLabelValues("integration_logs").Inc()
		log.WithFields(log.Fields{
			"service": rec.ServiceName,
			"action":  rec.ActionType,
		}).Errorf("failed to log integration call: %v", err)
	}
}

func (s *Service) observe(capability string, start time.Time, success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	metrics.InvocationsTotal.WithLabelValues(capability, result).Inc()
	metrics.InvocationDurationSeconds.WithLabelValues(capability).Observe(time.Since(start).Seconds())
}

// Chatbot answers a user query with a role-aware assistant persona.
func (s *Service) Chatbot(ctx context.Context, query, userID, language, sessionID string) models.ChatbotResult {
	start := time.Now()
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	input := jsonSnapshot(map[string]string{"query": query, "language": language, "session_id": sessionID})
	modelInfo := models.ModelInfo{
		ModelName:   s.deps.Models.Chatbot,
		Provider:    s.deps.Chat.ProviderName(),
		Temperature: chatbotParams.Temperature,
		MaxTokens:   chatbotParams.MaxTokens,
	}

	fail := func(err error) models.ChatbotResult {
		log.WithField("user_id", userID).Errorf("chatbot error: %v", err)
		s.logInteraction(&models.AiInteraction{
			UserID:          userID,
			SessionID:       sessionID,
			InteractionType: models.InteractionChatbot,
			Input:           input,
			ModelInfo:       modelInfo,
			ProcessingTime:  elapsedMillis(start),
			Error:           models.ErrorBlock{Occurred: true, Message: err.Error()},
		})
		s.observe(models.InteractionChatbot, start, false)
		return models.ChatbotResult{Success: false, Error: err.Error(), ProcessingTime: elapsedMillis(start)}
	}

	user, err := s.deps.Users.GetUserByID(userID)
	if err != nil {
		return fail(err)
	}

	systemPrompt := prompts.SystemPrompt(user.Role, language)
	completion, err := s.deps.Chat.CompleteChat(ctx, s.deps.Models.Chatbot, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: query},
	}, chatbotParams)
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues(s.deps.Chat.ProviderName()).Inc()
		return fail(err)
	}

	processingTime := elapsedMillis(start)
	s.logInteraction(&models.AiInteraction{
		UserID:          userID,
		SessionID:       sessionID,
		InteractionType: models.InteractionChatbot,
		Input:           input,
		ModelInfo:       modelInfo,
		Content:         completion.Text,
		ProcessingTime:  processingTime,
		TokenUsage:      toTokenUsage(completion.Usage),
	})
	s.observe(models.InteractionChatbot, start, true)

	return models.ChatbotResult{
		Success:        true,
		Response:       completion.Text,
		ProcessingTime: processingTime,
		SessionID:      sessionID,
		TokenUsage:     toTokenUsage(completion.Usage),
	}
}

// mergePreferences combines the stored user profile with call-supplied
// overrides. Overrides win for property type, room counts and area; the
// user's stored budget and locations win when present.
func mergePreferences(user *models.User, overrides models.Preferences) models.Preferences {
	merged := models.Preferences{
		PropertyType: user.PropertyTypes,
		Bedrooms:     user.MinBedrooms,
		Bathrooms:    user.MinBathrooms,
	}

	if len(overrides.PropertyType) > 0 {
		merged.PropertyType = overrides.PropertyType
	}
	if overrides.Bedrooms > 0 {
		merged.Bedrooms = overrides.Bedrooms
	}
	if overrides.Bathrooms > 0 {
		merged.Bathrooms = overrides.Bathrooms
	}
	merged.MinArea = overrides.MinArea
	merged.MaxArea = overrides.MaxArea

	merged.BudgetRange = user.BudgetRange
	if merged.BudgetRange == nil {
		merged.BudgetRange = overrides.BudgetRange
	}
	merged.PreferredLocations = user.PreferredLocations
	if len(merged.PreferredLocations) == 0 {
		merged.PreferredLocations = overrides.PreferredLocations
	}

	return merged
}

// GeneratePropertyRecommendations ranks available listings against the
// user's merged preferences.
func (s *Service) GeneratePropertyRecommendations(ctx context.Context, userID string, preferences models.Preferences, language string) models.RecommendationResult {
	start := time.Now()
	sessionID := uuid.NewString()
	modelInfo := models.ModelInfo{
		ModelName:   s.deps.Models.Recommendation,
		Provider:    s.deps.Chat.ProviderName(),
		Temperature: recommendationParams.Temperature,
		MaxTokens:   recommendationParams.MaxTokens,
	}

	fail := func(input string, err error) models.RecommendationResult {
		log.WithField("user_id", userID).Errorf("recommendation error: %v", err)
		s.logInteraction(&models.AiInteraction{
			UserID:          userID,
			SessionID:       sessionID,
			InteractionType: models.InteractionRecommendation,
			Input:           input,
			ModelInfo:       modelInfo,
			ProcessingTime:  elapsedMillis(start),
			Error:           models.ErrorBlock{Occurred: true, Message: err.Error()},
		})
		s.observe(models.InteractionRecommendation, start, false)
		return models.RecommendationResult{Success: false, Error: err.Error(), ProcessingTime: elapsedMillis(start)}
	}

	user, err := s.deps.Users.GetUserByID(userID)
	if err != nil {
		return fail(jsonSnapshot(map[string]any{"preferences": preferences, "language": language}), err)
	}

	merged := mergePreferences(user, preferences)
	input := jsonSnapshot(map[string]any{"preferences": merged, "language": language})

	filter := database.BuildPropertyFilter(merged)
	properties, err := s.deps.Properties.FindProperties(filter, candidateLimit)
	if err != nil {
		return fail(input, err)
	}

	prompt := prompts.RecommendationPrompt(properties, merged, language)
	completion, err := s.deps.Chat.CompleteChat(ctx, s.deps.Models.Recommendation, []llm.Message{
		{Role: "system", Content: prompts.RecommendationSystem},
		{Role: "user", Content: prompt},
	}, recommendationParams)
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues(s.deps.Chat.ProviderName()).Inc()
		return fail(input, err)
	}

	recommendations := parser.ParseRecommendations(properties)
	processingTime := elapsedMillis(start)

	s.logInteraction(&models.AiInteraction{
		UserID:          userID,
		SessionID:       sessionID,
		InteractionType: models.InteractionRecommendation,
		Input:           input,
		ModelInfo:       modelInfo,
		Content:         jsonSnapshot(recommendations),
		ProcessingTime:  processingTime,
		TokenUsage:      toTokenUsage(completion.Usage),
	})
	s.observe(models.InteractionRecommendation, start, true)

	return models.RecommendationResult{
		Success:         true,
		Recommendations: recommendations,
		ProcessingTime:  processingTime,
		TotalProperties: len(properties),
	}
}

// PredictPropertyPrice estimates a market price for the subject property
// from comparable sales and the supplied market aggregate.
func (s *Service) PredictPropertyPrice(ctx context.Context, propertyData models.PropertyData, marketData models.MarketStats, language string) models.PricePredictionResult {
	start := time.Now()
	sessionID := uuid.NewString()
	input := jsonSnapshot(map[string]any{"property": propertyData, "market": marketData, "language": language})
	modelInfo := models.ModelInfo{
		ModelName:   s.deps.Models.PricePrediction,
		Provider:    s.deps.Chat.ProviderName(),
		Temperature: priceParams.Temperature,
		MaxTokens:   priceParams.MaxTokens,
	}

	fail := func(err error) models.PricePredictionResult {
		log.Errorf("price prediction error: %v", err)
		s.logInteraction(&models.AiInteraction{
			UserID:          propertyData.UserID,
			SessionID:       sessionID,
			InteractionType: models.InteractionPricePrediction,
			Input:           input,
			ModelInfo:       modelInfo,
			ProcessingTime:  elapsedMillis(start),
			Error:           models.ErrorBlock{Occurred: true, Message: err.Error()},
		})
		s.observe(models.InteractionPricePrediction, start, false)
		return models.PricePredictionResult{Success: false, Error: err.Error(), ProcessingTime: elapsedMillis(start)}
	}

	comparables, err := s.deps.Properties.FindComparableSales(propertyData, comparableLimit)
	if err != nil {
		return fail(err)
	}

	prompt := prompts.PricePredictionPrompt(propertyData, comparables, marketData, language)
	completion, err := s.deps.Chat.CompleteChat(ctx, s.deps.Models.PricePrediction, []llm.Message{
		{Role: "system", Content: prompts.PricePredictionSystem},
		{Role: "user", Content: prompt},
	}, priceParams)
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues(s.deps.Chat.ProviderName()).Inc()
		return fail(err)
	}

	prediction := parser.ParsePricePrediction(completion.Text)
	processingTime := elapsedMillis(start)

	s.logInteraction(&models.AiInteraction{
		UserID:          propertyData.UserID,
		SessionID:       sessionID,
		InteractionType: models.InteractionPricePrediction,
		Input:           input,
		ModelInfo:       modelInfo,
		Content:         jsonSnapshot(prediction),
		ProcessingTime:  processingTime,
		TokenUsage:      toTokenUsage(completion.Usage),
	})
	s.observe(models.InteractionPricePrediction, start, true)

	return models.PricePredictionResult{
		Success:        true,
		Prediction:     &prediction,
		ProcessingTime: processingTime,
		Confidence:     prediction.Confidence,
	}
}

// GenerateMarketAnalysis aggregates recent sales for a market slice and
// asks the model for commentary.
func (s *Service) GenerateMarketAnalysis(ctx context.Context, location, propertyType, timeframe, language string) models.MarketAnalysisResult {
	start := time.Now()
	sessionID := uuid.NewString()
	input := jsonSnapshot(map[string]string{
		"location": location, "property_type": propertyType, "timeframe": timeframe, "language": language,
	})
	modelInfo := models.ModelInfo{
		ModelName:   s.deps.Models.MarketAnalysis,
		Provider:    s.deps.Chat.ProviderName(),
		Temperature: marketParams.Temperature,
		MaxTokens:   marketParams.MaxTokens,
	}

	fail := func(err error) models.MarketAnalysisResult {
		log.WithField("location", location).Errorf("market analysis error: %v", err)
		s.logInteraction(&models.AiInteraction{
			SessionID:       sessionID,
			InteractionType: models.InteractionMarketAnalysis,
			Input:           input,
			ModelInfo:       modelInfo,
			ProcessingTime:  elapsedMillis(start),
			Error:           models.ErrorBlock{Occurred: true, Message: err.Error()},
		})
		s.observe(models.InteractionMarketAnalysis, start, false)
		return models.MarketAnalysisResult{Success: false, Error: err.Error(), ProcessingTime: elapsedMillis(start)}
	}

	months := TimeframeToMonths(timeframe)
	since := time.Now().Add(-time.Duration(months) * 30 * 24 * time.Hour)

	stats, err := s.deps.Properties.GetMarketStats(propertyType, since)
	if err != nil {
		return fail(err)
	}

	prompt := prompts.MarketAnalysisPrompt(location, propertyType, stats, timeframe, language)
	completion, err := s.deps.Chat.CompleteChat(ctx, s.deps.Models.MarketAnalysis, []llm.Message{
		{Role: "system", Content: prompts.MarketAnalysisSystem},
		{Role: "user", Content: prompt},
	}, marketParams)
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues(s.deps.Chat.ProviderName()).Inc()
		return fail(err)
	}

	analysis := parser.ParseMarketAnalysis(completion.Text)
	processingTime := elapsedMillis(start)

	s.logInteraction(&models.AiInteraction{
		SessionID:       sessionID,
		InteractionType: models.InteractionMarketAnalysis,
		Input:           input,
		ModelInfo:       modelInfo,
		Content:         jsonSnapshot(analysis),
		ProcessingTime:  processingTime,
		TokenUsage:      toTokenUsage(completion.Usage),
	})
	s.observe(models.InteractionMarketAnalysis, start, true)

	return models.MarketAnalysisResult{
		Success:        true,
		Analysis:       &analysis,
		ProcessingTime: processingTime,
		DataPoints:     stats.TotalSales,
	}
}

// TranslateText translates text via the translation provider. The call is
// audited as an integration log, not an AI interaction.
func (s *Service) TranslateText(ctx context.Context, text, targetLanguage, sourceLanguage string) models.TranslationResult {
	start := time.Now()
	if sourceLanguage == "" {
		sourceLanguage = "auto"
	}
	request := jsonSnapshot(map[string]string{
		"text": text, "target_language": targetLanguage, "source_language": sourceLanguage,
	})

	// "auto" asks the provider to detect the source itself.
	source := sourceLanguage
	if source == "auto" {
		source = ""
	}

	translation, err := s.deps.Translator.Translate(ctx, text, targetLanguage, source)
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues("google_translate").Inc()
		log.Errorf("translation error: %v", err)
		s.logIntegration(&models.IntegrationLog{
			ServiceName:    "google_translate",
			ActionType:     "translate_text",
			RequestPayload: request,
			Status:         "error",
			Error:          models.ErrorBlock{Occurred: true, Message: err.Error()},
		})
		s.observe("translation", start, false)
		return models.TranslationResult{Success: false, Error: err.Error(), ProcessingTime: elapsedMillis(start)}
	}

	processingTime := elapsedMillis(start)
	s.logIntegration(&models.IntegrationLog{
		ServiceName:    "google_translate",
		ActionType:     "translate_text",
		RequestPayload: request,
		Status:         "success",
		ResponseData:   jsonSnapshot(map[string]any{"translation": translation, "processing_time": processingTime}),
	})
	s.observe("translation", start, true)

	return models.TranslationResult{
		Success:        true,
		Translation:    translation,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
		ProcessingTime: processingTime,
	}
}

// AnalyzePropertyImage runs a single-turn vision request over a listing
// photo.
func (s *Service) AnalyzePropertyImage(ctx context.Context, imageURL, analysisType, language string) models.ImageAnalysisResult {
	start := time.Now()
	sessionID := uuid.NewString()
	input := jsonSnapshot(map[string]string{
		"image_url": imageURL, "analysis_type": analysisType, "language": language,
	})
	modelInfo := models.ModelInfo{
		ModelName:   s.deps.Models.Vision,
		Provider:    s.deps.Chat.ProviderName(),
		Temperature: imageParams.Temperature,
		MaxTokens:   imageParams.MaxTokens,
	}

	fail := func(err error) models.ImageAnalysisResult {
		log.WithField("image_url", imageURL).Errorf("image analysis error: %v", err)
		s.logInteraction(&models.AiInteraction{
			SessionID:       sessionID,
			InteractionType: models.InteractionImageAnalysis,
			Input:           input,
			ModelInfo:       modelInfo,
			ProcessingTime:  elapsedMillis(start),
			Error:           models.ErrorBlock{Occurred: true, Message: err.Error()},
		})
		s.observe(models.InteractionImageAnalysis, start, false)
		return models.ImageAnalysisResult{Success: false, Error: err.Error(), ProcessingTime: elapsedMillis(start)}
	}

	prompt := prompts.ImageAnalysisPrompt(analysisType, language)
	completion, err := s.deps.Chat.CompleteVision(ctx, s.deps.Models.Vision, prompt, imageURL, imageParams)
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues(s.deps.Chat.ProviderName()).Inc()
		return fail(err)
	}

	analysis := parser.ParseImageAnalysis(completion.Text)
	processingTime := elapsedMillis(start)

	s.logInteraction(&models.AiInteraction{
		SessionID:       sessionID,
		InteractionType: models.InteractionImageAnalysis,
		Input:           input,
		ModelInfo:       modelInfo,
		Content:         jsonSnapshot(analysis),
		ProcessingTime:  processingTime,
		TokenUsage:      toTokenUsage(completion.Usage),
	})
	s.observe(models.InteractionImageAnalysis, start, true)

	return models.ImageAnalysisResult{
		Success:        true,
		Analysis:       &analysis,
		ProcessingTime: processingTime,
		ImageURL:       imageURL,
	}
}
