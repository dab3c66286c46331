package models

import (
	"time"
)

// User roles recognized by the prompt builder. Unknown roles fall back to
// RoleBuyer when building prompts.
const (
	RoleDeveloper = "DEVELOPER"
	RoleAgency    = "AGENCY"
	RoleAgent     = "AGENT"
	RoleBuyer     = "BUYER"
	RoleAdmin     = "ADMIN"
)

// Interaction types recorded per capability invocation.
const (
	InteractionChatbot         = "chatbot"
	InteractionRecommendation  = "recommendation"
	InteractionPricePrediction = "price_prediction"
	InteractionMarketAnalysis  = "market_analysis"
	InteractionImageAnalysis   = "image_analysis"
)

// BudgetRange is a min/max price window in the listing currency.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// User is the platform user as seen by this service. Read-only here.
type User struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email"`
	Role               string      `json:"role"`
	BudgetRange        *BudgetRange `json:"budget_range,omitempty"`
	PreferredLocations []string    `json:"preferred_locations,omitempty"`
	PropertyTypes      []string    `json:"property_types,omitempty"`
	MinBedrooms        int         `json:"min_bedrooms,omitempty"`
	MinBathrooms       int         `json:"min_bathrooms,omitempty"`
}

// Property is a domain listing. Read-only here; queried via filters built
// from user preferences.
type Property struct {
	ID           string    `json:"id"`
	PropertyType string    `json:"property_type"`
	TotalPrice   float64   `json:"total_price"`
	PricePerSqm  float64   `json:"price_per_sqm"`
	TotalArea    float64   `json:"total_area"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Location     string    `json:"location"`
	Features     []string  `json:"features,omitempty"`
	Status       string    `json:"status"`
	IsActive     bool      `json:"is_active"`
	IsPublished  bool      `json:"is_published"`
	TotalViews   int       `json:"total_views"`
	CreatedAt    time.Time `json:"created_at"`
	SalePrice    float64   `json:"sale_price,omitempty"`
	SoldDate     time.Time `json:"sold_date,omitempty"`
}

// TokenUsage mirrors the provider's usage block.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ModelInfo captures which model produced a response and with what
// sampling parameters, for the audit trail.
type ModelInfo struct {
	ModelName   string  `json:"model_name"`
	Provider    string  `json:"provider"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// ErrorBlock records a failed invocation inside an audit record.
type ErrorBlock struct {
	Occurred bool   `json:"occurred"`
	Message  string `json:"message,omitempty"`
	Stack    string `json:"stack,omitempty"`
}

// AiInteraction is the audit record written once per capability
// invocation, success or failure. Never mutated after creation.
type AiInteraction struct {
	UserID          string      `json:"user_id,omitempty"`
	SessionID       string      `json:"session_id"`
	InteractionType string      `json:"interaction_type"`
	Input           string      `json:"input"`
	ModelInfo       ModelInfo   `json:"model_info"`
	Content         string      `json:"content,omitempty"`
	ProcessingTime  int64       `json:"processing_time"`
	TokenUsage      *TokenUsage `json:"token_usage,omitempty"`
	Error           ErrorBlock  `json:"error"`
	CreatedAt       time.Time   `json:"created_at"`
}

// IntegrationLog is the audit record for third-party calls that are not
// model inference (currently: translation).
type IntegrationLog struct {
	UserID         string     `json:"user_id,omitempty"`
	ServiceName    string     `json:"service_name"`
	ServiceMethod  string     `json:"service_method"`
	ActionType     string     `json:"action_type"`
	RequestPayload string     `json:"request_payload"`
	Status         string     `json:"status"`
	ResponseData   string     `json:"response_data,omitempty"`
	Error          ErrorBlock `json:"error"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Preferences are the recommendation inputs, merged from the stored user
// profile and call-supplied overrides.
type Preferences struct {
	PropertyType       []string     `json:"property_type,omitempty"`
	BudgetRange        *BudgetRange `json:"budget_range,omitempty"`
	PreferredLocations []string     `json:"preferred_locations,omitempty"`
	Bedrooms           int          `json:"bedrooms,omitempty"`
	Bathrooms          int          `json:"bathrooms,omitempty"`
	MinArea            float64      `json:"min_area,omitempty"`
	MaxArea            float64      `json:"max_area,omitempty"`
}

// PropertyData describes the subject of a price prediction. It is caller
// supplied and not required to reference a stored listing.
type PropertyData struct {
	UserID       string   `json:"user_id,omitempty"`
	PropertyType string   `json:"property_type"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	TotalArea    float64  `json:"total_area"`
	Location     string   `json:"location,omitempty"`
	Features     []string `json:"features,omitempty"`
}

// MarketStats is the aggregate over sold properties used by price
// prediction and market analysis prompts.
type MarketStats struct {
	AvgPrice       float64 `json:"avg_price"`
	AvgPricePerSqm float64 `json:"avg_price_per_sqm"`
	TotalSales     int     `json:"total_sales"`
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
}

// Recommendation is one ranked candidate in a recommendation result.
type Recommendation struct {
	Property    Property `json:"property"`
	Rank        int      `json:"rank"`
	MatchScore  float64  `json:"match_score"`
	Explanation string   `json:"explanation"`
}

// PricePrediction is the structured result of the price parser.
type PricePrediction struct {
	EstimatedPrice float64     `json:"estimated_price"`
	PriceRange     BudgetRange `json:"price_range"`
	Confidence     float64     `json:"confidence"`
	Explanation    string      `json:"explanation"`
}

// MarketAnalysis is the structured result of the market-analysis parser.
type MarketAnalysis struct {
	Summary       string `json:"summary"`
	Trends        string `json:"trends"`
	PriceAnalysis string `json:"price_analysis"`
	Outlook       string `json:"outlook"`
	FullAnalysis  string `json:"full_analysis"`
}

// ImageAnalysis is the structured result of the image-analysis parser.
type ImageAnalysis struct {
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Condition   string   `json:"condition"`
	Score       float64  `json:"score"`
}

// ChatbotResult is the envelope returned by the chatbot capability.
type ChatbotResult struct {
	Success        bool        `json:"success"`
	Response       string      `json:"response,omitempty"`
	Error          string      `json:"error,omitempty"`
	ProcessingTime int64       `json:"processing_time"`
	SessionID      string      `json:"session_id,omitempty"`
	TokenUsage     *TokenUsage `json:"token_usage,omitempty"`
}

// RecommendationResult is the envelope returned by the recommendation capability.
type RecommendationResult struct {
	Success         bool             `json:"success"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Error           string           `json:"error,omitempty"`
	ProcessingTime  int64            `json:"processing_time"`
	TotalProperties int              `json:"total_properties"`
}

// PricePredictionResult is the envelope returned by the price-prediction capability.
type PricePredictionResult struct {
	Success        bool             `json:"success"`
	Prediction     *PricePrediction `json:"prediction,omitempty"`
	Error          string           `json:"error,omitempty"`
	ProcessingTime int64            `json:"processing_time"`
	Confidence     float64          `json:"confidence,omitempty"`
}

// MarketAnalysisResult is the envelope returned by the market-analysis capability.
type MarketAnalysisResult struct {
	Success        bool            `json:"success"`
	Analysis       *MarketAnalysis `json:"analysis,omitempty"`
	Error          string          `json:"error,omitempty"`
	ProcessingTime int64           `json:"processing_time"`
	DataPoints     int             `json:"data_points"`
}

// TranslationResult is the envelope returned by the translation capability.
type TranslationResult struct {
	Success        bool   `json:"success"`
	Translation    string `json:"translation,omitempty"`
	Error          string `json:"error,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
	ProcessingTime int64  `json:"processing_time"`
}

// ImageAnalysisResult is the envelope returned by the image-analysis capability.
type ImageAnalysisResult struct {
	Success        bool           `json:"success"`
	Analysis       *ImageAnalysis `json:"analysis,omitempty"`
	Error          string         `json:"error,omitempty"`
	ProcessingTime int64          `json:"processing_time"`
	ImageURL       string         `json:"image_url,omitempty"`
}
