package prompts

import (
	"encoding/json"
	"fmt"

	"property-ai-service/models"
)

// Fixed system instructions for the non-chatbot completions.
const (
	RecommendationSystem  = "You are a real estate AI assistant that provides personalized property recommendations."
	PricePredictionSystem = "You are a real estate price prediction AI that provides accurate market valuations."
	MarketAnalysisSystem  = "You are a real estate market analyst providing comprehensive market insights."
)

// rolePrompts maps user roles to base chatbot instructions. Unknown roles
// fall back to the buyer instruction.
var rolePrompts = map[string]string{
	models.RoleDeveloper: "You are an AI assistant for real estate developers. Help with project management, sales optimization, and market insights.",
	models.RoleAgency:    "You are an AI assistant for real estate agencies. Help with client management, property matching, and sales strategies.",
	models.RoleAgent:     "You are an AI assistant for real estate agents. Help with client communication, property recommendations, and closing deals.",
	models.RoleBuyer:     "You are an AI assistant for property buyers. Help with property search, market analysis, and investment advice.",
	models.RoleAdmin:     "You are an AI assistant for system administrators. Help with platform management and analytics.",
}

// imagePrompts maps analysis types to vision instructions. Unknown types
// fall back to the general instruction.
var imagePrompts = map[string]string{
	"general":  "Analyze this property image and describe the features, condition, and overall appeal.",
	"damage":   "Analyze this property image for any visible damage, maintenance issues, or repairs needed.",
	"features": "Identify and list all visible features and amenities in this property image.",
	"quality":  "Assess the quality and condition of this property based on the image.",
}

// candidateView is the compact per-property projection serialized into
// recommendation and price-prediction prompts.
type candidateView struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Price     float64  `json:"price"`
	Area      float64  `json:"area"`
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms"`
	Location  string   `json:"location"`
	Features  []string `json:"features"`
}

func projectProperties(properties []models.Property) []candidateView {
	views := make([]candidateView, 0, len(properties))
	for _, p := range properties {
		views = append(views, candidateView{
			ID:        p.ID,
			Type:      p.PropertyType,
			Price:     p.TotalPrice,
			Area:      p.TotalArea,
			Bedrooms:  p.Bedrooms,
			Bathrooms: p.Bathrooms,
			Location:  p.Location,
			Features:  p.Features,
		})
	}
	return views
}

// mustJSON serializes v for prompt embedding. The inputs are plain structs
// and slices, so marshaling cannot fail at runtime.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// SystemPrompt builds the role-aware chatbot system prompt. A language
// directive is appended only when the language is not English.
func SystemPrompt(role, language string) string {
	basePrompt, ok := rolePrompts[role]
	if !ok {
		basePrompt = rolePrompts[models.RoleBuyer]
	}

	languagePrompt := ""
	if language != "en" {
		languagePrompt = fmt.Sprintf(" Always respond in %s.", language)
	}

	return fmt.Sprintf("%s You have access to comprehensive real estate data and can provide personalized recommendations.%s", basePrompt, languagePrompt)
}

// RecommendationPrompt serializes the candidate properties and merged
// preferences into a ranking request.
func RecommendationPrompt(properties []models.Property, preferences models.Preferences, language string) string {
	return fmt.Sprintf("Based on the following user preferences: %s and available properties: %s, provide personalized property recommendations. Rank the top 5 properties and explain why each is a good match. Respond in %s.",
		mustJSON(preferences), mustJSON(projectProperties(properties)), language)
}

// PricePredictionPrompt serializes the subject, comparable sales and
// market aggregate into a valuation request.
func PricePredictionPrompt(subject models.PropertyData, comparables []models.Property, marketData models.MarketStats, language string) string {
	return fmt.Sprintf("Predict the market price for this property: %s. Similar properties: %s. Market data: %s. Provide a price range, confidence level, and explanation. Respond in %s.",
		mustJSON(subject), mustJSON(projectProperties(comparables)), mustJSON(marketData), language)
}

// MarketAnalysisPrompt requests trend, price, supply/demand and outlook
// commentary for the given market slice.
func MarketAnalysisPrompt(location, propertyType string, marketData models.MarketStats, timeframe, language string) string {
	return fmt.Sprintf("Analyze the real estate market for %s properties in %s over the last %s. Market data: %s. Provide trends, price analysis, supply/demand insights, and future outlook. Respond in %s.",
		propertyType, location, timeframe, mustJSON(marketData), language)
}

// ImageAnalysisPrompt selects the instruction template for the analysis
// type and appends a language directive.
func ImageAnalysisPrompt(analysisType, language string) string {
	prompt, ok := imagePrompts[analysisType]
	if !ok {
		prompt = imagePrompts["general"]
	}
	return fmt.Sprintf("%s Provide a detailed analysis in %s.", prompt, language)
}
