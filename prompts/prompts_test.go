package prompts

import (
	"strings"
	"testing"

	"property-ai-service/models"
)

func TestSystemPromptRoleFallback(t *testing.T) {
	unknown := SystemPrompt("LANDLORD", "en")
	buyer := SystemPrompt(models.RoleBuyer, "en")
	if unknown != buyer {
		t.Errorf("unknown role prompt = %q, want buyer prompt %q", unknown, buyer)
	}
}

func TestSystemPromptRoles(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{models.RoleDeveloper, "real estate developers"},
		{models.RoleAgency, "real estate agencies"},
		{models.RoleAgent, "real estate agents"},
		{models.RoleBuyer, "property buyers"},
		{models.RoleAdmin, "system administrators"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := SystemPrompt(tt.role, "en")
			if !strings.Contains(got, tt.want) {
				t.Errorf("SystemPrompt(%s) = %q, want mention of %q", tt.role, got, tt.want)
			}
		})
	}
}

func TestSystemPromptLanguageDirective(t *testing.T) {
	english := SystemPrompt(models.RoleBuyer, "en")
	if strings.Contains(english, "Always respond in") {
		t.Errorf("english prompt should carry no language directive: %q", english)
	}

	spanish := SystemPrompt(models.RoleBuyer, "es")
	if !strings.Contains(spanish, "Always respond in es") {
		t.Errorf("spanish prompt missing language directive: %q", spanish)
	}
}

func TestImageAnalysisPromptFallback(t *testing.T) {
	general := ImageAnalysisPrompt("general", "en")
	for _, unknown := range []string{"bogus", "", "exterior"} {
		if got := ImageAnalysisPrompt(unknown, "en"); got != general {
			t.Errorf("ImageAnalysisPrompt(%q) = %q, want general template", unknown, got)
		}
	}
}

func TestImageAnalysisPromptTypes(t *testing.T) {
	tests := []struct {
		analysisType string
		want         string
	}{
		{"general", "overall appeal"},
		{"damage", "visible damage"},
		{"features", "features and amenities"},
		{"quality", "quality and condition"},
	}

	for _, tt := range tests {
		t.Run(tt.analysisType, func(t *testing.T) {
			got := ImageAnalysisPrompt(tt.analysisType, "pt-BR")
			if !strings.Contains(got, tt.want) {
				t.Errorf("ImageAnalysisPrompt(%s) = %q, want mention of %q", tt.analysisType, got, tt.want)
			}
			if !strings.Contains(got, "pt-BR") {
				t.Errorf("prompt missing language: %q", got)
			}
		})
	}
}

func TestRecommendationPromptDeterministic(t *testing.T) {
	properties := []models.Property{
		{ID: "p1", PropertyType: "apartment", TotalPrice: 250000, TotalArea: 80, Bedrooms: 2, Bathrooms: 1, Location: "Lisbon"},
	}
	preferences := models.Preferences{
		PropertyType: []string{"apartment"},
		BudgetRange:  &models.BudgetRange{Min: 100000, Max: 300000},
	}

	first := RecommendationPrompt(properties, preferences, "es")
	second := RecommendationPrompt(properties, preferences, "es")
	if first != second {
		t.Error("prompt must be deterministic for identical inputs")
	}
	if !strings.Contains(first, `"p1"`) {
		t.Errorf("prompt missing candidate id: %q", first)
	}
	if !strings.Contains(first, "Respond in es.") {
		t.Errorf("prompt missing language request: %q", first)
	}
	if !strings.Contains(first, "Rank the top 5 properties") {
		t.Errorf("prompt missing ranking instruction: %q", first)
	}
}

func TestPricePredictionPrompt(t *testing.T) {
	subject := models.PropertyData{PropertyType: "villa", Bedrooms: 4, Bathrooms: 3, TotalArea: 320}
	comparables := []models.Property{{ID: "c1", PropertyType: "villa", SalePrice: 900000}}
	market := models.MarketStats{AvgPrice: 850000, TotalSales: 12}

	got := PricePredictionPrompt(subject, comparables, market, "en")
	if !strings.Contains(got, `"villa"`) {
		t.Errorf("prompt missing subject type: %q", got)
	}
	if !strings.Contains(got, "confidence level") {
		t.Errorf("prompt missing valuation instruction: %q", got)
	}
}

func TestMarketAnalysisPrompt(t *testing.T) {
	got := MarketAnalysisPrompt("Porto", "apartment", models.MarketStats{TotalSales: 40}, "6months", "en")
	if !strings.Contains(got, "apartment properties in Porto") {
		t.Errorf("prompt missing market slice: %q", got)
	}
	if !strings.Contains(got, "over the last 6months") {
		t.Errorf("prompt missing timeframe: %q", got)
	}
}
