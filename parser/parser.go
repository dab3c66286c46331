// Package parser extracts structured domain results from free-text
// provider output. All extraction here is best-effort: the provider text
// is not a contract, so malformed or unexpected input degrades to safe
// defaults instead of failing the call.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"property-ai-service/models"
)

// priceConfidence is a fixed constant; the parser does not derive
// confidence from the provider text.
const priceConfidence = 0.85

// summaryLength is how many characters of raw text become the
// market-analysis summary.
const summaryLength = 200

// currencyPattern matches currency-like substrings: digit groups with
// optional comma separators and optional cents, with an optional leading
// dollar sign.
var currencyPattern = regexp.MustCompile(`\$?\d+(?:,\d{3})*(?:\.\d{2})?`)

// ParseRecommendations attaches rank indexes to the first five candidates
// in supplied order. The match score and explanation are placeholder
// heuristics not derived from the provider's text; they are deterministic
// per rank so callers and tests can pin them.
func ParseRecommendations(candidates []models.Property) []models.Recommendation {
	count := len(candidates)
	if count > 5 {
		count = 5
	}

	recommendations := make([]models.Recommendation, 0, count)
	for i := 0; i < count; i++ {
		compatibility := 95 - 5*i
		recommendations = append(recommendations, models.Recommendation{
			Property:    candidates[i],
			Rank:        i + 1,
			MatchScore:  float64(compatibility) / 100,
			Explanation: fmt.Sprintf("Property matches your preferences with %d%% compatibility", compatibility),
		})
	}
	return recommendations
}

// ParsePricePrediction extracts currency-like figures from the response
// text. The first figure is the estimate; the minimum and maximum of all
// figures form the range. When no figures are found, estimate and range
// default to zero. The raw text is kept as the explanation.
func ParsePricePrediction(responseText string) models.PricePrediction {
	matches := currencyPattern.FindAllString(responseText, -1)

	var prices []decimal.Decimal
	for _, m := range matches {
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(m)
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			continue
		}
		prices = append(prices, d)
	}

	prediction := models.PricePrediction{
		Confidence:  priceConfidence,
		Explanation: responseText,
	}

	if len(prices) == 0 {
		return prediction
	}

	min, max := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p.LessThan(min) {
			min = p
		}
		if p.GreaterThan(max) {
			max = p
		}
	}

	prediction.EstimatedPrice, _ = prices[0].Float64()
	prediction.PriceRange.Min, _ = min.Float64()
	prediction.PriceRange.Max, _ = max.Float64()
	return prediction
}

// ParseMarketAnalysis wraps the raw response text. The summary is the
// first 200 characters; trend, price-analysis and outlook are fixed
// strings. This parser does not extract structured insight from the text.
func ParseMarketAnalysis(responseText string) models.MarketAnalysis {
	summary := responseText
	if runes := []rune(summary); len(runes) > summaryLength {
		summary = string(runes[:summaryLength])
	}

	return models.MarketAnalysis{
		Summary:       summary,
		Trends:        "Positive growth trend observed",
		PriceAnalysis: "Prices have increased by 5-10% over the period",
		Outlook:       "Market shows strong fundamentals",
		FullAnalysis:  responseText,
	}
}

// ParseImageAnalysis wraps the raw response text. The feature list,
// condition and score are placeholders; the score is derived from the
// response length so it is stable per input.
func ParseImageAnalysis(responseText string) models.ImageAnalysis {
	return models.ImageAnalysis{
		Description: responseText,
		Features:    []string{},
		Condition:   "Good",
		Score:       0.7 + float64(len(responseText)%30)/100,
	}
}
