package parser

import (
	"testing"

	"property-ai-service/models"
)

func TestParsePricePrediction(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		wantEstimate  float64
		wantRangeMin  float64
		wantRangeMax  float64
	}{
		{
			name:         "estimate with range",
			response:     "Estimated at $350,000 to $400,000",
			wantEstimate: 350000,
			wantRangeMin: 350000,
			wantRangeMax: 400000,
		},
		{
			name:         "single figure",
			response:     "The property is worth about $275,500.00 in the current market.",
			wantEstimate: 275500,
			wantRangeMin: 275500,
			wantRangeMax: 275500,
		},
		{
			name:         "figures without currency symbol",
			response:     "Range: 120000 to 95000 depending on condition",
			wantEstimate: 120000,
			wantRangeMin: 95000,
			wantRangeMax: 120000,
		},
		{
			name:         "no numbers",
			response:     "no numbers here",
			wantEstimate: 0,
			wantRangeMin: 0,
			wantRangeMax: 0,
		},
		{
			name:         "empty response",
			response:     "",
			wantEstimate: 0,
			wantRangeMin: 0,
			wantRangeMax: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePricePrediction(tt.response)
			if got.EstimatedPrice != tt.wantEstimate {
				t.Errorf("EstimatedPrice = %v, want %v", got.EstimatedPrice, tt.wantEstimate)
			}
			if got.PriceRange.Min != tt.wantRangeMin {
				t.Errorf("PriceRange.Min = %v, want %v", got.PriceRange.Min, tt.wantRangeMin)
			}
			if got.PriceRange.Max != tt.wantRangeMax {
				t.Errorf("PriceRange.Max = %v, want %v", got.PriceRange.Max, tt.wantRangeMax)
			}
			if got.Confidence != 0.85 {
				t.Errorf("Confidence = %v, want 0.85", got.Confidence)
			}
			if got.Explanation != tt.response {
				t.Errorf("Explanation = %q, want raw response", got.Explanation)
			}
		})
	}
}

func TestParseRecommendations(t *testing.T) {
	properties := []models.Property{
		{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"}, {ID: "p5"}, {ID: "p6"}, {ID: "p7"},
	}

	recs := ParseRecommendations(properties)
	if len(recs) != 5 {
		t.Fatalf("len = %d, want 5", len(recs))
	}

	for i, rec := range recs {
		if rec.Rank != i+1 {
			t.Errorf("rank[%d] = %d, want %d", i, rec.Rank, i+1)
		}
		if rec.Property.ID != properties[i].ID {
			t.Errorf("property[%d] = %s, want supplied order preserved", i, rec.Property.ID)
		}
		if rec.MatchScore < 0.7 || rec.MatchScore > 1.0 {
			t.Errorf("match score[%d] = %v, want within [0.7, 1.0]", i, rec.MatchScore)
		}
		if rec.Explanation == "" {
			t.Errorf("explanation[%d] is empty", i)
		}
	}
}

func TestParseRecommendationsFewerThanFive(t *testing.T) {
	recs := ParseRecommendations([]models.Property{{ID: "only"}})
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	if recs[0].Rank != 1 {
		t.Errorf("rank = %d, want 1", recs[0].Rank)
	}
}

func TestParseMarketAnalysis(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "market data "
	}

	analysis := ParseMarketAnalysis(long)
	if len([]rune(analysis.Summary)) != 200 {
		t.Errorf("summary length = %d, want 200", len([]rune(analysis.Summary)))
	}
	if analysis.FullAnalysis != long {
		t.Error("full analysis should be the raw text")
	}
	if analysis.Trends == "" || analysis.PriceAnalysis == "" || analysis.Outlook == "" {
		t.Error("placeholder commentary fields must be populated")
	}

	short := ParseMarketAnalysis("brief")
	if short.Summary != "brief" {
		t.Errorf("short summary = %q, want full text", short.Summary)
	}
}

func TestParseImageAnalysis(t *testing.T) {
	analysis := ParseImageAnalysis("A bright living room with hardwood floors.")
	if analysis.Description != "A bright living room with hardwood floors." {
		t.Errorf("description = %q, want raw text", analysis.Description)
	}
	if analysis.Features == nil || len(analysis.Features) != 0 {
		t.Error("features should be an empty set")
	}
	if analysis.Condition != "Good" {
		t.Errorf("condition = %q, want Good", analysis.Condition)
	}
	if analysis.Score < 0.7 || analysis.Score > 1.0 {
		t.Errorf("score = %v, want within [0.7, 1.0]", analysis.Score)
	}
}
