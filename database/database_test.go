package database

import (
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"property-ai-service/models"
)

func newMockDB(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestGetUserByID(t *testing.T) {
	d, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "budget_min", "budget_max",
		"preferred_locations", "property_types", "min_bedrooms", "min_bathrooms"}).
		AddRow("u1", "Ana", "ana@example.com", "BUYER", 100000.0, 300000.0,
			"Lisbon, Porto", "apartment", 2, 1)

	mock.ExpectQuery("SELECT id, name, email, role").WithArgs("u1").WillReturnRows(rows)

	user, err := d.GetUserByID("u1")
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if user.Role != "BUYER" {
		t.Errorf("role = %q, want BUYER", user.Role)
	}
	if user.BudgetRange == nil || user.BudgetRange.Min != 100000 || user.BudgetRange.Max != 300000 {
		t.Errorf("budget range = %+v, want [100000, 300000]", user.BudgetRange)
	}
	if len(user.PreferredLocations) != 2 || user.PreferredLocations[1] != "Porto" {
		t.Errorf("preferred locations = %v", user.PreferredLocations)
	}
	if len(user.PropertyTypes) != 1 || user.PropertyTypes[0] != "apartment" {
		t.Errorf("property types = %v", user.PropertyTypes)
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, name, email, role").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := d.GetUserByID("missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestFindProperties(t *testing.T) {
	d, mock := newMockDB(t)

	filter := BuildPropertyFilter(models.Preferences{
		PropertyType: []string{"apartment"},
		BudgetRange:  &models.BudgetRange{Min: 100000, Max: 300000},
		Bedrooms:     2,
	})

	rows := sqlmock.NewRows([]string{"id", "property_type", "total_price", "price_per_sqm", "total_area",
		"bedrooms", "bathrooms", "location", "features", "status", "is_active", "is_published",
		"total_views", "created_at", "sale_price", "sold_date"}).
		AddRow("p1", "apartment", 250000.0, 3125.0, 80.0, 2, 1, "Lisbon", "balcony, garage",
			"available", true, true, 42, time.Now(), nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE is_active = TRUE").
		WithArgs("apartment", 100000.0, 300000.0, 2, 20).
		WillReturnRows(rows)

	properties, err := d.FindProperties(filter, 20)
	if err != nil {
		t.Fatalf("FindProperties: %v", err)
	}
	if len(properties) != 1 {
		t.Fatalf("len = %d, want 1", len(properties))
	}
	if len(properties[0].Features) != 2 {
		t.Errorf("features = %v, want split list", properties[0].Features)
	}
}

func TestFindComparableSales(t *testing.T) {
	d, mock := newMockDB(t)

	subject := models.PropertyData{PropertyType: "villa", Bedrooms: 4, Bathrooms: 3, TotalArea: 300}

	rows := sqlmock.NewRows([]string{"id", "property_type", "total_price", "price_per_sqm", "total_area",
		"bedrooms", "bathrooms", "location", "features", "status", "is_active", "is_published",
		"total_views", "created_at", "sale_price", "sold_date"}).
		AddRow("c1", "villa", 880000.0, 2900.0, 310.0, 4, 3, "Cascais", nil,
			"sold", true, true, 10, time.Now(), 900000.0, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("status = 'sold' AND property_type = ?")).
		WithArgs("villa", 4, 3, 240.0, 360.0, 10).
		WillReturnRows(rows)

	comparables, err := d.FindComparableSales(subject, 10)
	if err != nil {
		t.Fatalf("FindComparableSales: %v", err)
	}
	if len(comparables) != 1 {
		t.Fatalf("len = %d, want 1", len(comparables))
	}
	if comparables[0].SalePrice != 900000 {
		t.Errorf("sale price = %v, want 900000", comparables[0].SalePrice)
	}
}

func TestGetMarketStats(t *testing.T) {
	d, mock := newMockDB(t)

	since := time.Now().AddDate(0, -6, 0)
	rows := sqlmock.NewRows([]string{"avg", "avg_sqm", "count", "min", "max"}).
		AddRow(450000.0, 3200.0, 17, 310000.0, 720000.0)

	mock.ExpectQuery("SELECT AVG\\(sale_price\\)").WithArgs("apartment", since).WillReturnRows(rows)

	stats, err := d.GetMarketStats("apartment", since)
	if err != nil {
		t.Fatalf("GetMarketStats: %v", err)
	}
	if stats.TotalSales != 17 || stats.AvgPrice != 450000 || stats.MaxPrice != 720000 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGetMarketStatsNoSales(t *testing.T) {
	d, mock := newMockDB(t)

	since := time.Now()
	rows := sqlmock.NewRows([]string{"avg", "avg_sqm", "count", "min", "max"}).
		AddRow(nil, nil, 0, nil, nil)

	mock.ExpectQuery("SELECT AVG\\(sale_price\\)").WithArgs("loft", since).WillReturnRows(rows)

	stats, err := d.GetMarketStats("loft", since)
	if err != nil {
		t.Fatalf("GetMarketStats: %v", err)
	}
	if stats.TotalSales != 0 || stats.AvgPrice != 0 {
		t.Errorf("empty aggregate should scan to zero values: %+v", stats)
	}
}

func TestSaveInteraction(t *testing.T) {
	d, mock := newMockDB(t)

	rec := &models.AiInteraction{
		UserID:          "u1",
		SessionID:       "s1",
		InteractionType: models.InteractionChatbot,
		Input:           `{"query":"hi"}`,
		ModelInfo:       models.ModelInfo{ModelName: "gpt-4", Provider: "openai", Temperature: 0.7, MaxTokens: 1500},
		Content:         "hello",
		ProcessingTime:  12,
		TokenUsage:      &models.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}

	mock.ExpectExec("INSERT INTO ai_interactions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := d.SaveInteraction(rec); err != nil {
		t.Fatalf("SaveInteraction: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSaveInteractionError(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO ai_interactions").
		WillReturnError(errors.New("disk full"))

	err := d.SaveInteraction(&models.AiInteraction{SessionID: "s1", InteractionType: models.InteractionChatbot})
	if err == nil {
		t.Fatal("expected error from failed insert")
	}
}

func TestSaveIntegrationLog(t *testing.T) {
	d, mock := newMockDB(t)

	rec := &models.IntegrationLog{
		ServiceName:    "google_translate",
		ActionType:     "translate_text",
		RequestPayload: `{"text":"Hello"}`,
		Status:         "success",
		ResponseData:   `{"translation":"Hola"}`,
	}

	mock.ExpectExec("INSERT INTO integration_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := d.SaveIntegrationLog(rec); err != nil {
		t.Fatalf("SaveIntegrationLog: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
