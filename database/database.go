package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"

	"property-ai-service/config"
	"property-ai-service/models"
)

// ErrUserNotFound is returned when a referenced user is absent.
var ErrUserNotFound = errors.New("user not found")

// Database represents the database connection
type Database struct {
	db *sql.DB
}

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection with exponential backoff retry
	var waitInterval time.Duration = 1 * time.Second
	for {
		if err := db.Ping(); err == nil {
			break
		} else if waitInterval > 32*time.Second {
			return nil, fmt.Errorf("database unreachable: %w", err)
		} else {
			log.Warnf("Database connection failed, retrying in %v: %v", waitInterval, err)
			time.Sleep(waitInterval)
			waitInterval *= 2
		}
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Database{db: db}, nil
}

// New wraps an existing connection. Used by tests with sqlmock.
func New(db *sql.DB) *Database {
	return &Database{db: db}
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// GetDB returns the underlying sql.DB
func (d *Database) GetDB() *sql.DB {
	return d.db
}

// CreateAuditTables creates the ai_interactions and integration_logs
// tables if they don't exist.
func (d *Database) CreateAuditTables() error {
	interactions := `
	CREATE TABLE IF NOT EXISTS ai_interactions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(64),
		session_id VARCHAR(128) NOT NULL,
		interaction_type ENUM('chatbot', 'recommendation', 'price_prediction', 'market_analysis', 'image_analysis') NOT NULL,
		input TEXT,
		model_name VARCHAR(64),
		provider VARCHAR(32),
		temperature FLOAT,
		max_tokens INT,
		content MEDIUMTEXT,
		processing_time_ms BIGINT,
		prompt_tokens INT,
		completion_tokens INT,
		total_tokens INT,
		error_occurred BOOLEAN DEFAULT FALSE,
		error_message TEXT,
		error_stack TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_ai_interactions_user_id (user_id),
		INDEX idx_ai_interactions_session_id (session_id),
		INDEX idx_ai_interactions_type (interaction_type)
	)`

	if _, err := d.db.Exec(interactions); err != nil {
		return fmt.Errorf("failed to create ai_interactions table: %w", err)
	}

	integrations := `
	CREATE TABLE IF NOT EXISTS integration_logs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id VARCHAR(64),
		service_name VARCHAR(64) NOT NULL,
		service_method VARCHAR(16) NOT NULL DEFAULT 'POST',
		action_type VARCHAR(64) NOT NULL,
		request_payload TEXT,
		status VARCHAR(16) NOT NULL,
		response_data TEXT,
		error_occurred BOOLEAN DEFAULT FALSE,
		error_message TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_integration_logs_service (service_name),
		INDEX idx_integration_logs_status (status)
	)`

	if _, err := d.db.Exec(integrations); err != nil {
		return fmt.Errorf("failed to create integration_logs table: %w", err)
	}

	log.Info("audit tables created/verified successfully")
	return nil
}

// GetUserByID fetches a user with preference fields. Returns
// ErrUserNotFound when the id is unknown.
func (d *Database) GetUserByID(id string) (*models.User, error) {
	query := `
	SELECT id, name, email, role, budget_min, budget_max,
	       preferred_locations, property_types, min_bedrooms, min_bathrooms
	FROM users WHERE id = ?`

	var user models.User
	var budgetMin, budgetMax sql.NullFloat64
	var locations, propertyTypes sql.NullString
	var minBedrooms, minBathrooms sql.NullInt64

	err := d.db.QueryRow(query, id).Scan(&user.ID, &user.Name, &user.Email, &user.Role,
		&budgetMin, &budgetMax, &locations, &propertyTypes, &minBedrooms, &minBathrooms)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}

	if budgetMin.Valid || budgetMax.Valid {
		user.BudgetRange = &models.BudgetRange{Min: budgetMin.Float64, Max: budgetMax.Float64}
	}
	user.PreferredLocations = splitList(locations.String)
	user.PropertyTypes = splitList(propertyTypes.String)
	user.MinBedrooms = int(minBedrooms.Int64)
	user.MinBathrooms = int(minBathrooms.Int64)

	return &user, nil
}

// splitList parses a comma-separated column into a slice.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const propertyColumns = `id, property_type, total_price, price_per_sqm, total_area,
	       bedrooms, bathrooms, location, features, status, is_active, is_published,
	       total_views, created_at, sale_price, sold_date`

func scanProperties(rows *sql.Rows) ([]models.Property, error) {
	var properties []models.Property
	for rows.Next() {
		var p models.Property
		var features sql.NullString
		var salePrice sql.NullFloat64
		var soldDate sql.NullTime

		if err := rows.Scan(&p.ID, &p.PropertyType, &p.TotalPrice, &p.PricePerSqm, &p.TotalArea,
			&p.Bedrooms, &p.Bathrooms, &p.Location, &features, &p.Status, &p.IsActive, &p.IsPublished,
			&p.TotalViews, &p.CreatedAt, &salePrice, &soldDate); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}

		p.Features = splitList(features.String)
		p.SalePrice = salePrice.Float64
		p.SoldDate = soldDate.Time
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate property rows: %w", err)
	}
	return properties, nil
}

// FindProperties returns candidates matching the filter, sorted by view
// count then recency.
func (d *Database) FindProperties(filter PropertyFilter, limit int) ([]models.Property, error) {
	where, args := filter.Where()
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE %s ORDER BY total_views DESC, created_at DESC LIMIT ?`,
		propertyColumns, where)
	args = append(args, limit)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

// FindComparableSales returns sold properties of the same type with the
// same bedroom/bathroom count and area within ±20% of the subject's,
// newest sale first.
func (d *Database) FindComparableSales(subject models.PropertyData, limit int) ([]models.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties
	WHERE is_active = TRUE AND status = 'sold' AND property_type = ?
	  AND bedrooms = ? AND bathrooms = ?
	  AND total_area >= ? AND total_area <= ?
	ORDER BY sold_date DESC LIMIT ?`, propertyColumns)

	rows, err := d.db.Query(query, subject.PropertyType, subject.Bedrooms, subject.Bathrooms,
		subject.TotalArea*0.8, subject.TotalArea*1.2, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparable sales: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

// GetMarketStats aggregates sold properties of the given type since the
// start date.
func (d *Database) GetMarketStats(propertyType string, since time.Time) (models.MarketStats, error) {
	query := `
	SELECT AVG(sale_price), AVG(price_per_sqm), COUNT(*), MIN(sale_price), MAX(sale_price)
	FROM properties
	WHERE property_type = ? AND status = 'sold' AND sold_date >= ?`

	var stats models.MarketStats
	var avgPrice, avgPerSqm, minPrice, maxPrice sql.NullFloat64

	err := d.db.QueryRow(query, propertyType, since).Scan(&avgPrice, &avgPerSqm, &stats.TotalSales, &minPrice, &maxPrice)
	if err != nil {
		return models.MarketStats{}, fmt.Errorf("failed to aggregate market stats: %w", err)
	}

	stats.AvgPrice = avgPrice.Float64
	stats.AvgPricePerSqm = avgPerSqm.Float64
	stats.MinPrice = minPrice.Float64
	stats.MaxPrice = maxPrice.Float64
	return stats, nil
}

// SaveInteraction writes one ai_interactions audit row.
func (d *Database) SaveInteraction(rec *models.AiInteraction) error {
	query := `
	INSERT INTO ai_interactions (user_id, session_id, interaction_type, input,
		model_name, provider, temperature, max_tokens, content, processing_time_ms,
		prompt_tokens, completion_tokens, total_tokens,
		error_occurred, error_message, error_stack)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var promptTokens, completionTokens, totalTokens sql.NullInt64
	if rec.TokenUsage != nil {
		promptTokens = sql.NullInt64{Int64: int64(rec.TokenUsage.PromptTokens), Valid: true}
		completionTokens = sql.NullInt64{Int64: int64(rec.TokenUsage.CompletionTokens), Valid: true}
		totalTokens = sql.NullInt64{Int64: int64(rec.TokenUsage.TotalTokens), Valid: true}
	}

	_, err := d.db.Exec(query,
		nullString(rec.UserID), rec.SessionID, rec.InteractionType, rec.Input,
		rec.ModelInfo.ModelName, rec.ModelInfo.Provider, rec.ModelInfo.Temperature, rec.ModelInfo.MaxTokens,
		rec.Content, rec.ProcessingTime,
		promptTokens, completionTokens, totalTokens,
		rec.Error.Occurred, rec.Error.Message, rec.Error.Stack)
	if err != nil {
		return fmt.Errorf("failed to save ai interaction: %w", err)
	}
	return nil
}

// SaveIntegrationLog writes one integration_logs audit row.
func (d *Database) SaveIntegrationLog(rec *models.IntegrationLog) error {
	query := `
	INSERT INTO integration_logs (user_id, service_name, service_method, action_type,
		request_payload, status, response_data, error_occurred, error_message)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	method := rec.ServiceMethod
	if method == "" {
		method = "POST"
	}

	_, err := d.db.Exec(query,
		nullString(rec.UserID), rec.ServiceName, method, rec.ActionType,
		rec.RequestPayload, rec.Status, rec.ResponseData,
		rec.Error.Occurred, rec.Error.Message)
	if err != nil {
		return fmt.Errorf("failed to save integration log: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
