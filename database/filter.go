package database

import (
	"strings"

	"property-ai-service/models"
)

// PropertyFilter compiles recommendation preferences into a WHERE clause.
// Every filter restricts to active, published, available listings; the
// preference-driven conditions are added on top.
type PropertyFilter struct {
	PropertyTypes []string
	BudgetRange   *models.BudgetRange
	MinBedrooms   int
	MinBathrooms  int
	MinArea       float64
	MaxArea       float64
}

// BuildPropertyFilter maps merged preferences onto a filter.
func BuildPropertyFilter(preferences models.Preferences) PropertyFilter {
	filter := PropertyFilter{
		PropertyTypes: preferences.PropertyType,
		BudgetRange:   preferences.BudgetRange,
		MinBedrooms:   preferences.Bedrooms,
		MinBathrooms:  preferences.Bathrooms,
		MinArea:       preferences.MinArea,
		MaxArea:       preferences.MaxArea,
	}
	return filter
}

// Where renders the filter as a parameterized SQL condition.
func (f PropertyFilter) Where() (string, []any) {
	conditions := []string{"is_active = TRUE", "is_published = TRUE", "status = 'available'"}
	var args []any

	if len(f.PropertyTypes) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.PropertyTypes)), ", ")
		conditions = append(conditions, "property_type IN ("+placeholders+")")
		for _, t := range f.PropertyTypes {
			args = append(args, t)
		}
	}

	if f.BudgetRange != nil {
		conditions = append(conditions, "total_price >= ?")
		args = append(args, f.BudgetRange.Min)
		// An absent upper bound leaves the budget open-ended.
		if f.BudgetRange.Max > 0 {
			conditions = append(conditions, "total_price <= ?")
			args = append(args, f.BudgetRange.Max)
		}
	}

	if f.MinBedrooms > 0 {
		conditions = append(conditions, "bedrooms >= ?")
		args = append(args, f.MinBedrooms)
	}

	if f.MinBathrooms > 0 {
		conditions = append(conditions, "bathrooms >= ?")
		args = append(args, f.MinBathrooms)
	}

	if f.MinArea > 0 {
		conditions = append(conditions, "total_area >= ?")
		args = append(args, f.MinArea)
	}

	if f.MaxArea > 0 {
		conditions = append(conditions, "total_area <= ?")
		args = append(args, f.MaxArea)
	}

	return strings.Join(conditions, " AND "), args
}
