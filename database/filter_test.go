package database

import (
	"strings"
	"testing"

	"property-ai-service/models"
)

func TestPropertyFilterWhere(t *testing.T) {
	filter := BuildPropertyFilter(models.Preferences{
		PropertyType: []string{"apartment"},
		BudgetRange:  &models.BudgetRange{Min: 100000, Max: 300000},
		Bedrooms:     2,
	})

	where, args := filter.Where()

	for _, base := range []string{"is_active = TRUE", "is_published = TRUE", "status = 'available'"} {
		if !strings.Contains(where, base) {
			t.Errorf("where clause missing base condition %q: %s", base, where)
		}
	}
	if !strings.Contains(where, "property_type IN (?)") {
		t.Errorf("where clause missing type condition: %s", where)
	}
	if !strings.Contains(where, "total_price >= ?") || !strings.Contains(where, "total_price <= ?") {
		t.Errorf("where clause missing budget bounds: %s", where)
	}
	if !strings.Contains(where, "bedrooms >= ?") {
		t.Errorf("where clause missing bedrooms condition: %s", where)
	}

	want := []any{"apartment", float64(100000), float64(300000), 2}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %v", i, args[i], want[i])
		}
	}
}

func TestPropertyFilterWhereEmptyPreferences(t *testing.T) {
	where, args := BuildPropertyFilter(models.Preferences{}).Where()

	if where != "is_active = TRUE AND is_published = TRUE AND status = 'available'" {
		t.Errorf("empty preferences should only restrict to available listings: %s", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestPropertyFilterWhereMultipleTypes(t *testing.T) {
	where, args := BuildPropertyFilter(models.Preferences{
		PropertyType: []string{"apartment", "villa", "townhouse"},
	}).Where()

	if !strings.Contains(where, "property_type IN (?, ?, ?)") {
		t.Errorf("where clause should have one placeholder per type: %s", where)
	}
	if len(args) != 3 {
		t.Errorf("args = %v, want 3 types", args)
	}
}

func TestPropertyFilterWhereOpenEndedBudget(t *testing.T) {
	where, args := BuildPropertyFilter(models.Preferences{
		BudgetRange: &models.BudgetRange{Min: 50000},
	}).Where()

	if strings.Contains(where, "total_price <= ?") {
		t.Errorf("missing max should leave the budget open-ended: %s", where)
	}
	if len(args) != 1 || args[0] != float64(50000) {
		t.Errorf("args = %v, want just the lower bound", args)
	}
}

func TestPropertyFilterWhereAreaBounds(t *testing.T) {
	where, args := BuildPropertyFilter(models.Preferences{
		MinArea: 60,
		MaxArea: 140,
	}).Where()

	if !strings.Contains(where, "total_area >= ?") || !strings.Contains(where, "total_area <= ?") {
		t.Errorf("where clause missing area bounds: %s", where)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want both area bounds", args)
	}
}
