package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a list endpoint may order by
type sortColumns map[string]bool

var itemSortColumns = sortColumns{
	"id":         true,
	"sku":        true,
	"name":       true,
	"category":   true,
	"price":      true,
	"quantity":   true,
	"created_at": true,
	"updated_at": true,
}

// orderBy builds the ORDER BY clause for a requested field and direction.
// Unknown fields fall back to fallback; anything but "asc" sorts descending.
// Ties are broken by id descending so pages stay stable.
func (s sortColumns) orderBy(field, dir, fallback string) clause.OrderBy {
	field = strings.TrimSpace(field)
	if !s[field] {
		field = fallback
	}
	desc := !strings.EqualFold(strings.TrimSpace(dir), "asc")

	cols := []clause.OrderByColumn{{Column: clause.Column{Name: field}, Desc: desc}}
	if field != "id" {
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true})
	}
	return clause.OrderBy{Columns: cols}
}
