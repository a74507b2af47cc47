package persistence

import (
	"strings"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"gorm.io/gorm"
)

// orderColumnAllowed reports whether the column is safe to interpolate
// into an ORDER BY clause. Only plain identifiers pass; anything else
// falls back to the default ordering.
func orderColumnAllowed(column string) bool {
	if column == "" {
		return false
	}
	for _, r := range column {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

// applyFilter applies pagination and ordering from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if orderColumnAllowed(filter.OrderBy) {
		dir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}
