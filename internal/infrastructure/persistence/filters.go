package persistence

import (
	"fmt"
	"strings"

	"github.com/bizops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies ordering and pagination from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyOrdering(query, filter)

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyOrdering applies only the ordering part of a filter, for count queries
func applyOrdering(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy == "" {
		return query
	}
	dir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		dir = "DESC"
	}
	return query.Order(fmt.Sprintf("%s %s", filter.OrderBy, dir))
}
