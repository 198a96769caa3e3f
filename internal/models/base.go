package models

import (
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	maxPage = math.MaxInt32
)

// Pagination is a resolved page window
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination resolves raw page/limit query values.
// page defaults to 1 and is at least 1; limit defaults to 10 and is clamped to [1,100].
// Missing, zero, non-numeric or non-finite input falls back to the default.
func ParsePagination(rawPage, rawLimit string) Pagination {
	p := Pagination{Page: DefaultPage, Limit: DefaultLimit}

	if v, ok := parseNumber(rawPage); ok {
		p.Page = int(math.Max(1, math.Min(maxPage, math.Trunc(v))))
	}
	if v, ok := parseNumber(rawLimit); ok {
		p.Limit = int(math.Max(1, math.Min(MaxLimit, math.Trunc(v))))
	}
	return p
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return 0, false
	}
	return v, true
}

// notDeleted restricts a query to rows without a deletion mark
func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

// paginate applies the page window
func paginate(p Pagination) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// AllModels lists every table the service migrates
func AllModels() []any {
	return []any{
		&User{},
		&ActivityLog{},
		&ElevenLabsAgent{},
		&ElevenLabsConversation{},
	}
}
