package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		limit  string
		want   Pagination
		offset int
	}{
		{"defaults", "", "", Pagination{Page: 1, Limit: 10}, 0},
		{"explicit", "3", "20", Pagination{Page: 3, Limit: 20}, 40},
		{"limit clamped high", "1", "1000", Pagination{Page: 1, Limit: 100}, 0},
		{"negative limit clamped low", "1", "-5", Pagination{Page: 1, Limit: 1}, 0},
		{"zero limit uses default", "1", "0", Pagination{Page: 1, Limit: 10}, 0},
		{"zero page uses default", "0", "10", Pagination{Page: 1, Limit: 10}, 0},
		{"negative page", "-2", "10", Pagination{Page: 1, Limit: 10}, 0},
		{"non numeric", "abc", "xyz", Pagination{Page: 1, Limit: 10}, 0},
		{"fractional truncated", "2.9", "5.5", Pagination{Page: 2, Limit: 5}, 5},
		{"padded", " 4 ", " 25 ", Pagination{Page: 4, Limit: 25}, 75},
		{"infinite", "Infinity", "NaN", Pagination{Page: 1, Limit: 10}, 0},
		{"leading zeros", "010", "08", Pagination{Page: 10, Limit: 8}, 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePagination(tt.page, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.offset, got.Offset())
		})
	}
}

func TestAllModels_Migrate(t *testing.T) {
	db := SetupTestDB(t)
	for _, table := range []string{"users", "activity_logs", "elevenlabs_agents", "elevenlabs_conversations"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
