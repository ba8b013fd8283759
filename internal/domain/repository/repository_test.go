package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name           string
		page, size     int
		wantPage, want int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize},
		{"clamped", -3, 500, 1, MaxPageSize},
		{"kept", 3, 15, 3, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.want, p.Limit())
		})
	}
	assert.Equal(t, 30, NewPagination(3, 15).Offset())
}

func TestNewPagedResult(t *testing.T) {
	r := NewPagedResult([]string{"a"}, 41, NewPagination(1, 20))
	assert.Equal(t, 3, r.TotalPages)

	empty := NewPagedResult[string](nil, 0, NewPagination(1, 20))
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestSortClause(t *testing.T) {
	assert.Equal(t, "created_at DESC", Sort{}.Clause("created_at DESC"))
	assert.Equal(t, "name ASC", NewSort("name", SortOrderAsc).Clause("x"))
	assert.Equal(t, "name ASC", Sort{Field: "name", Order: "sideways"}.Clause("x"))
	assert.Equal(t, "updated_at DESC", NewSort("updated_at", SortOrderDesc).Clause("x"))
}
