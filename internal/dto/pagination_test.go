package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationQuery_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        PaginationQuery
		wantPage  int
		wantLimit int
	}{
		{"нулевые значения", PaginationQuery{}, 1, 10},
		{"отрицательные значения", PaginationQuery{Page: -3, Limit: -1}, 1, 10},
		{"валидные значения не меняются", PaginationQuery{Page: 4, Limit: 25}, 4, 25},
		{"limit обрезается до максимума", PaginationQuery{Page: 1, Limit: 500}, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Normalize()
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestPaginationQuery_Offset(t *testing.T) {
	t.Parallel()

	q := PaginationQuery{Page: 3, Limit: 10}
	assert.Equal(t, 20, q.Offset())

	q = PaginationQuery{Page: 1, Limit: 50}
	assert.Equal(t, 0, q.Offset())
}

func TestNewPaginatedResponse(t *testing.T) {
	t.Parallel()

	resp := NewPaginatedResponse([]string{"a", "b"}, 25, 3, 10)
	assert.Equal(t, int64(25), resp.Total)
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 3, resp.TotalPages, "25 записей по 10 - это 3 страницы")

	resp = NewPaginatedResponse(nil, 0, 1, 10)
	assert.Equal(t, 0, resp.TotalPages, "пустой список - ноль страниц")

	resp = NewPaginatedResponse(nil, 30, 1, 10)
	assert.Equal(t, 3, resp.TotalPages, "ровное деление без лишней страницы")
}
