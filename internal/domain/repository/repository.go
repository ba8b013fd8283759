// Package repository 定义数据访问层接口
package repository

import (
	"context"
)

// TxKey 事务在 context 中的键
type TxKey struct{}

// Transactor 事务管理；fn 内通过 ctx 取到同一事务
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination 页码从 1 开始
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPagination 非法页码归 1，页大小落在 [1, MaxPageSize]，缺省为 DefaultPageSize
func NewPagination(page, pageSize int) Pagination {
	p := Pagination{Page: max(page, 1), PageSize: pageSize}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.PageSize }

func (p Pagination) Limit() int { return p.PageSize }

// PagedResult 列表查询结果
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPagedResult 按总数向上取整计算页数
func NewPagedResult[T any](items []T, total int64, p Pagination) *PagedResult[T] {
	pages := 0
	if p.PageSize > 0 {
		pages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	if items == nil {
		items = []T{}
	}
	return &PagedResult[T]{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize, TotalPages: pages}
}

// SortOrder 排序方向
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// Sort 排序参数；Field 需由调用方按白名单校验后再拼入 SQL
type Sort struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

func NewSort(field string, order SortOrder) Sort {
	return Sort{Field: field, Order: order}
}

// Clause 生成 ORDER BY 片段；Field 为空时返回 fallback
func (s Sort) Clause(fallback string) string {
	if s.Field == "" {
		return fallback
	}
	order := SortOrderAsc
	if s.Order == SortOrderDesc {
		order = SortOrderDesc
	}
	return s.Field + " " + string(order)
}
