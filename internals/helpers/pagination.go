package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const DefaultPage = 1

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

// ===== Preset =====
var (
	DefaultOpts = Options{DefaultPerPage: 25, MaxPerPage: 200}
	AdminOpts   = Options{DefaultPerPage: 50, MaxPerPage: 500}
)

type Params struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string // asc|desc
}

// Limit & Offset
func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// OrderClause: kolom dari whitelist, fallback ke defaultKey.
func (p Params) OrderClause(allowed map[string]string, defaultKey string) string {
	col, ok := allowed[p.SortBy]
	if !ok {
		col = allowed[defaultKey]
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"` // jumlah item di halaman ini
}

func BuildPagination(total int64, p Params) *Pagination {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultOpts.DefaultPerPage
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage)) // ceil
	return &Pagination{
		Page:       p.Page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    totalPages > 0 && p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// ParseFiber: parse ?page=&per_page=(alias limit)&sort_by=&order= dari Fiber ctx.
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	per := opt.DefaultPerPage
	perRaw := strings.TrimSpace(firstNonEmpty(c.Query("per_page"), c.Query("limit")))
	if n, err := strconv.Atoi(perRaw); err == nil && n > 0 {
		per = n
	}
	if opt.MaxPerPage > 0 && per > opt.MaxPerPage {
		per = opt.MaxPerPage
	}

	sortBy := strings.TrimSpace(c.Query("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	order := strings.ToLower(strings.TrimSpace(firstNonEmpty(c.Query("order"), c.Query("sort"))))
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultSortOrder)
		if order != "asc" && order != "desc" {
			order = "desc"
		}
	}

	return Params{Page: page, PerPage: per, SortBy: sortBy, SortOrder: order}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
