package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
)

// ErrInvalidPagination is returned when page or limit is not positive
var ErrInvalidPagination = errors.New("page and limit must be positive integers")

// Pagination is a validated page/limit pair
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads raw query values. Missing or non-numeric values fall
// back to the defaults; parsed values below 1 are rejected, as is any pair
// whose offset does not fit in an int64.
func ParsePagination(pageRaw, limitRaw string) (Pagination, error) {
	p := Pagination{
		Page:  parseIntOr(pageRaw, DefaultPage),
		Limit: parseIntOr(limitRaw, DefaultLimit),
	}
	if p.Page < 1 || p.Limit < 1 {
		return Pagination{}, ErrInvalidPagination
	}
	if int64(p.Page-1) > math.MaxInt64/int64(p.Limit) {
		return Pagination{}, ErrInvalidPagination
	}
	return p, nil
}

// Skip is the number of records before this page
func (p Pagination) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// TotalPages = ceil(total / limit)
func (p Pagination) TotalPages(total int64) int {
	return TotalPages(total, p.Limit)
}

func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	l := int64(limit)
	pages := total / l
	if total%l != 0 {
		pages++
	}
	return int(pages)
}

func parseIntOr(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
