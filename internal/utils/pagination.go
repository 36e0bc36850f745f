package utils

import (
	"math"
	"strconv"

	"gorm.io/gorm"
)

// Pagination is the page cursor handed to templates alongside the
// items themselves.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	Total       int64
	PerPage     int
}

func (p Pagination) HasPrev() bool {
	return p.CurrentPage > 1
}

func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

func (p Pagination) PrevPage() int {
	if p.HasPrev() {
		return p.CurrentPage - 1
	}
	return p.CurrentPage
}

func (p Pagination) NextPage() int {
	if p.HasNext() {
		return p.CurrentPage + 1
	}
	return p.CurrentPage
}

// ParsePage turns a raw ?page= value into a usable page number.
// Anything that is not a positive integer degrades to page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Paginate slices an ordered query into fixed-size pages. The page
// number is clamped rather than rejected: past-the-end requests land
// on the last page, and an empty collection yields page 1 with an
// empty slice and zero total pages. dest must be a pointer to a slice.
func Paginate(query *gorm.DB, pageParam string, perPage int, dest interface{}) (Pagination, error) {
	page := ParsePage(pageParam)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if page > totalPages {
		if totalPages > 0 {
			page = totalPages
		} else {
			page = 1
		}
	}

	offset := (page - 1) * perPage
	if err := query.Limit(perPage).Offset(offset).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		PerPage:     perPage,
	}, nil
}
