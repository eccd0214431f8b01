// Package paging provides page-number pagination helpers for lists the
// backend paginates server-side (it returns meta.totalPage/totalCount).
package paging

import (
	"net/http"
	"strconv"
)

// WindowSize is how many page links the pagination control shows at once.
const WindowSize = 5

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Clamp forces page into [1, totalPage]. A totalPage below 1 is treated
// as a single page.
func Clamp(page, totalPage int) int {
	if totalPage < 1 {
		totalPage = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPage {
		return totalPage
	}
	return page
}

// Pages holds everything the pagination partial renders.
type Pages struct {
	Current   int
	TotalPage int
	HasPrev   bool
	HasNext   bool
	Prev      int
	Next      int
	Window    []int // page numbers to render as links
}

// Compute builds the pagination view for the given current page. The window
// is centered on the current page and clipped to [1, totalPage].
func Compute(page, totalPage int) Pages {
	if totalPage < 1 {
		totalPage = 1
	}
	page = Clamp(page, totalPage)

	start := page - WindowSize/2
	if start < 1 {
		start = 1
	}
	end := start + WindowSize - 1
	if end > totalPage {
		end = totalPage
		start = end - WindowSize + 1
		if start < 1 {
			start = 1
		}
	}

	window := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		window = append(window, n)
	}

	return Pages{
		Current:   page,
		TotalPage: totalPage,
		HasPrev:   page > 1,
		HasNext:   page < totalPage,
		Prev:      page - 1,
		Next:      page + 1,
		Window:    window,
	}
}
