package ui

import (
	"strconv"
	"strings"
)

// pageWindowSize is how many page numbers the pager shows at once.
const pageWindowSize = 5

// clampPage limits requested to [1, totalPages]. ok is false when the result
// is the page already shown, in which case no request should be made. An
// unknown total (zero or less) is treated as a single page.
func clampPage(requested, current, totalPages int) (int, bool) {
	if totalPages < 1 {
		totalPages = 1
	}
	page := requested
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, page != current
}

// pageWindow returns up to pageWindowSize consecutive page numbers with the
// current page as close to the middle as the bounds allow.
func pageWindow(current, totalPages int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	current, _ = clampPage(current, 0, totalPages)

	size := min(pageWindowSize, totalPages)
	start := current - size/2
	if start < 1 {
		start = 1
	}
	if start+size-1 > totalPages {
		start = totalPages - size + 1
	}
	pages := make([]int, size)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

// renderPager draws the page strip, e.g. "‹ 1 2 [3] 4 5 ›  3/12".
func (m Model) renderPager(current, totalPages int, bg BgStyle) string {
	styles := m.theme.Styles()
	if totalPages < 1 {
		totalPages = 1
	}

	var parts []string
	prev := styles.FaintText
	if current > 1 {
		prev = styles.AccentText
	}
	parts = append(parts, bg.Render("‹", prev))
	for _, p := range pageWindow(current, totalPages) {
		label := strconv.Itoa(p)
		if p == current {
			parts = append(parts, bg.Render("["+label+"]", styles.AccentText.Bold(true)))
			continue
		}
		parts = append(parts, bg.Render(label, styles.MutedText))
	}
	next := styles.FaintText
	if current < totalPages {
		next = styles.AccentText
	}
	parts = append(parts, bg.Render("›", next))

	pager := strings.Join(parts, bg.Space())
	return pager + bg.Spaces(2) + bg.Render(strconv.Itoa(current)+"/"+strconv.Itoa(totalPages), styles.FaintText)
}
