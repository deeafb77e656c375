package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/query"
)

// filterPanelWidth is the outer width of the filter panel, borders included.
const filterPanelWidth = 30

// filterOption is one selectable row of the filter panel.
type filterOption struct {
	dim   query.Dimension
	token string
}

// filterOptions lists every enumerated token, grouped by dimension in wire
// order. The free-text name dimension is edited through the name input.
func filterOptions() []filterOption {
	var out []filterOption
	for _, d := range query.Dimensions() {
		for _, tok := range d.Tokens() {
			out = append(out, filterOption{dim: d, token: tok})
		}
	}
	return out
}

// handleSearchKey processes keyboard input for the search view.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showFilters {
		if handled, cmd := m.handleFilterKey(msg); handled {
			return m, cmd
		}
	}

	items := m.snapshot.Page.Items
	switch {
	case key.Matches(msg, m.keys.Down):
		m.selectedRow = clampRow(m.selectedRow+1, len(items))
	case key.Matches(msg, m.keys.Up):
		m.selectedRow = clampRow(m.selectedRow-1, len(items))
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = clampRow(len(items)-1, len(items))

	case key.Matches(msg, m.keys.Open):
		if item, ok := m.selectedSearchItem(); ok {
			return m, m.openDetail(item)
		}
	case key.Matches(msg, m.keys.Favorite):
		if item, ok := m.selectedSearchItem(); ok {
			return m, m.toggleFavorite(item)
		}

	case key.Matches(msg, m.keys.NextPage):
		return m, m.gotoPage(m.current.State.Page + 1)
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.gotoPage(m.current.State.Page - 1)

	case key.Matches(msg, m.keys.Back):
		if ch, ok := m.ctrl.Back(); ok {
			return m, m.applyChange(ch)
		}
	case key.Matches(msg, m.keys.Forward):
		if ch, ok := m.ctrl.Forward(); ok {
			return m, m.applyChange(ch)
		}

	case key.Matches(msg, m.keys.SortName):
		return m, m.applyChange(m.ctrl.SetSort(query.SortName))
	case key.Matches(msg, m.keys.SortRating):
		return m, m.applyChange(m.ctrl.SetSort(query.SortAvgRate))
	case key.Matches(msg, m.keys.SortReviews):
		return m, m.applyChange(m.ctrl.SetSort(query.SortReviewCount))

	case key.Matches(msg, m.keys.NameSearch):
		return m, m.openInput(inputName)
	case key.Matches(msg, m.keys.Address):
		return m, m.openInput(inputAddress)
	case key.Matches(msg, m.keys.Filters):
		m.showFilters = true
	}
	return m, nil
}

// handleFilterKey handles keys owned by the open filter panel.
func (m *Model) handleFilterKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	options := filterOptions()
	switch {
	case key.Matches(msg, m.keys.Down):
		m.filterRow = clampRow(m.filterRow+1, len(options))
	case key.Matches(msg, m.keys.Up):
		m.filterRow = clampRow(m.filterRow-1, len(options))
	case key.Matches(msg, m.keys.Top):
		m.filterRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.filterRow = len(options) - 1
	case key.Matches(msg, m.keys.ToggleFilter), key.Matches(msg, m.keys.Open):
		opt := options[clampRow(m.filterRow, len(options))]
		included := !m.current.State.Filters.Has(opt.dim, opt.token)
		ch, ok := m.ctrl.ToggleFilterToken(opt.dim, opt.token, included)
		if !ok {
			return true, nil
		}
		return true, m.applyChange(ch)
	case key.Matches(msg, m.keys.Filters), key.Matches(msg, m.keys.Escape):
		m.showFilters = false
	default:
		return false, nil
	}
	return true, nil
}

// gotoPage requests page n of the current query when it is in range and not
// already shown.
func (m *Model) gotoPage(n int) tea.Cmd {
	page, ok := clampPage(n, m.current.State.Page, m.snapshot.Page.TotalPages)
	if !ok {
		return nil
	}
	return m.applyChange(m.ctrl.SetPage(page, true))
}

func (m Model) selectedSearchItem() (catalog.Item, bool) {
	items := m.snapshot.Page.Items
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return catalog.Item{}, false
	}
	return items[m.selectedRow], true
}

// renderSearch renders the results list and, when open, the filter panel.
func (m Model) renderSearch(height int) string {
	width := m.width
	if !m.showFilters {
		return m.renderResults(width, height, true)
	}
	panel := m.renderFilterPanel(filterPanelWidth, height)
	results := m.renderResults(width-filterPanelWidth, height, false)
	return joinColumns(panel, results)
}

func (m Model) renderResults(width, height int, focused bool) string {
	st := m.current.State
	title := fmt.Sprintf("Results · sort %s", st.Sort)
	if st.Sort == query.SortName {
		title += " " + string(st.Direction)
	}
	if m.snapshot.HasPage {
		title += fmt.Sprintf(" · %d items", m.snapshot.Page.TotalElements)
	}

	innerWidth := width - 2
	innerHeight := height - 2
	styles := m.theme.Styles()

	var content string
	switch {
	case !m.snapshot.HasPage && m.snapshot.LastError != nil:
		content = styles.DangerText.Render("Search failed: " + m.snapshot.LastError.Error())
	case !m.snapshot.HasPage:
		content = styles.MutedText.Render("Loading…")
	case len(m.snapshot.Page.Items) == 0:
		content = styles.MutedText.Render("No ramyun match these filters")
	default:
		content = m.renderItemRows(m.snapshot.Page.Items, m.selectedRow, innerWidth, innerHeight)
	}
	return m.renderBox(title, content, width, height, focused)
}

func (m Model) renderFilterPanel(width, height int) string {
	styles := m.theme.Styles()
	filters := m.current.State.Filters
	innerWidth := width - 2

	var lines []string
	name := m.current.State.NameQuery()
	if name == "" {
		name = "any"
	}
	lines = append(lines, styles.MutedText.Render(padRight("Name: "+name, innerWidth)))

	var last query.Dimension = -1
	selectedLine := 0
	for i, opt := range filterOptions() {
		if opt.dim != last {
			lines = append(lines, styles.AccentText.Bold(true).Render(opt.dim.Title()))
			last = opt.dim
		}
		box := "[ ]"
		if filters.Has(opt.dim, opt.token) {
			box = "[x]"
		}
		text := padRight(" "+box+" "+opt.dim.Label(opt.token), innerWidth)
		if i == m.filterRow {
			selectedLine = len(lines)
			lines = append(lines, styles.Selected.Render(text))
			continue
		}
		lines = append(lines, styles.Text.Render(text))
	}

	innerHeight := height - 2
	offset := 0
	if selectedLine >= innerHeight {
		offset = selectedLine - innerHeight + 1
	}
	end := min(len(lines), offset+innerHeight)
	title := "Filters"
	if n := filters.Len(); n > 0 {
		title = fmt.Sprintf("Filters (%d)", n)
	}
	return m.renderBox(title, strings.Join(lines[offset:end], "\n"), width, height, true)
}

// renderItemRows renders a scrolled list of items with the selected row
// highlighted.
func (m Model) renderItemRows(items []catalog.Item, selected, width, height int) string {
	styles := m.theme.Styles()
	if height < 2 {
		return ""
	}

	const (
		markW    = 2
		brandW   = 10
		ratingW  = 6
		reviewsW = 8
		kcalW    = 8
	)
	nameW := width - markW - brandW - ratingW - reviewsW - kcalW - 5
	if nameW < 8 {
		nameW = 8
	}

	header := padRight("", markW) + " " + padRight("Name", nameW) + " " + padRight("Brand", brandW) + " " +
		padLeft("Rating", ratingW) + " " + padLeft("Reviews", reviewsW) + " " + padLeft("Kcal", kcalW)
	lines := []string{styles.FaintText.Render(header)}

	rows := height - 1
	offset := 0
	if selected >= rows {
		offset = selected - rows + 1
	}
	for i := offset; i < len(items) && i < offset+rows; i++ {
		item := items[i]
		mark := "  "
		switch {
		case m.pending(item.ID):
			mark = "… "
		case item.Liked:
			mark = "♥ "
		}
		body := padRight(item.Name, nameW) + " " + padRight(item.Brand, brandW) + " " +
			padLeft(formatRating(item), ratingW) + " " + padLeft(fmt.Sprintf("%d", item.ReviewCount), reviewsW) + " " +
			padLeft(fmt.Sprintf("%.0f", item.Kcal), kcalW)

		if i == selected {
			lines = append(lines, styles.Selected.Render(padRight(mark, markW)+" "+body))
			continue
		}
		lines = append(lines, styles.LikedText.Render(padRight(mark, markW))+" "+styles.Text.Render(body))
	}
	return strings.Join(lines, "\n")
}

func formatRating(item catalog.Item) string {
	rating, ok := item.Rating()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f", rating)
}

// joinColumns places two equally tall blocks side by side.
func joinColumns(left, right string) string {
	l := strings.Split(left, "\n")
	r := strings.Split(right, "\n")
	n := max(len(l), len(r))
	out := make([]string, n)
	for i := range out {
		var a, b string
		if i < len(l) {
			a = l[i]
		}
		if i < len(r) {
			b = r[i]
		}
		out[i] = a + b
	}
	return strings.Join(out, "\n")
}
